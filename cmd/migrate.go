package cmd

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"stream-backend/config"
	"stream-backend/repository"
)

func migrate(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "apply database schema",
		Run: func(cmd *cobra.Command, args []string) {
			repo := repository.NewRepo(config.DB)
			if err := repo.Migrate(context.Background()); err != nil {
				log.Fatal().Err(err).Msg("migration failed")
			}
			log.Info().Msg("schema up to date")
		},
	}
}
