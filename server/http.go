package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"stream-backend/config"
	"stream-backend/constant"
	queueHandler "stream-backend/handler"
	"stream-backend/pkg/muxapi"
	"stream-backend/pkg/payment"
	"stream-backend/pkg/rabbitmq"
	"stream-backend/repository"
	"stream-backend/service"
)

func RunHttp(cfg *config.Config) {
	ctx, cancel := signal.NotifyContext(setupLogger(cfg), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Bool("isProduction", cfg.App.Environment == constant.EnvironmentProduction.String()).Send()
	if cfg.App.Environment == constant.EnvironmentProduction.String() {
		gin.SetMode(gin.ReleaseMode)
	}

	repo := repository.NewRepo(cfg.DB)
	if err := repo.Migrate(ctx); err != nil {
		zerolog.Ctx(ctx).Fatal().Err(err).Msg("failed to migrate schema")
	}

	conn, err := config.NewRabbitMQConn(ctx, cfg.Queue)
	if err != nil {
		zerolog.Ctx(ctx).Fatal().Err(err).Msg("NewRabbitMQConn")
	}
	publisher, err := rabbitmq.NewPublisher(conn, cfg.Queue)
	if err != nil {
		zerolog.Ctx(ctx).Fatal().Err(err).Msg("failed to create publisher")
	}

	provider := muxapi.NewClient(cfg.Media.BaseURL, cfg.Media.TokenId, cfg.Media.TokenSecret)
	gateway := payment.NewGateway(cfg.Payment.KeyId, cfg.Payment.KeySecret)

	ingestService := service.NewIngestService(repo, provider, publisher)
	imageService := service.NewImageService(repo, cfg)
	paymentService := service.NewPaymentService(repo, gateway, cfg.Payment.KeySecret, cfg.PromoCodes, publisher)
	authService := service.NewAuthService(repo, cfg.Auth.TokenSecret)
	entitlementService := service.NewEntitlementService(repo)
	catalogService := service.NewCatalogService(repo)

	serviceDeps := queueHandler.ServiceDependencies{
		IngestService: ingestService,
	}

	// Reconcile worker: follows minted upload sessions until playable.
	ingestConsumer := rabbitmq.NewConsumer(conn, cfg.Queue, cfg.Server.Workers, queueHandler.ReconcileHandler)
	go func() {
		err := ingestConsumer.Consume(ctx, serviceDeps)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("Ingest consumer error")
		}
	}()

	r := gin.Default()
	addHealth(r)
	registerRoutes(r,
		queueHandler.NewIngestHandler(ingestService),
		queueHandler.NewCatalogHandler(catalogService),
		queueHandler.NewImageHandler(imageService, catalogService),
		queueHandler.NewPaymentHandler(paymentService),
		queueHandler.NewAuthHandler(authService),
		queueHandler.NewEntitlementHandler(entitlementService),
	)

	handler := http.Server{
		Handler:           r,
		Addr:              fmt.Sprintf(":%s", cfg.Server.HttpPort),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("start http server")
		if err := handler.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
		}
	}()

	<-ctx.Done()
	zerolog.Ctx(ctx).Info().Msg("shutting down server")
	if err := handler.Shutdown(ctx); err != nil {
		zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
	}

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("server shutdown")
}

func registerRoutes(
	r *gin.Engine,
	ingest *queueHandler.IngestHandler,
	catalog *queueHandler.CatalogHandler,
	image *queueHandler.ImageHandler,
	payments *queueHandler.PaymentHandler,
	auth *queueHandler.AuthHandler,
	entitlement *queueHandler.EntitlementHandler,
) {
	r.POST("/mux-direct-upload", ingest.DirectUpload)
	r.POST("/mux-direct-upload-series", ingest.DirectUploadSeries)
	r.GET("/mux-asset-status/:uploadId", ingest.AssetStatus)
	r.POST("/upload-movie-mux", ingest.Finalize)

	r.POST("/movies", catalog.CreateMovie)
	r.GET("/movies", catalog.ListMovies)
	r.GET("/movie/:id", catalog.GetMovie)
	r.GET("/series", catalog.ListSeries)
	r.POST("/episodes", catalog.CreateEpisode)

	r.POST("/upload-trailer-poster/:id", image.UploadTrailerPoster)
	r.POST("/upload-series", image.UploadSeries)

	r.POST("/create-order", payments.CreateOrder)
	r.POST("/verify-payment", payments.VerifyPayment)
	r.POST("/apply-promo", payments.ApplyPromo)

	r.POST("/register", auth.Register)
	r.POST("/login", auth.Login)
	r.POST("/google-login", auth.GoogleLogin)

	r.GET("/check-premium/:userId", entitlement.CheckPremium)
	r.GET("/check-subscription/:userId", entitlement.CheckSubscription)
	r.GET("/access/:userId", entitlement.Access)
}

func addHealth(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})
}

func setupLogger(cfg *config.Config) context.Context {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.App.Environment == constant.EnvironmentDevelop.String() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Log to standard output
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	return ctx
}
