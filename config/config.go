package config

import (
	"database/sql"
	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"strings"
)

type Config struct {
	MinIOBucket    string         `yaml:"minio_bucket"`
	PublicMediaURL string         `yaml:"public_media_url"`
	App            App            `yaml:"app"`
	DB             *sql.DB        `yaml:"db"`
	Queue          *RabbitMQ      `yaml:"rabbitmq"`
	Storage        *minio.Client  `yaml:"storage"`
	Server         Server         `yaml:"server"`
	Media          Media          `yaml:"media"`
	Payment        Payment        `yaml:"payment"`
	Auth           Auth           `yaml:"auth"`
	PromoCodes     map[string]int `yaml:"promo_codes"`
}

type App struct {
	Environment string `yaml:"environment"`
	Host        string `yaml:"host"`
	Protocol    string `yaml:"protocol"`
}

type Server struct {
	HttpPort string `yaml:"http_port"`
	Workers  int    `yaml:"workers"`
}

type RabbitMQ struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	User         string `json:"user"`
	Pass         string `json:"pass"`
	ExchangeName string `json:"exchange_name"`
	Kind         string `json:"kind"`
}

// Media holds the credentials for the external video provider.
type Media struct {
	BaseURL     string `yaml:"base_url"`
	TokenId     string `yaml:"token_id"`
	TokenSecret string `yaml:"token_secret"`
}

// Payment holds the payment gateway credentials. KeySecret is also the
// shared secret for callback signature verification.
type Payment struct {
	KeyId     string `yaml:"key_id"`
	KeySecret string `yaml:"key_secret"`
}

type Auth struct {
	TokenSecret string `yaml:"token_secret"`
}

const defaultMaxConns = 10

func Load(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", viper.GetString("postgresql_host"))
	if err != nil {
		return nil, err
	}

	// Bounded pool: callers queue on a free connection instead of opening
	// an unbounded number against postgres.
	maxConns := viper.GetInt("postgresql_max_conns")
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)

	rabbitmq := &RabbitMQ{
		Host:         viper.GetString("rabbitmq_host"),
		Port:         viper.GetInt("rabbitmq_port"),
		User:         viper.GetString("rabbitmq_user"),
		Pass:         viper.GetString("rabbitmq_pass"),
		ExchangeName: viper.GetString("rabbitmq_exchange"),
		Kind:         viper.GetString("rabbitmq_kind"),
	}

	minioClient, err := minio.New(viper.GetString("minio.url"), &minio.Options{
		Creds:  credentials.NewStaticV4(viper.GetString("minio.access_id"), viper.GetString("minio.secret_access_key"), ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}

	promoCodes := map[string]int{}
	for code, months := range viper.GetStringMap("promo_codes") {
		promoCodes[strings.ToUpper(code)] = cast.ToInt(months)
	}

	return &Config{
		MinIOBucket:    viper.GetString("minio.bucket"),
		PublicMediaURL: viper.GetString("minio.public_url"),
		App: App{
			Environment: viper.GetString("app.environment"),
			Host:        viper.GetString("app.host"),
			Protocol:    viper.GetString("app.protocol"),
		},
		Server: Server{
			HttpPort: viper.GetString("server.port"),
			Workers:  viper.GetInt("server.workers"),
		},
		Media: Media{
			BaseURL:     viper.GetString("media.base_url"),
			TokenId:     viper.GetString("media.token_id"),
			TokenSecret: viper.GetString("media.token_secret"),
		},
		Payment: Payment{
			KeyId:     viper.GetString("payment.key_id"),
			KeySecret: viper.GetString("payment.key_secret"),
		},
		Auth: Auth{
			TokenSecret: viper.GetString("auth.token_secret"),
		},
		PromoCodes: promoCodes,
		DB:         db,
		Queue:      rabbitmq,
		Storage:    minioClient,
	}, nil
}
