package config

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/shopindream/storefront/internal/log"
)

type Application struct {
	Env     string `mapstructure:"env"      json:"env"`
	Host    string `mapstructure:"host"     json:"host"`
	LogPath string `mapstructure:"log_path" json:"log_path"`
	Port    int    `mapstructure:"port"     json:"port"`
}

type Backend struct {
	ProductURL  string `mapstructure:"product_url"  json:"product_url"`
	CartURL     string `mapstructure:"cart_url"     json:"cart_url"`
	CheckoutURL string `mapstructure:"checkout_url" json:"checkout_url"`
	OrderURL    string `mapstructure:"order_url"    json:"order_url"`
	PaymentURL  string `mapstructure:"payment_url"  json:"payment_url"`
	UserURL     string `mapstructure:"user_url"     json:"user_url"`
	TimeoutSec  int    `mapstructure:"timeout_sec"  json:"timeout_sec"`
}

type Storage struct {
	// Driver selects the cart persistence backend, either "file" or "redis".
	Driver string `mapstructure:"driver" json:"driver"`
	Dir    string `mapstructure:"dir"    json:"dir"`
}

type Cache struct {
	Host     string `mapstructure:"host"     json:"host"`
	Password string `mapstructure:"password" json:"-"`
	Database int    `mapstructure:"database" json:"database"`
	Port     uint16 `mapstructure:"port"     json:"port"`
}

type Otel struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

type Config struct {
	Backend     `mapstructure:"backend"     json:"backend"`
	Storage     `mapstructure:"storage"     json:"storage"`
	Cache       `mapstructure:"cache"       json:"cache"`
	Application `mapstructure:"application" json:"application"`
	Otel        `mapstructure:"otel"        json:"otel"`
}

var (
	once   sync.Once
	config *Config
)

func InitConfig(c context.Context, filename string) *Config {
	cfg := Config{}
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "main InitConfig").
			Str(log.KeyProcess, "init config").
			Str("filename", filename).
			Logger()

		viper.SetConfigName(filename)
		viper.AddConfigPath("./env")
		viper.SetConfigType("yaml")
		viper.AutomaticEnv()

		logger = logger.With().Str(log.KeyProcess, "reading config").Logger()
		logger.Info().Msg("reading config")
		err := viper.ReadInConfig()
		if err != nil {
			err = fmt.Errorf("error when reading config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("read config")

		logger = logger.With().Str(log.KeyProcess, "unmarshaling config").Logger()
		logger.Info().Msg("unmarshaling config")
		err = viper.Unmarshal(&cfg)
		if err != nil {
			err = fmt.Errorf("error unmarshaling config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = &cfg
		logger = logger.With().Any(log.KeyConfig, cfg).Logger()
		logger.Info().Msg("unmarshaled config")
	})
	return config
}
