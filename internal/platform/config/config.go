package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	MongoURI      string
	MongoDatabase string

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	ClientCacheTTL time.Duration

	RabbitURL             string
	WalletTransferQueue   string
	ExchangeTransferQueue string

	ProductServiceURL string
	ClientServiceURL  string
	WalletServiceURL  string
	GatewayTimeout    time.Duration

	JWTSecret string
	RateLimit string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Ignore the error: a missing .env file just means env vars only.
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "movements")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CLIENT_CACHE_TTL", "10m")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("WALLET_TRANSFER_QUEUE", "wallet-transfers")
	viper.SetDefault("EXCHANGE_TRANSFER_QUEUE", "exchange-transfers")
	viper.SetDefault("PRODUCT_SERVICE_URL", "http://localhost:8081")
	viper.SetDefault("CLIENT_SERVICE_URL", "http://localhost:8082")
	viper.SetDefault("WALLET_SERVICE_URL", "http://localhost:8083")
	viper.SetDefault("GATEWAY_TIMEOUT", "5s")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:                  viper.GetString("PORT"),
		IsProduction:          viper.GetBool("IS_PRODUCTION"),
		MongoURI:              viper.GetString("MONGO_URI"),
		MongoDatabase:         viper.GetString("MONGO_DATABASE"),
		RedisAddr:             viper.GetString("REDIS_ADDR"),
		RedisPassword:         viper.GetString("REDIS_PASSWORD"),
		RedisDB:               viper.GetInt("REDIS_DB"),
		RabbitURL:             viper.GetString("RABBITMQ_URL"),
		WalletTransferQueue:   viper.GetString("WALLET_TRANSFER_QUEUE"),
		ExchangeTransferQueue: viper.GetString("EXCHANGE_TRANSFER_QUEUE"),
		ProductServiceURL:     viper.GetString("PRODUCT_SERVICE_URL"),
		ClientServiceURL:      viper.GetString("CLIENT_SERVICE_URL"),
		WalletServiceURL:      viper.GetString("WALLET_SERVICE_URL"),
		JWTSecret:             viper.GetString("JWT_SECRET"),
		RateLimit:             viper.GetString("RATE_LIMIT"),
	}

	cacheTTL, err := time.ParseDuration(viper.GetString("CLIENT_CACHE_TTL"))
	if err != nil {
		cacheTTL = 10 * time.Minute
		log.Printf("Warning: invalid CLIENT_CACHE_TTL, defaulting to %s\n", cacheTTL)
	}
	cfg.ClientCacheTTL = cacheTTL

	gatewayTimeout, err := time.ParseDuration(viper.GetString("GATEWAY_TIMEOUT"))
	if err != nil {
		gatewayTimeout = 5 * time.Second
		log.Printf("Warning: invalid GATEWAY_TIMEOUT, defaulting to %s\n", gatewayTimeout)
	}
	cfg.GatewayTimeout = gatewayTimeout

	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	if cfg.RabbitURL == "" {
		log.Println("Warning: RABBITMQ_URL not set. Event consumers are disabled.")
	}

	return cfg, nil
}
