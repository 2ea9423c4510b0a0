package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Worker     WorkerConfig
	Logging    LoggingConfig
	EventBus   EventBusConfig
	Transport  TransportConfig
	Processors ProcessorsConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ShutdownTimeout time.Duration
}

type WorkerConfig struct {
	PoolSize int
}

type LoggingConfig struct {
	Level string
}

type EventBusConfig struct {
	ChannelBufferSize int
	MaxRetries        int
}

type TransportConfig struct {
	Timeout     time.Duration
	MaxAttempts int
}

type ProcessorsConfig struct {
	TSYS   TSYSConfig
	Elavon ElavonConfig
}

type TSYSConfig struct {
	APIURL string
	APIKey string
}

type ElavonConfig struct {
	APIURL   string
	Username string
	Password string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values")
	}

	return &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Worker: WorkerConfig{
			PoolSize: getIntEnv("WORKER_POOL_SIZE", 5),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		EventBus: EventBusConfig{
			ChannelBufferSize: getIntEnv("EVENT_CHANNEL_BUFFER_SIZE", 1000),
			MaxRetries:        getIntEnv("EVENT_MAX_RETRIES", 5),
		},
		Transport: TransportConfig{
			Timeout:     getDurationEnv("PROCESSOR_TIMEOUT", 10*time.Second),
			MaxAttempts: getIntEnv("PROCESSOR_MAX_ATTEMPTS", 1),
		},
		Processors: ProcessorsConfig{
			TSYS: TSYSConfig{
				APIURL: getEnv("TSYS_API_URL", "https://api.sandbox.tsys.com/v1/payments"),
				APIKey: getEnv("TSYS_API_KEY", ""),
			},
			Elavon: ElavonConfig{
				APIURL:   getEnv("ELAVON_API_URL", "https://api.sandbox.elavon.com/v1/payments"),
				Username: getEnv("ELAVON_USERNAME", ""),
				Password: getEnv("ELAVON_PASSWORD", ""),
			},
		},
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid duration for %s: %s, using default: %s", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}
