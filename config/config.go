package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"NAME"`
		Timezone string `envconfig:"TIMEZONE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"`
		RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int          `envconfig:"MAX_RETRY"`
			RetryWaitTime  int          `envconfig:"RETRY_WAIT_TIME"`
			MigrationTable string       `envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool         `envconfig:"AUTO_MIGRATE"`
			Prefix         string       `envconfig:"PREFIX"`
			Read           PostgresNode `envconfig:"READ"`
			Write          PostgresNode `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string  `envconfig:"API_ENDPOINT"`
			AccessKeyID     string  `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string  `envconfig:"SECRET_ACCESS_KEY"`
			BucketName      string  `envconfig:"BUCKET_NAME"`
			PublicDomain    string  `envconfig:"PUBLIC_DOMAIN"`
			MaxUploadFiles  int     `default:"10"               envconfig:"MAX_UPLOAD_FILES"`
			MaxFileSizeMB   float64 `default:"5"                envconfig:"MAX_FILE_SIZE_MB"`
		} `envconfig:"S3"`
	} `envconfig:"EXTERNAL"`

	Kafka struct {
		Enable        bool     `envconfig:"ENABLE"`
		Brokers       []string `envconfig:"BROKERS"`
		ConsumerGroup string   `default:"hotel-worker" envconfig:"CONSUMER_GROUP"`
		SASL          struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		Topic struct {
			Bookings string `default:"hotel.bookings" envconfig:"BOOKINGS"`
			Messages string `default:"hotel.messages" envconfig:"MESSAGES"`
		} `envconfig:"TOPIC"`
	} `envconfig:"KAFKA"`

	// Loyalty tiers are reached when a guest's paid spend is at least the threshold.
	Loyalty struct {
		Silver   float64 `default:"20000"  envconfig:"SILVER"`
		Gold     float64 `default:"50000"  envconfig:"GOLD"`
		Platinum float64 `default:"100000" envconfig:"PLATINUM"`
	} `envconfig:"LOYALTY"`

	Analytics struct {
		OccupancyStatuses      []string `default:"checked-in" envconfig:"OCCUPANCY_STATUSES"`
		DashboardOccupancyDays int      `default:"30"         envconfig:"DASHBOARD_OCCUPANCY_DAYS"`
		RecentBookings         int      `default:"5"          envconfig:"RECENT_BOOKINGS"`
	} `envconfig:"ANALYTICS"`

	Metrics struct {
		Enable bool   `default:"true"     envconfig:"ENABLE"`
		Path   string `default:"/metrics" envconfig:"PATH"`
	} `envconfig:"METRICS"`
}

type PostgresNode struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE"`
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

// Init loads .env when present and then reads the environment. A missing
// .env is normal in containers and only logged.
func Init() error {
	var err error

	once.Do(func() {
		if dotenvErr := godotenv.Load(".env"); dotenvErr != nil {
			log.Warn().Err(dotenvErr).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Loaded variables from .env file into environment")
		}

		if err = envconfig.Process("", &conf); err != nil {
			return
		}

		initialized = true

		log.Info().Msg("Service configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("processing environment variables: %w", err)
	}

	return nil
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize configuration")
		}
	}

	return &conf
}
