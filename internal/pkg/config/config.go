package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (rates, capacity, timeouts), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Booking BookingConfig
	Worker  WorkerConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
	Issuer string `envconfig:"JWT_ISSUER" default:"vintour-identity"`
}

// BookingConfig carries the business parameters of the reservation engine.
// Rate values are cents; the pricing rule content itself lives in upstream
// configuration, not in code.
type BookingConfig struct {
	BookingPrefix        string        `envconfig:"BOOKING_PREFIX" default:"VNT"`
	HourlyRateCents      int64         `envconfig:"BOOKING_HOURLY_RATE_CENTS" default:"10000"`
	PerPersonRateCents   int64         `envconfig:"BOOKING_PER_PERSON_RATE_CENTS" default:"5000"`
	WeekendMultiplier    float64       `envconfig:"BOOKING_WEEKEND_MULTIPLIER" default:"1.15"`
	DepositPercent       float64       `envconfig:"BOOKING_DEPOSIT_PERCENT" default:"50"`
	DailyCapacity        int           `envconfig:"BOOKING_DAILY_CAPACITY" default:"50"`
	MaxPartySize         int           `envconfig:"BOOKING_MAX_PARTY_SIZE" default:"50"`
	MinDurationHours     float64       `envconfig:"BOOKING_MIN_DURATION_HOURS" default:"2"`
	SlotIncrementMinutes int           `envconfig:"BOOKING_SLOT_INCREMENT_MINUTES" default:"30"`
	SlotWindowStart      string        `envconfig:"BOOKING_SLOT_WINDOW_START" default:"08:00"`
	SlotWindowEnd        string        `envconfig:"BOOKING_SLOT_WINDOW_END" default:"22:00"`
	CancellationDeadline time.Duration `envconfig:"BOOKING_CANCELLATION_DEADLINE" default:"24h"`
	HoldTTL              time.Duration `envconfig:"BOOKING_HOLD_TTL" default:"15m"`
}

type WorkerConfig struct {
	PollInterval time.Duration `envconfig:"WORKER_POLL_INTERVAL" default:"5s"`
	BatchSize    int32         `envconfig:"WORKER_BATCH_SIZE" default:"20"`
	MaxAttempts  int32         `envconfig:"WORKER_MAX_ATTEMPTS" default:"5"`
	RetryBackoff time.Duration `envconfig:"WORKER_RETRY_BACKOFF" default:"30s"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "testpass",
			DBName:   "vintour_test",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level:      "warn",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret: "test-secret-key-for-e2e",
			Issuer: "vintour-identity",
		},
		Booking: BookingConfig{
			BookingPrefix:        "VNT",
			HourlyRateCents:      10000,
			PerPersonRateCents:   5000,
			WeekendMultiplier:    1.15,
			DepositPercent:       50,
			DailyCapacity:        50,
			MaxPartySize:         50,
			MinDurationHours:     2,
			SlotIncrementMinutes: 30,
			SlotWindowStart:      "08:00",
			SlotWindowEnd:        "22:00",
			CancellationDeadline: 24 * time.Hour,
			HoldTTL:              15 * time.Minute,
		},
		Worker: WorkerConfig{
			PollInterval: 100 * time.Millisecond,
			BatchSize:    20,
			MaxAttempts:  3,
			RetryBackoff: time.Second,
		},
	}
}
