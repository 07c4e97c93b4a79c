package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the GORM/pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// DatabaseURL returns the URL form used by the migration runner.
func (c DatabaseConfig) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// KafkaConfig holds Kafka connection settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// JWTConfig holds token verification settings for admin endpoints.
type JWTConfig struct {
	Secret string
}

// ServiceConfig holds all configuration for the rental service.
type ServiceConfig struct {
	Port   string
	AppEnv string

	DBConfig    DatabaseConfig
	KafkaConfig KafkaConfig
	JWTConfig   JWTConfig

	// CarDeletePolicy is "any" (block deletion while any booking references
	// the car) or "unresolved" (block only on active/planned bookings).
	CarDeletePolicy string

	// BookingDefaultStatusByDate enables defaulting an unset booking status
	// from its start date on creation.
	BookingDefaultStatusByDate bool
}

// Load reads configuration from RENTAL_-prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("RENTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "rental")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "openfleet-")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("CAR_DELETE_POLICY", "any")
	v.SetDefault("BOOKING_DEFAULT_STATUS_BY_DATE", true)

	cfg := &ServiceConfig{
		Port:   ":" + v.GetString("SERVICE_PORT"),
		AppEnv: v.GetString("APP_ENV"),
		DBConfig: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:     strings.Split(v.GetString("KAFKA_BROKERS"), ","),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		JWTConfig: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		CarDeletePolicy:            v.GetString("CAR_DELETE_POLICY"),
		BookingDefaultStatusByDate: v.GetBool("BOOKING_DEFAULT_STATUS_BY_DATE"),
	}

	if cfg.AppEnv != "development" && cfg.JWTConfig.Secret == "" {
		return nil, fmt.Errorf("RENTAL_JWT_SECRET is required outside development")
	}

	return cfg, nil
}
