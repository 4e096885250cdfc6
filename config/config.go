package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"shop-service/pkg/database"

	"go.uber.org/zap"
)

type Config struct {
	Port    string
	JWT     JWT
	Hash    Hash
	DB      DB
	Redis   Redis
	Kafka   Kafka
	Catalog Catalog
}

type JWT struct {
	Issuer    string
	Secret    string
	AccessExp time.Duration
	// CookieSecure marks the session cookie Secure (HTTPS only).
	CookieSecure bool
}

// Hash configures password hashing. Cost 0 falls back to bcrypt's default.
type Hash struct {
	BcryptCost int
}

type DB struct {
	database.Config
}

type Redis struct {
	Enabled    bool
	Addr       string
	Password   string
	DB         int
	TTLSeconds int
}

type Kafka struct {
	Brokers     []string
	OrdersTopic string
}

type Catalog struct {
	SyncInterval time.Duration
}

func Load(log *zap.Logger) *Config {
	return &Config{
		Port: getEnv("APP_PORT", log),
		JWT: JWT{
			Issuer:       getEnv("JWT_ISSUER", log),
			Secret:       getEnv("JWT_SECRET", log),
			AccessExp:    parseDurationWithDays(getEnvDefault("ACCESS_EXP", "1h")),
			CookieSecure: getEnvDefault("COOKIE_SECURE", "false") == "true",
		},
		Hash: Hash{
			BcryptCost: atoiDefault(getEnvDefault("BCRYPT_COST", "0"), 0),
		},
		DB: DB{Config: loadDB(log)},
		Redis: Redis{
			Enabled:    getEnvDefault("REDIS_ENABLED", "false") == "true",
			Addr:       getEnvDefault("REDIS_ADDR", "localhost:6379"),
			Password:   getEnvDefault("REDIS_PASSWORD", ""),
			DB:         atoiDefault(getEnvDefault("REDIS_DB", "0"), 0),
			TTLSeconds: atoiDefault(getEnvDefault("CACHE_TTL_SECONDS", "60"), 60),
		},
		Kafka: Kafka{
			Brokers:     splitAndTrim(os.Getenv("KAFKA_BROKERS")),
			OrdersTopic: getEnvDefault("KAFKA_TOPIC_ORDERS", "orders.placed"),
		},
		Catalog: Catalog{
			SyncInterval: parseDurationWithDays(getEnvDefault("CATALOG_SYNC_INTERVAL", "10m")),
		},
	}
}

// LoadDB reads only the database settings (migrate, seed).
func LoadDB(log *zap.Logger) *DB {
	return &DB{Config: loadDB(log)}
}

func loadDB(log *zap.Logger) database.Config {
	return database.Config{
		Host:     getEnv("DB_HOST", log),
		Port:     getEnv("DB_PORT", log),
		User:     getEnv("DB_USER", log),
		Password: getEnv("DB_PASSWORD", log),
		Name:     getEnv("DB_NAME", log),
		SSLMode:  getEnv("DB_SSLMODE", log),
	}
}

type Notifier struct {
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPSSL      bool
}

func LoadNotifier(log *zap.Logger) *Notifier {
	return &Notifier{
		KafkaBrokers: splitAndTrim(getEnv("KAFKA_BROKERS", log)),
		KafkaTopic:   getEnvDefault("KAFKA_TOPIC_ORDERS", "orders.placed"),
		KafkaGroupID: getEnvDefault("KAFKA_GROUP_ID", "shop-notifier"),
		SMTPHost:     getEnv("SMTP_HOST", log),
		SMTPPort:     atoiDefault(getEnv("SMTP_PORT", log), 465),
		SMTPUser:     getEnv("SMTP_USER", log),
		SMTPPassword: getEnv("SMTP_PASSWORD", log),
		SMTPFrom:     getEnv("SMTP_FROM", log),
		SMTPSSL:      getEnvDefault("SMTP_SSL", "true") == "true",
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("Обязательная переменная окружения не установлена", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvDefault(key, def string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return def
}

func parseDurationWithDays(s string) time.Duration {
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		days, err := time.ParseDuration(daysStr + "h")
		if err != nil {
			log.Printf("Ошибка парсинга TTL: %v", err)
			return 0
		}
		return time.Duration(24) * days
	}

	duration, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return duration
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		pt := strings.TrimSpace(p)
		if pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}
