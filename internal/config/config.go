package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config структура конфигурации
type Config struct {
	Port           string
	AppEnv         string
	JWTSecret      string
	DatabaseURL    string
	DatabaseConfig DatabaseConfig
	AuthConfig     AuthConfig
	RedisConfig    RedisConfig
	BrevoConfig    BrevoConfig

	CloudinaryConfig CloudinaryConfig
	AllowedOrigins   []string
}

// DatabaseConfig содержит конфигурацию базы данных
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AuthConfig параметры регистрации и входа
type AuthConfig struct {
	AllowedEmailDomains []string
	BcryptCost          int
	CodeTTL             time.Duration
}

// RedisConfig используется ограничителем запросов. Пустой Addr отключает лимит.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	RateLimit       int
	RateLimitWindow time.Duration
}

// BrevoConfig настройки отправки писем через Brevo
type BrevoConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
	APIURL    string
}

// CloudinaryConfig содержит конфигурацию для Cloudinary
type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string
	UploadFolder string
}

// IsDevelopment сообщает, запущено ли приложение в режиме разработки
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// LoadConfig загружает переменные из .env и окружения
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env файл не найден, используем переменные окружения")
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("PGHOST", "localhost"),
		Port:     getEnv("PGPORT", "5432"),
		User:     getEnv("PGUSER", "relet_user"),
		Password: getEnv("PGPASSWORD", "relet_pass"),
		Name:     getEnv("PGDATABASE", "relet"),
		SSLMode:  getEnv("PGSSLMODE", "disable"),
	}

	// Явный DATABASE_URL имеет приоритет над PG* переменными
	dbURL := getEnv("DATABASE_URL", fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name, dbConfig.SSLMode))

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		AppEnv:         getEnv("APP_ENV", "production"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		DatabaseURL:    dbURL,
		DatabaseConfig: dbConfig,
		AuthConfig: AuthConfig{
			AllowedEmailDomains: splitList(getEnv("ALLOWED_EMAIL_DOMAINS", "gmail.com")),
			BcryptCost:          getEnvInt("BCRYPT_COST", 10),
			CodeTTL:             getEnvDuration("VERIFICATION_CODE_TTL", 10*time.Minute),
		},
		RedisConfig: RedisConfig{
			Addr:            getEnv("REDIS_ADDR", ""),
			Password:        getEnv("REDIS_PASSWORD", ""),
			DB:              getEnvInt("REDIS_DB", 0),
			RateLimit:       getEnvInt("AUTH_RATE_LIMIT", 20),
			RateLimitWindow: getEnvDuration("AUTH_RATE_WINDOW", time.Minute),
		},
		BrevoConfig: BrevoConfig{
			APIKey:    getEnv("BREVO_API_KEY", ""),
			FromEmail: getEnv("BREVO_FROM_EMAIL", ""),
			FromName:  getEnv("BREVO_FROM_NAME", "Re-Lease"),
			APIURL:    getEnv("BREVO_API_URL", "https://api.brevo.com/v3/smtp/email"),
		},
		CloudinaryConfig: CloudinaryConfig{
			CloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:       getEnv("CLOUDINARY_API_KEY", ""),
			APISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
			UploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", "relet_listings"),
			UploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "listings"),
		},
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("не задана обязательная переменная окружения JWT_SECRET")
	}

	return cfg, nil
}

// getEnv получает переменную окружения или использует дефолтное значение
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("⚠️ Некорректное значение %s=%q, используем %d", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("⚠️ Некорректное значение %s=%q, используем %s", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

// splitList разбирает список через запятую, пустые элементы отбрасываются
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
