package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config carries every externally supplied setting. Values come from the
// environment; a .env file is loaded by main before Load runs.
type Config struct {
	Port        string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	JWTSecret string

	EmailHost string
	EmailPort int
	EmailUser string
	EmailPass string
	FromName  string
	FromEmail string

	UploadDir      string
	MaxUploadMB    int64
	AllowedOrigins []string

	RedisAddr     string // optional; empty disables the product cache
	RedisPassword string
}

func Load() *Config {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        getEnv("DB_NAME", "technocomputers"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		EmailHost:     os.Getenv("EMAIL_HOST"),
		EmailPort:     getEnvInt("EMAIL_PORT", 465),
		EmailUser:     os.Getenv("EMAIL_USER"),
		EmailPass:     os.Getenv("EMAIL_PASS"),
		FromName:      getEnv("FROM_NAME", "Techno Computers"),
		FromEmail:     getEnv("FROM_EMAIL", "no-reply@technocomputers.com"),
		UploadDir:     getEnv("UPLOAD_DIR", "./public/uploads"),
		MaxUploadMB:   int64(getEnvInt("MAX_UPLOAD_MB", 8)),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	return cfg
}

// DSN builds the postgres connection string, preferring DATABASE_URL.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
