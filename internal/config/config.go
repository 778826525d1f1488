package config

import (
	"os"
	"strconv"
	"strings"
)

// Config is read once at startup from the environment. Presence of
// DatabaseURL selects the durable store; otherwise the board runs purely
// in memory.
type Config struct {
	Port        int
	DatabaseURL string
	SSLMode     string // sslmode for the database connection, e.g. "require"
	RabbitURL   string // optional; enables the orders_fanout event mirror
	PublicDir   string // static frontend files
}

func FromEnv() Config {
	return Config{
		Port:        atoi(os.Getenv("PORT"), 3000),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SSLMode:     os.Getenv("DATABASE_SSLMODE"),
		RabbitURL:   os.Getenv("RABBITMQ_URL"),
		PublicDir:   envDefault("PUBLIC_DIR", "public"),
	}
}

// DSN returns the database URL with the configured sslmode applied, unless
// the URL already carries one.
func (c Config) DSN() string {
	if c.DatabaseURL == "" || c.SSLMode == "" || strings.Contains(c.DatabaseURL, "sslmode=") {
		return c.DatabaseURL
	}
	sep := "?"
	if strings.Contains(c.DatabaseURL, "?") {
		sep = "&"
	}
	return c.DatabaseURL + sep + "sslmode=" + c.SSLMode
}

func (c Config) Durable() bool { return c.DatabaseURL != "" }

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
