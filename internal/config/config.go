package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DBPath       string
	AllowOrigins []string

	MLServiceURL string
	MLTimeout    time.Duration

	KafkaAddress string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	LogLevel string
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	log.Printf("Notice: cannot parse %s=%q, using default %s", k, v, def)
	return def
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		Port:         getenv("PORT", "5000"),
		DBPath:       getenv("DB_PATH", "agripulse.db"),
		AllowOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},

		MLServiceURL: getenv("ML_SERVICE_URL", "http://localhost:5001"),
		MLTimeout:    getenvDuration("ML_TIMEOUT", 30*time.Second),

		KafkaAddress: os.Getenv("KAFKA_ADDRESS"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    getenv("ES_INDEX", "product"),

		LogLevel: getenv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// SearchEnabled reports whether the optional Elasticsearch-backed search
// surface should be wired at startup.
func (c *Config) SearchEnabled() bool {
	return c.ESURL != ""
}

// EventsEnabled reports whether a Kafka producer should be wired at startup.
func (c *Config) EventsEnabled() bool {
	return c.KafkaAddress != ""
}
