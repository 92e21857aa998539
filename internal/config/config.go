package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig
	Logging     LoggingConfig
	REST        RESTConfig
	Security    SecurityConfig
	Kafka       KafkaConfig
	Storage     StorageConfig
	Sessions    SessionsConfig
	Restaurants RestaurantDirectory
}

type ServerConfig struct {
	Port string
}

type LoggingConfig struct {
	Directory string
	Level     string
	Format    string
}

// RESTConfig points at the upstream ordering API and the separate auth service.
type RESTConfig struct {
	BaseURL     string
	AuthBaseURL string
	Timeout     time.Duration
}

type SecurityConfig struct {
	JWTSecret string
}

// KafkaConfig names the upstream change topics this service listens to.
type KafkaConfig struct {
	Brokers         []string
	GroupID         string
	MenuTopic       string
	RestaurantTopic string
}

// SessionsConfig bounds how long idle customer sessions and dashboards stay in memory.
type SessionsConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

const (
	StorageDriverFile     = "file"
	StorageDriverPostgres = "postgres"
)

type StorageConfig struct {
	Driver    string
	Directory string
	DSN       string
}

// RestaurantContact is the contact card used when composing outgoing order messages.
type RestaurantContact struct {
	Name    string `yaml:"name"`
	Phone   string `yaml:"phone"`
	Address string `yaml:"address"`
}

// RestaurantDirectory resolves restaurant contact cards by id with a default fallback.
type RestaurantDirectory struct {
	Default RestaurantContact         `yaml:"default"`
	ByID    map[int]RestaurantContact `yaml:"restaurants"`
}

// Lookup returns the contact registered for id, or the default card.
func (d RestaurantDirectory) Lookup(id int) RestaurantContact {
	if contact, ok := d.ByID[id]; ok {
		if strings.TrimSpace(contact.Name) == "" {
			contact.Name = d.Default.Name
		}
		return contact
	}
	return d.Default
}

func Load() (*Config, error) {
	timeout, err := durationEnv("REST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	idleTTL, err := durationEnv("SESSION_IDLE_TTL", 2*time.Hour)
	if err != nil {
		return nil, err
	}
	sweepInterval, err := durationEnv("SESSION_SWEEP_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{Port: getEnv("PORT", "8080")},
		Logging: LoggingConfig{
			Directory: getEnv("LOG_DIR", "./logs"),
			Level:     getEnv("LOG_LEVEL", "info"),
			Format:    getEnv("LOG_FORMAT", "text"),
		},
		REST: RESTConfig{
			BaseURL:     getEnv("API_BASE_URL", "http://localhost:8000"),
			AuthBaseURL: getEnv("AUTH_BASE_URL", "http://localhost:8001"),
			Timeout:     timeout,
		},
		Security: SecurityConfig{JWTSecret: os.Getenv("JWT_SECRET")},
		Kafka: KafkaConfig{
			Brokers:         splitList(firstNonEmpty(os.Getenv("KAFKA_BROKERS"), os.Getenv("KAFKA_BROKER"))),
			GroupID:         getEnv("KAFKA_GROUP_ID", "mesaya-menu"),
			MenuTopic:       getEnv("KAFKA_MENU_TOPIC", "menu-items.updated"),
			RestaurantTopic: getEnv("KAFKA_RESTAURANT_TOPIC", "restaurants.created"),
		},
		Storage: StorageConfig{
			Driver:    strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverFile)),
			Directory: getEnv("STORAGE_DIR", "./data/storage"),
			DSN:       os.Getenv("STORAGE_DSN"),
		},
		Sessions: SessionsConfig{IdleTTL: idleTTL, SweepInterval: sweepInterval},
		Restaurants: RestaurantDirectory{
			Default: RestaurantContact{
				Name:    getEnv("DEFAULT_RESTAURANT_NAME", "satyam pandey"),
				Phone:   getEnv("DEFAULT_RESTAURANT_PHONE", "919463052507"),
				Address: getEnv("DEFAULT_RESTAURANT_ADDRESS", "test"),
			},
		},
	}

	switch cfg.Storage.Driver {
	case StorageDriverFile:
	case StorageDriverPostgres:
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return nil, errors.New("STORAGE_DSN is required when STORAGE_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	if path := strings.TrimSpace(os.Getenv("RESTAURANTS_FILE")); path != "" {
		if err := cfg.Restaurants.mergeFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// mergeFile overlays restaurant contacts from a YAML document on top of the env defaults.
func (d *RestaurantDirectory) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read restaurants file: %w", err)
	}
	return d.mergeYAML(data)
}

func (d *RestaurantDirectory) mergeYAML(data []byte) error {
	var parsed RestaurantDirectory
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse restaurants file: %w", err)
	}
	if parsed.Default.Name != "" {
		d.Default.Name = parsed.Default.Name
	}
	if parsed.Default.Phone != "" {
		d.Default.Phone = parsed.Default.Phone
	}
	if parsed.Default.Address != "" {
		d.Default.Address = parsed.Default.Address
	}
	if len(parsed.ByID) > 0 && d.ByID == nil {
		d.ByID = make(map[int]RestaurantContact, len(parsed.ByID))
	}
	for id, contact := range parsed.ByID {
		d.ByID[id] = contact
	}
	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
