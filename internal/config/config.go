package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Необязательная инфраструктура: пустое значение отключает компонент
	DatabaseURL    string `env:"DATABASE_URL"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"file://migrations"`
	RedisAddr      string `env:"REDIS_ADDR"`
	RedisPass      string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`
	NATSURL        string `env:"NATS_URL"`
	MQTTBroker     string `env:"MQTT_BROKER"`
	MQTTClientID   string `env:"MQTT_CLIENT_ID" envDefault:"green-corridor-dispatch"`
	MQTTTopic      string `env:"MQTT_TOPIC_PREFIX" envDefault:"traffic/corridors"`

	// Intake Config
	RegionMinLat        float64       `env:"REGION_MIN_LAT" envDefault:"28.0"`
	RegionMaxLat        float64       `env:"REGION_MAX_LAT" envDefault:"29.5"`
	RegionMinLon        float64       `env:"REGION_MIN_LON" envDefault:"76.5"`
	RegionMaxLon        float64       `env:"REGION_MAX_LON" envDefault:"77.8"`
	MinSourceConfidence float64       `env:"MIN_SOURCE_CONFIDENCE" envDefault:"0.3"`
	ReferenceTTL        time.Duration `env:"REFERENCE_TTL" envDefault:"0s"`

	// Scoring / ETA oracles
	ScoringOracleURL string        `env:"SCORING_ORACLE_URL"`
	ETAOracleURL     string        `env:"ETA_ORACLE_URL"`
	OracleTimeout    time.Duration `env:"ORACLE_TIMEOUT" envDefault:"2s"`

	// Facility Config
	FacilityCatalogPath string        `env:"FACILITY_CATALOG_PATH" envDefault:"configs/facilities.yaml"`
	OverrideWindow      time.Duration `env:"OVERRIDE_WINDOW" envDefault:"15m"`

	// Routing Config
	TimeZone         string  `env:"TIME_ZONE" envDefault:"UTC"`
	PeakSpeedKmh     float64 `env:"SPEED_PEAK_KMH" envDefault:"15"`
	OffPeakSpeedKmh  float64 `env:"SPEED_OFFPEAK_KMH" envDefault:"25"`
	NightSpeedKmh    float64 `env:"SPEED_NIGHT_KMH" envDefault:"35"`
	CorridorFactor   float64 `env:"CORRIDOR_ETA_FACTOR" envDefault:"0.55"`
	PriorityFactor   float64 `env:"PRIORITY_ETA_FACTOR" envDefault:"0.85"`
	PriorityETAFloor int     `env:"PRIORITY_ETA_FLOOR_MINUTES" envDefault:"3"`

	// Corridor Config
	CorridorMinTimeSaved int     `env:"CORRIDOR_MIN_TIME_SAVED" envDefault:"5"`
	SignalDensityPerKm   float64 `env:"SIGNAL_DENSITY_PER_KM" envDefault:"1.8"`
	SignalMaxPoints      int     `env:"SIGNAL_MAX_POINTS" envDefault:"10"`

	// Dispatch Config
	// FinalizedRetention - сколько завершённых диспетчеризаций держать в памяти
	FinalizedRetention int `env:"FINALIZED_RETENTION" envDefault:"1024"`

	// Notification Config
	NotifyTimeout    time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"5s"`
	NotifyMaxRetries int           `env:"NOTIFY_MAX_RETRIES" envDefault:"2"`
	NotifyBaseDelay  time.Duration `env:"NOTIFY_BASE_DELAY" envDefault:"200ms"`

	// Webhook Config
	WebhookFacilityURL  string `env:"WEBHOOK_FACILITY_URL"`
	WebhookAuthorityURL string `env:"WEBHOOK_AUTHORITY_URL"`
	WebhookRequesterURL string `env:"WEBHOOK_REQUESTER_URL"`
	WebhookSecret       string `env:"WEBHOOK_SECRET"`

	// Slack Config
	SlackBotToken         string `env:"SLACK_BOT_TOKEN"`
	SlackAuthorityChannel string `env:"SLACK_AUTHORITY_CHANNEL"`
	SlackFacilityChannel  string `env:"SLACK_FACILITY_CHANNEL"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		HTTPPort:             "8080",
		LogLevel:             "info",
		MigrationsPath:       "file://migrations",
		MQTTClientID:         "green-corridor-dispatch",
		MQTTTopic:            "traffic/corridors",
		RegionMinLat:         28.0,
		RegionMaxLat:         29.5,
		RegionMinLon:         76.5,
		RegionMaxLon:         77.8,
		MinSourceConfidence:  0.3,
		OracleTimeout:        2 * time.Second,
		FacilityCatalogPath:  "configs/facilities.yaml",
		OverrideWindow:       15 * time.Minute,
		TimeZone:             "UTC",
		PeakSpeedKmh:         15,
		OffPeakSpeedKmh:      25,
		NightSpeedKmh:        35,
		CorridorFactor:       0.55,
		PriorityFactor:       0.85,
		PriorityETAFloor:     3,
		CorridorMinTimeSaved: 5,
		SignalDensityPerKm:   1.8,
		SignalMaxPoints:      10,
		FinalizedRetention:   1024,
		NotifyTimeout:        5 * time.Second,
		NotifyMaxRetries:     2,
		NotifyBaseDelay:      200 * time.Millisecond,
	}
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	d := Default()
	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", d.HTTPPort),
		LogLevel:       getEnv("LOG_LEVEL", d.LogLevel),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", d.MigrationsPath),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		NATSURL:        os.Getenv("NATS_URL"),
		MQTTBroker:     os.Getenv("MQTT_BROKER"),
		MQTTClientID:   getEnv("MQTT_CLIENT_ID", d.MQTTClientID),
		MQTTTopic:      getEnv("MQTT_TOPIC_PREFIX", d.MQTTTopic),

		RegionMinLat:        getEnvAsFloat("REGION_MIN_LAT", d.RegionMinLat),
		RegionMaxLat:        getEnvAsFloat("REGION_MAX_LAT", d.RegionMaxLat),
		RegionMinLon:        getEnvAsFloat("REGION_MIN_LON", d.RegionMinLon),
		RegionMaxLon:        getEnvAsFloat("REGION_MAX_LON", d.RegionMaxLon),
		MinSourceConfidence: getEnvAsFloat("MIN_SOURCE_CONFIDENCE", d.MinSourceConfidence),
		ReferenceTTL:        getEnvAsDuration("REFERENCE_TTL", d.ReferenceTTL),

		ScoringOracleURL: os.Getenv("SCORING_ORACLE_URL"),
		ETAOracleURL:     os.Getenv("ETA_ORACLE_URL"),
		OracleTimeout:    getEnvAsDuration("ORACLE_TIMEOUT", d.OracleTimeout),

		FacilityCatalogPath: getEnv("FACILITY_CATALOG_PATH", d.FacilityCatalogPath),
		OverrideWindow:      getEnvAsDuration("OVERRIDE_WINDOW", d.OverrideWindow),

		TimeZone:         getEnv("TIME_ZONE", d.TimeZone),
		PeakSpeedKmh:     getEnvAsFloat("SPEED_PEAK_KMH", d.PeakSpeedKmh),
		OffPeakSpeedKmh:  getEnvAsFloat("SPEED_OFFPEAK_KMH", d.OffPeakSpeedKmh),
		NightSpeedKmh:    getEnvAsFloat("SPEED_NIGHT_KMH", d.NightSpeedKmh),
		CorridorFactor:   getEnvAsFloat("CORRIDOR_ETA_FACTOR", d.CorridorFactor),
		PriorityFactor:   getEnvAsFloat("PRIORITY_ETA_FACTOR", d.PriorityFactor),
		PriorityETAFloor: getEnvAsInt("PRIORITY_ETA_FLOOR_MINUTES", d.PriorityETAFloor),

		CorridorMinTimeSaved: getEnvAsInt("CORRIDOR_MIN_TIME_SAVED", d.CorridorMinTimeSaved),
		SignalDensityPerKm:   getEnvAsFloat("SIGNAL_DENSITY_PER_KM", d.SignalDensityPerKm),
		SignalMaxPoints:      getEnvAsInt("SIGNAL_MAX_POINTS", d.SignalMaxPoints),

		FinalizedRetention: getEnvAsInt("FINALIZED_RETENTION", d.FinalizedRetention),

		NotifyTimeout:    getEnvAsDuration("NOTIFY_TIMEOUT", d.NotifyTimeout),
		NotifyMaxRetries: getEnvAsInt("NOTIFY_MAX_RETRIES", d.NotifyMaxRetries),
		NotifyBaseDelay:  getEnvAsDuration("NOTIFY_BASE_DELAY", d.NotifyBaseDelay),

		WebhookFacilityURL:  os.Getenv("WEBHOOK_FACILITY_URL"),
		WebhookAuthorityURL: os.Getenv("WEBHOOK_AUTHORITY_URL"),
		WebhookRequesterURL: os.Getenv("WEBHOOK_REQUESTER_URL"),
		WebhookSecret:       os.Getenv("WEBHOOK_SECRET"),

		SlackBotToken:         os.Getenv("SLACK_BOT_TOKEN"),
		SlackAuthorityChannel: os.Getenv("SLACK_AUTHORITY_CHANNEL"),
		SlackFacilityChannel:  os.Getenv("SLACK_FACILITY_CHANNEL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	var problems []string
	if c.RegionMinLat >= c.RegionMaxLat || c.RegionMinLon >= c.RegionMaxLon {
		problems = append(problems, "region bounds are empty")
	}
	if c.PeakSpeedKmh <= 0 || c.OffPeakSpeedKmh <= 0 || c.NightSpeedKmh <= 0 {
		problems = append(problems, "speed constants must be positive")
	}
	if c.NotifyMaxRetries < 0 {
		problems = append(problems, "NOTIFY_MAX_RETRIES must not be negative")
	}
	if c.ReferenceTTL < 0 {
		problems = append(problems, "REFERENCE_TTL must not be negative")
	}
	if c.FinalizedRetention < 0 {
		problems = append(problems, "FINALIZED_RETENTION must not be negative")
	}
	if c.SignalMaxPoints < 1 {
		problems = append(problems, "SIGNAL_MAX_POINTS must be at least 1")
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		problems = append(problems, fmt.Sprintf("unknown TIME_ZONE %q", c.TimeZone))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
	}
	return nil
}

// Location возвращает часовой пояс для расчета интервалов суток
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat возвращает значение переменной окружения как float64 или значение по умолчанию
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
