/* settings.go
 * Contains the process Settings read from the environment (and .env via godotenv in main.go)
 */

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable names
const (
	EnvConfigPath   = "VEXSHELL_CONFIG"
	EnvVexDBURL     = "VEXDB_URL"
	EnvVexDBRate    = "VEXDB_RATE"
	EnvMongoURI     = "MONGO_URI"
	EnvMongoDB      = "MONGO_DB"
	EnvCacheTTL     = "CACHE_TTL"
	EnvWaitInterval = "WAIT_INTERVAL"
	EnvDiscordToken = "DISCORD_TOKEN"
	EnvLogLevel     = "LOG_LEVEL"

	EnvWebhookAddr      = "WEBHOOK_ADDR"
	EnvWebhookToken     = "WEBHOOK_TOKEN"
	EnvWebhookSKUPrefix = "WEBHOOK_SKU_PREFIX"
)

const (
	defaultConfigPath   = "vexshell.json"
	defaultVexDBURL     = "https://api.vexdb.io/v1"
	defaultVexDBRate    = 2.0
	defaultMongoDB      = "vexshell"
	defaultCacheTTL     = 5 * time.Minute
	defaultWaitInterval = 30 * time.Second
	defaultLogLevel     = "info"
)

// Settings holds process level settings. Unlike Configuration these are not editable from the shell
type Settings struct {
	ConfigPath   string
	VexDBURL     string
	VexDBRate    float64 // requests per second
	MongoURI     string  // empty selects the in-memory cache
	MongoDB      string
	CacheTTL     time.Duration
	WaitInterval time.Duration
	DiscordToken string
	LogLevel     string

	// The results webhook is served only when WebhookAddr is set
	WebhookAddr      string
	WebhookToken     string
	WebhookSKUPrefix string
}

// LoadSettings reads Settings from the environment with defaults for anything unset or invalid
func LoadSettings() Settings {
	return Settings{
		ConfigPath:   envOrDefault(EnvConfigPath, defaultConfigPath),
		VexDBURL:     strings.TrimRight(envOrDefault(EnvVexDBURL, defaultVexDBURL), "/"),
		VexDBRate:    floatEnvOrDefault(EnvVexDBRate, defaultVexDBRate),
		MongoURI:     os.Getenv(EnvMongoURI),
		MongoDB:      envOrDefault(EnvMongoDB, defaultMongoDB),
		CacheTTL:     durationEnvOrDefault(EnvCacheTTL, defaultCacheTTL),
		WaitInterval: durationEnvOrDefault(EnvWaitInterval, defaultWaitInterval),
		DiscordToken: os.Getenv(EnvDiscordToken),
		LogLevel:     envOrDefault(EnvLogLevel, defaultLogLevel),

		WebhookAddr:      os.Getenv(EnvWebhookAddr),
		WebhookToken:     os.Getenv(EnvWebhookToken),
		WebhookSKUPrefix: os.Getenv(EnvWebhookSKUPrefix),
	}
}

func envOrDefault(key, defaultValue string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val != "" {
		return val
	}
	return defaultValue
}

func durationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}

func floatEnvOrDefault(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val <= 0 {
		return defaultValue
	}
	return val
}
