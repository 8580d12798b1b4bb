package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment. It is
// built once in main and passed by reference; checkers never read ambient
// env vars themselves.
type Config struct {
	Port       string
	CronSecret string

	DatabaseURL string

	TelegramBotToken string
	TelegramChatID   string

	// Pincodes are tried in order for stores with delivery-serviceability
	// checks. CheckAllPincodes disables the stop-at-first-hit behavior.
	Pincodes         []string
	CheckAllPincodes bool

	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AmazonPartnerTag   string

	LicenseServerURL string
	LicenseClientID  string
	LicenseKey       string
	LicenseDBPath    string
}

// Load reads the .env file (if present) and returns a populated Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		Port:       getEnv("PORT", "9090"),
		CronSecret: getEnv("CRON_SECRET", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),

		Pincodes:         getEnvList("PINCODES", "132001"),
		CheckAllPincodes: getEnvBool("CHECK_ALL_PINCODES", false),

		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AmazonPartnerTag:   getEnv("AMAZON_PARTNER_TAG", ""),

		LicenseServerURL: getEnv("LICENSE_SERVER_URL", ""),
		LicenseClientID:  getEnv("LICENSE_CLIENT_ID", ""),
		LicenseKey:       getEnv("LICENSE_KEY", ""),
		LicenseDBPath:    getEnv("LICENSE_DB_PATH", "./license.db"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		raw = fallback
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
