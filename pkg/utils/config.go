package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Email    EmailConfig
	OTP      OTPConfig
	Domain   DomainConfig
	Gemini   GeminiConfig
	Outbox   OutboxConfig
	Static   StaticConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type SessionConfig struct {
	ExpiryHours         int
	MagicLinkExpiryMins int
	RefreshExpiryDays   int
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type OTPConfig struct {
	ExpiryMinutes int
	Length        int
}

// DomainConfig drives the availability checker: the registry suffix appended
// to candidate labels, the RDAP base URL and the DNS-over-HTTPS resolver.
type DomainConfig struct {
	Suffix   string
	RDAPBase string
	DoHURL   string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OutboxConfig struct {
	PollSeconds    int
	MaxAttempts    int
	BackoffSeconds int
}

type StaticConfig struct {
	OutputDir string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("MAGIC_LINK_EXPIRY_MINUTES", 5)
	viper.SetDefault("REFRESH_EXPIRY_DAYS", 30)
	viper.SetDefault("OTP_EXPIRY_MINUTES", 10)
	viper.SetDefault("OTP_LENGTH", 6)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DOMAIN_SUFFIX", ".com.br")
	viper.SetDefault("RDAP_BASE_URL", "https://rdap.registro.br")
	viper.SetDefault("DOH_URL", "https://dns.google/resolve")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	viper.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("OUTBOX_POLL_SECONDS", 5)
	viper.SetDefault("OUTBOX_MAX_ATTEMPTS", 8)
	viper.SetDefault("OUTBOX_BACKOFF_SECONDS", 10)
	viper.SetDefault("STATIC_OUTPUT_DIR", "public/sites")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			ExpiryHours:         viper.GetInt("SESSION_EXPIRY_HOURS"),
			MagicLinkExpiryMins: viper.GetInt("MAGIC_LINK_EXPIRY_MINUTES"),
			RefreshExpiryDays:   viper.GetInt("REFRESH_EXPIRY_DAYS"),
		},
		Email: EmailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: viper.GetInt("OTP_EXPIRY_MINUTES"),
			Length:        viper.GetInt("OTP_LENGTH"),
		},
		Domain: DomainConfig{
			Suffix:   viper.GetString("DOMAIN_SUFFIX"),
			RDAPBase: viper.GetString("RDAP_BASE_URL"),
			DoHURL:   viper.GetString("DOH_URL"),
		},
		Gemini: GeminiConfig{
			APIKey:  viper.GetString("GEMINI_API_KEY"),
			Model:   viper.GetString("GEMINI_MODEL"),
			BaseURL: viper.GetString("GEMINI_BASE_URL"),
		},
		Outbox: OutboxConfig{
			PollSeconds:    viper.GetInt("OUTBOX_POLL_SECONDS"),
			MaxAttempts:    viper.GetInt("OUTBOX_MAX_ATTEMPTS"),
			BackoffSeconds: viper.GetInt("OUTBOX_BACKOFF_SECONDS"),
		},
		Static: StaticConfig{
			OutputDir: viper.GetString("STATIC_OUTPUT_DIR"),
		},
	}

	return config, nil
}
