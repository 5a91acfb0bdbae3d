package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database    DatabaseConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	SMTP        SMTPConfig
	Upstream    UpstreamConfig
	OTP         OTPConfig
	Submissions SubmissionsConfig
	Content     ContentConfig
	Contact     ContactConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SMTPConfig configures outbound verification mail. When Enabled is false
// codes are logged instead of mailed (development only).
type SMTPConfig struct {
	Enabled     bool
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	Workers     int
	MaxRetries  int
}

// UpstreamConfig points at the CMS backing the public content endpoints.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

// OTPConfig governs the email verification session lifecycle.
type OTPConfig struct {
	CodeTTL        time.Duration
	VerifiedTTL    time.Duration
	ResendCooldown time.Duration
	MaxAttempts    int
}

// SubmissionsConfig controls intake storage and upload validation.
type SubmissionsConfig struct {
	StorageDir       string
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// ContentConfig tunes the cached CMS relay.
type ContentConfig struct {
	Enabled  bool
	CacheTTL time.Duration
}

// ContactConfig routes contact submissions to the department inbox.
type ContactConfig struct {
	InboxAddress string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.SMTP = SMTPConfig{
		Enabled:     v.GetBool("SMTP_ENABLED"),
		Host:        v.GetString("SMTP_HOST"),
		Port:        v.GetInt("SMTP_PORT"),
		Username:    v.GetString("SMTP_USERNAME"),
		Password:    v.GetString("SMTP_PASSWORD"),
		FromAddress: v.GetString("SMTP_FROM_ADDRESS"),
		FromName:    v.GetString("SMTP_FROM_NAME"),
		Workers:     v.GetInt("SMTP_WORKERS"),
		MaxRetries:  v.GetInt("SMTP_MAX_RETRIES"),
	}

	cfg.Upstream = UpstreamConfig{
		BaseURL: strings.TrimRight(v.GetString("CMS_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("CMS_TIMEOUT"), 10*time.Second),
	}

	cfg.OTP = OTPConfig{
		CodeTTL:        parseDuration(v.GetString("OTP_CODE_TTL"), 10*time.Minute),
		VerifiedTTL:    parseDuration(v.GetString("OTP_VERIFIED_TTL"), 30*time.Minute),
		ResendCooldown: parseDuration(v.GetString("OTP_RESEND_COOLDOWN"), time.Minute),
		MaxAttempts:    v.GetInt("OTP_MAX_ATTEMPTS"),
	}

	maxUploadSize := v.GetInt64("SUBMISSIONS_MAX_FILE_SIZE")
	if maxUploadSize <= 0 {
		maxUploadSize = 10 * 1024 * 1024
	}
	cfg.Submissions = SubmissionsConfig{
		StorageDir:       v.GetString("SUBMISSIONS_STORAGE_DIR"),
		MaxFileSizeBytes: maxUploadSize,
		AllowedMIMEs:     splitAndTrim(v.GetString("SUBMISSIONS_ALLOWED_MIME_TYPES")),
	}

	cfg.Content = ContentConfig{
		Enabled:  v.GetBool("ENABLE_CONTENT_PROXY"),
		CacheTTL: parseDuration(v.GetString("CONTENT_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Contact = ContactConfig{
		InboxAddress: v.GetString("CONTACT_INBOX_ADDRESS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "department_portal")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SMTP_ENABLED", false)
	v.SetDefault("SMTP_HOST", "localhost")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM_ADDRESS", "noreply@tcioe.edu.np")
	v.SetDefault("SMTP_FROM_NAME", "Department Portal")
	v.SetDefault("SMTP_WORKERS", 2)
	v.SetDefault("SMTP_MAX_RETRIES", 3)

	v.SetDefault("CMS_BASE_URL", "http://localhost:8000")
	v.SetDefault("CMS_TIMEOUT", "10s")

	v.SetDefault("OTP_CODE_TTL", "10m")
	v.SetDefault("OTP_VERIFIED_TTL", "30m")
	v.SetDefault("OTP_RESEND_COOLDOWN", "60s")
	v.SetDefault("OTP_MAX_ATTEMPTS", 5)

	v.SetDefault("SUBMISSIONS_STORAGE_DIR", "./uploads")
	v.SetDefault("SUBMISSIONS_MAX_FILE_SIZE", 10*1024*1024)
	v.SetDefault("SUBMISSIONS_ALLOWED_MIME_TYPES", "image/jpeg,image/png,image/webp,application/pdf")

	v.SetDefault("ENABLE_CONTENT_PROXY", true)
	v.SetDefault("CONTENT_CACHE_TTL", "5m")

	v.SetDefault("CONTACT_INBOX_ADDRESS", "info@tcioe.edu.np")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
