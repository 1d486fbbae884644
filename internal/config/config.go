package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Settings struct {
	Port        int
	DatabaseDSN string
	// TrustProxy makes the router take the client address from
	// X-Forwarded-For / X-Real-IP. Only enable behind a proxy that overwrites them.
	TrustProxy  bool

	JWT       JWTConfig
	AI        AIConfig
	Redis     RedisConfig
	MinIO     MinIOConfig
	SMTP      SMTPConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// AIConfig configures question generation. An empty APIKey is allowed: the
// process still starts and only the generation endpoint reports the problem.
type AIConfig struct {
	APIKey          string
	Model           string
	// BaseURL overrides the Gemini API endpoint, e.g. for a gateway. Empty uses the SDK default.
	BaseURL         string
	Timeout         time.Duration
	MaxOutputTokens int
	FailurePolicy   string
	CooldownBackend string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	PublicURL       string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Enabled bool
	Rate    float64
	Burst   int
}

// Load reads the process configuration from environment variables.
func Load() (*Settings, error) {
	s := &Settings{
		Port:        getEnvInt("PORT", 5000),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		TrustProxy:  getEnvBool("TRUST_PROXY", false),
		JWT: JWTConfig{
			AccessSecret:  os.Getenv("JWT_SECRET"),
			RefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
			AccessTTL:     getEnvDuration("JWT_ACCESS_TTL", time.Hour),
			RefreshTTL:    getEnvDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		},
		AI: AIConfig{
			APIKey:          os.Getenv("GEMINI_API_KEY"),
			Model:           getEnvString("GEMINI_MODEL", "gemini-2.0-flash"),
			BaseURL:         os.Getenv("GEMINI_BASE_URL"),
			Timeout:         getEnvDuration("AI_TIMEOUT", 30*time.Second),
			MaxOutputTokens: getEnvInt("AI_MAX_OUTPUT_TOKENS", 512),
			FailurePolicy:   strings.ToLower(getEnvString("AI_FAILURE_POLICY", "lenient")),
			CooldownBackend: strings.ToLower(getEnvString("AI_COOLDOWN_BACKEND", "memory")),
		},
		Redis: RedisConfig{
			Addr:     getEnvString("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:        os.Getenv("MINIO_ENDPOINT"),
			AccessKeyID:     os.Getenv("MINIO_ACCESS_KEY"),
			SecretAccessKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:          getEnvString("MINIO_BUCKET", "profile-pictures"),
			UseSSL:          getEnvBool("MINIO_USE_SSL", true),
			PublicURL:       os.Getenv("MINIO_PUBLIC_URL"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     getEnvString("MAIL_FROM", "InterviewAce <barkbuddyinf@gmail.com>"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseList(getEnvString("CORS_ORIGINS", "http://localhost:5173,https://interviewacefe.vercel.app")),
		},
		RateLimit: RateLimitConfig{
			Enabled: getEnvBool("RATE_LIMIT_ENABLED", true),
			Rate:    getEnvFloat("RATE_LIMIT_RPS", 1),
			Burst:   getEnvInt("RATE_LIMIT_BURST", 5),
		},
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) Validate() error {
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("config error: PORT out of range: %d", s.Port)
	}
	if s.JWT.AccessSecret == "" {
		return fmt.Errorf("config error: JWT_SECRET is required")
	}
	if s.JWT.RefreshSecret == "" {
		return fmt.Errorf("config error: JWT_REFRESH_SECRET is required")
	}
	if s.JWT.AccessTTL <= 0 || s.JWT.RefreshTTL <= 0 {
		return fmt.Errorf("config error: token lifetimes must be positive")
	}
	if s.AI.Timeout <= 0 {
		return fmt.Errorf("config error: AI_TIMEOUT must be positive")
	}
	if s.AI.MaxOutputTokens <= 0 {
		return fmt.Errorf("config error: AI_MAX_OUTPUT_TOKENS must be positive")
	}
	switch s.AI.FailurePolicy {
	case "lenient", "strict":
	default:
		return fmt.Errorf("config error: AI_FAILURE_POLICY must be lenient or strict, got %q", s.AI.FailurePolicy)
	}
	switch s.AI.CooldownBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("config error: AI_COOLDOWN_BACKEND must be memory or redis, got %q", s.AI.CooldownBackend)
	}
	if s.RateLimit.Enabled && (s.RateLimit.Rate <= 0 || s.RateLimit.Burst <= 0) {
		return fmt.Errorf("config error: rate limit values must be positive")
	}
	return nil
}

func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseList(list string) []string {
	var result []string
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
