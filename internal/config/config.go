package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	AI       AIConfig
	Github   GithubConfig
	Digest   DigestConfig
	Calendar CalendarConfig
	Upload   UploadConfig
}

type ServerConfig struct {
	Port        string
	FrontendURL string
}

type DatabaseConfig struct {
	Path string
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Configured reports whether an SMTP transport can be built at all.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != ""
}

type AIConfig struct {
	APIKey string
	Model  string
}

type GithubConfig struct {
	Token string
}

type DigestConfig struct {
	Timezone string
}

type UploadConfig struct {
	Dir string
}

type CalendarConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Load reads configuration from the environment, with sensible development
// defaults. A .env file in the working directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "5000"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "unitask.db"),
		},
		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET", "development-insecure-secret-change-me"),
			Issuer:   getEnv("JWT_ISSUER", "unitask-api"),
			Audience: getEnv("JWT_AUDIENCE", "unitask-clients"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("EMAIL_FROM", "UniTask <no-reply@unitask.local>"),
		},
		AI: AIConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Github: GithubConfig{
			Token: getEnv("GITHUB_TOKEN", ""),
		},
		Digest: DigestConfig{
			Timezone: getEnv("DIGEST_TIMEZONE", "Asia/Colombo"),
		},
		Upload: UploadConfig{
			Dir: getEnv("UPLOAD_DIR", "uploads"),
		},
		Calendar: CalendarConfig{
			ClientID:     getEnv("CALENDAR_CLIENT_ID", ""),
			ClientSecret: getEnv("CALENDAR_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("CALENDAR_REDIRECT_URL", "http://localhost:5000/api/calendar/callback"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
