package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
		// Пусто - разрешены все origin
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // postgres, sqlite
		DSN    string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
	} `yaml:"email"`

	MailQueue struct {
		Size int `yaml:"size"`
	} `yaml:"mail_queue"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	Nonce struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"nonce"`

	Verification struct {
		BaseURL     string        `yaml:"base_url"`     // Публичный адрес API для ссылки в письме
		RedirectURL string        `yaml:"redirect_url"` // Куда отправляем после успешной верификации
		TokenTTL    time.Duration `yaml:"token_ttl"`    // 0 = токен не истекает
	} `yaml:"verification"`

	Application struct {
		// nil - ключ не задан, форма открыта
		EnableRegistration *bool  `yaml:"enable_registration"`
		ItemsPerPage       int    `yaml:"items_per_page"`
		AdminEmail         string `yaml:"admin_email"`
		EmailNotifications bool   `yaml:"email_notifications"`
	} `yaml:"application"`

	Storage struct {
		Type     string `yaml:"type"` // local, r2
		BasePath string `yaml:"base_path"`
		BaseURL  string `yaml:"base_url"`

		Endpoint  string `yaml:"endpoint"`
		Bucket    string `yaml:"bucket"`
		Region    string `yaml:"region"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
	} `yaml:"storage"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

var AppConfig *Config

func LoadConfig() {
	// .env не обязателен: в контейнере всё приходит через окружение
	_ = godotenv.Load()

	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		log.Println("Loading configuration from config.yaml")

		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("Loading configuration from environment variables")

	cfg.Database.DSN = dbURL
	cfg.Database.Driver = getEnv("DATABASE_DRIVER", "postgres")
	cfg.Server.Env = getEnv("SERVER_ENV", "development")
	cfg.Server.Port, _ = strconv.Atoi(getEnv("SERVER_PORT", "4000"))
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = strings.Split(origins, ",")
	}
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60
	cfg.Nonce.Secret = getEnv("NONCE_SECRET", cfg.JWT.Secret)

	cfg.Email.Enabled = os.Getenv("SMTP_HOST") != ""
	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Email.SMTPPort, _ = strconv.Atoi(getEnv("SMTP_PORT", "587"))
	cfg.Email.SMTPUsername = os.Getenv("SMTP_USER")
	cfg.Email.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.Email.FromEmail = getEnv("SMTP_FROM", "no-reply@example.edu")
	cfg.Email.FromName = getEnv("SMTP_FROM_NAME", "Campus Ambassador Program")
	cfg.Email.UseTLS = getEnv("SMTP_TLS", "true") == "true"

	cfg.Verification.BaseURL = getEnv("PUBLIC_BASE_URL", "http://localhost:4000")
	cfg.Verification.RedirectURL = getEnv("VERIFY_REDIRECT_URL", "http://localhost:3000/")
	if ttl := os.Getenv("VERIFY_TOKEN_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			cfg.Verification.TokenTTL = d
		}
	}

	open := getEnv("ENABLE_REGISTRATION", "true") == "true"
	cfg.Application.EnableRegistration = &open
	cfg.Application.AdminEmail = os.Getenv("ADMIN_EMAIL")
	cfg.Application.EmailNotifications = os.Getenv("EMAIL_NOTIFICATIONS") == "true"

	cfg.Storage.BasePath = getEnv("STORAGE_PATH", "./uploads")
	cfg.Storage.BaseURL = getEnv("STORAGE_BASE_URL", "/uploads")
	cfg.Storage.Type = getEnv("STORAGE_TYPE", "local")
	cfg.Storage.Endpoint = os.Getenv("R2_ENDPOINT")
	cfg.Storage.Bucket = os.Getenv("R2_BUCKET")
	cfg.Storage.AccessKey = os.Getenv("R2_ACCESS_KEY")
	cfg.Storage.SecretKey = os.Getenv("R2_SECRET_KEY")

	cfg.FirstAdminEmail = os.Getenv("FIRST_ADMIN_EMAIL")
	cfg.FirstAdminPassword = os.Getenv("FIRST_ADMIN_PASSWORD")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

// applyDefaults заполняет то, что не задано ни в файле, ни в окружении
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.JWT.TTL <= 0 {
		cfg.JWT.TTL = 60
	}
	if cfg.Nonce.Secret == "" {
		cfg.Nonce.Secret = cfg.JWT.Secret
	}
	if cfg.Nonce.TTL <= 0 {
		cfg.Nonce.TTL = 12 * 60
	}
	if cfg.MailQueue.Size <= 0 {
		cfg.MailQueue.Size = 100
	}
	if cfg.Application.EnableRegistration == nil {
		open := true
		cfg.Application.EnableRegistration = &open
	}
	if cfg.Application.ItemsPerPage <= 0 {
		cfg.Application.ItemsPerPage = 100
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./uploads"
	}
}

// RegistrationOpen - принимает ли публичная форма новые заявки
func (c *Config) RegistrationOpen() bool {
	return c.Application.EnableRegistration == nil || *c.Application.EnableRegistration
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
