package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// GitHub хранит параметры репозитория, в который CMS коммитит контент.
type GitHub struct {
	Owner  string
	Repo   string
	Branch string
	Token  string
}

// Loader хранит таймауты загрузчика контента.
type Loader struct {
	FileTimeout  time.Duration
	BatchTimeout time.Duration
	WarnAfter    time.Duration
}

// Config хранит все параметры запуска приложения.
type Config struct {
	Env              string
	HTTPPort         string
	DataDir          string
	ContentOrigin    string
	MediaStoragePath string
	MaxUploadSizeMB  int64

	GitHub        GitHub
	ProxyEndpoint string

	JWTSecret         string
	AccessTokenTTL    time.Duration
	AdminLogin        string
	AdminPasswordHash string

	AllowedOrigins  []string
	RateLimitLimit  int64
	RateLimitPeriod time.Duration

	Loader Loader
}

// Load читает переменные окружения и возвращает готовую конфигурацию.
func Load() (*Config, error) {
	// Загружаем .env только если он существует, иначе используем системные переменные.
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("config: .env не найден, используем переменные окружения: %v", err)
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Env:              env,
		HTTPPort:         getEnv("HTTP_PORT", "3001"),
		DataDir:          getEnv("DATA_DIR", "./data"),
		ContentOrigin:    getEnv("CONTENT_ORIGIN", ""),
		MediaStoragePath: getEnv("MEDIA_STORAGE_PATH", "./storage/media"),
		GitHub: GitHub{
			Owner:  getEnv("GITHUB_OWNER", ""),
			Repo:   getEnv("GITHUB_REPO", ""),
			Branch: getEnv("GITHUB_BRANCH", "main"),
			Token:  getEnv("GITHUB_TOKEN", ""),
		},
		ProxyEndpoint: getEnv("PROXY_ENDPOINT", ""),
		AdminLogin:    getEnv("ADMIN_LOGIN", "admin"),
	}

	// Валидация JWT секрета
	jwtSecret := getEnv("JWT_SECRET", "")
	if env == "production" {
		if jwtSecret == "" || len(jwtSecret) < 32 {
			return nil, fmt.Errorf("config: JWT_SECRET обязателен и должен быть не менее 32 символов в production")
		}
	} else if jwtSecret == "" {
		jwtSecret = "super-secret-development-only-change-in-production"
		log.Printf("config: WARNING - используется дефолтный JWT_SECRET, измените в production!")
	}
	cfg.JWTSecret = jwtSecret

	// Пароль администратора хранится как bcrypt-хэш.
	adminHash := getEnv("ADMIN_PASSWORD_HASH", "")
	if env == "production" && adminHash == "" {
		return nil, fmt.Errorf("config: ADMIN_PASSWORD_HASH обязателен в production")
	}
	cfg.AdminPasswordHash = adminHash

	// CORS allowed origins
	originsStr := getEnv("CORS_ALLOWED_ORIGINS", "")
	if originsStr == "" {
		// Дефолтные значения для development
		if env == "production" {
			return nil, fmt.Errorf("config: CORS_ALLOWED_ORIGINS обязателен в production")
		}
		cfg.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}
	} else {
		cfg.AllowedOrigins = strings.Split(originsStr, ",")
		// Убираем пробелы
		for i, origin := range cfg.AllowedOrigins {
			cfg.AllowedOrigins[i] = strings.TrimSpace(origin)
		}
	}

	cfg.AccessTokenTTL = mustParseDuration(getEnv("ACCESS_TOKEN_TTL", "12h"))
	cfg.MaxUploadSizeMB = mustParseInt64(getEnv("MAX_UPLOAD_MB", "10"))

	// Rate limiting настройки
	cfg.RateLimitLimit = mustParseInt64(getEnv("RATE_LIMIT_LIMIT", "30"))
	cfg.RateLimitPeriod = mustParseDuration(getEnv("RATE_LIMIT_PERIOD", "1m"))

	// Таймауты загрузчика: на файл, на весь батч и порог предупреждения.
	cfg.Loader = Loader{
		FileTimeout:  mustParseDuration(getEnv("LOADER_FILE_TIMEOUT", "5s")),
		BatchTimeout: mustParseDuration(getEnv("LOADER_BATCH_TIMEOUT", "15s")),
		WarnAfter:    mustParseDuration(getEnv("LOADER_WARN_AFTER", "8s")),
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или дефолт.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// mustParseDuration безопасно парсит строку в duration.
func mustParseDuration(v string) time.Duration {
	dur, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: не удалось распарсить длительность %q: %v", v, err)
	}
	return dur
}

// mustParseInt64 безопасно парсит строку в int64.
func mustParseInt64(v string) int64 {
	num, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Fatalf("config: не удалось распарсить число %q: %v", v, err)
	}
	return num
}
