package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"golang.org/x/text/language"
)

// Config holds all configuration for the bot
type Config struct {
	Telegram  TelegramConfig
	Logging   LoggingConfig
	Service   ServiceConfig
	Selection SelectionConfig
	RateLimit RateLimitConfig
	Media     MediaConfig
	Ytdlp     YtdlpConfig
	Download  DownloadConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string  `validate:"required"`
	APIRPS   float64 `validate:"gt=0"`
	APIBurst int     `validate:"min=1"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds HTTP service configuration
type ServiceConfig struct {
	Name string `validate:"required"`
	Port string `validate:"required,numeric"`
}

// SelectionConfig holds format selection ceilings and preferences
type SelectionConfig struct {
	MaxVideoSize            int64    `validate:"gt=0"`
	MaxAudioSize            int64    `validate:"gt=0"`
	MaxCombinedSize         int64    `validate:"gt=0"`
	RequireKnownFilesize    bool
	PreferredAudioLanguages []string `validate:"dive,bcp47"`
}

// RateLimitConfig holds per-user rate limiting configuration
type RateLimitConfig struct {
	// VIPUserID is exempt from rate limiting, 0 disables the exemption
	VIPUserID int64
	Window    time.Duration `validate:"gt=0"`
}

// MediaAsset describes a static media file shown in place of a download
type MediaAsset struct {
	URL          string `validate:"required,url"`
	ThumbnailURL string `validate:"omitempty,url"`
	Width        int    `validate:"min=0"`
	Height       int    `validate:"min=0"`
	Duration     int    `validate:"min=0"`
}

// MediaConfig holds relay destination and static media
type MediaConfig struct {
	RelayChatID int64 `validate:"required"`
	Placeholder MediaAsset
	Error       MediaAsset
}

// YtdlpConfig holds extraction engine configuration
type YtdlpConfig struct {
	Path          string `validate:"required"`
	CookiesBase64 string `validate:"omitempty,base64"`
	UserAgent     string
	AuthDomains   []string
}

// DownloadConfig holds download orchestration configuration
type DownloadConfig struct {
	Dir               string        `validate:"required"`
	Timeout           time.Duration `validate:"gt=0"`
	CatalogTimeout    time.Duration `validate:"gt=0"`
	MaxRetries        int           `validate:"min=0"`
	RetryDelay        time.Duration `validate:"min=0"`
	MaxConcurrentJobs int           `validate:"min=1"`
	JobTimeout        time.Duration `validate:"gt=0"`
	PageTitleTimeout  time.Duration `validate:"gt=0"`
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config    *Config
	Telegram  *TelegramConfig
	Logging   *LoggingConfig
	Service   *ServiceConfig
	Selection *SelectionConfig
	RateLimit *RateLimitConfig
	Media     *MediaConfig
	Ytdlp     *YtdlpConfig
	Download  *DownloadConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:    cfg,
		Telegram:  &cfg.Telegram,
		Logging:   &cfg.Logging,
		Service:   &cfg.Service,
		Selection: &cfg.Selection,
		RateLimit: &cfg.RateLimit,
		Media:     &cfg.Media,
		Ytdlp:     &cfg.Ytdlp,
		Download:  &cfg.Download,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			APIRPS:   getEnvFloat("TELEGRAM_API_RPS", 20),
			APIBurst: getEnvInt("TELEGRAM_API_BURST", 5),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "ytdl-inline-bot"),
			Port: getEnv("SERVICE_PORT", "8080"),
		},
		Selection: SelectionConfig{
			MaxVideoSize:            getEnvInt64("MAX_VIDEO_SIZE", 15*1024*1024),
			MaxAudioSize:            getEnvInt64("MAX_AUDIO_SIZE", 8*1024*1024),
			MaxCombinedSize:         getEnvInt64("MAX_TG_FILE_SIZE", 50*1024*1024),
			RequireKnownFilesize:    getEnvBool("REQUIRE_KNOWN_FILESIZE", true),
			PreferredAudioLanguages: getEnvList("PREFERRED_AUDIO_LANGUAGES", "en-US,en,ru-RU,ru"),
		},
		RateLimit: RateLimitConfig{
			VIPUserID: getEnvInt64("VIP_USER_ID", 282614687),
			Window:    time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MINUTES", 1)) * time.Minute,
		},
		Media: MediaConfig{
			RelayChatID: getEnvInt64("MEDIA_CHAT_ID", -1002389753204),
			Placeholder: MediaAsset{
				URL:          getEnv("PH_LOADING_VIDEO_URL", "https://magicxor.github.io/static/ytdl-inline-bot/loading_v2.mp4"),
				ThumbnailURL: getEnv("PH_THUMBNAIL_URL", "https://magicxor.github.io/static/ytdl-inline-bot/loading_v1.jpg"),
				Width:        getEnvInt("PH_VIDEO_WIDTH", 1024),
				Height:       getEnvInt("PH_VIDEO_HEIGHT", 576),
				Duration:     getEnvInt("PH_VIDEO_DURATION", 10),
			},
			Error: MediaAsset{
				URL:      getEnv("ERR_LOADING_VIDEO_URL", "https://magicxor.github.io/static/ytdl-inline-bot/error_v1.mp4"),
				Width:    getEnvInt("ERR_VIDEO_WIDTH", 640),
				Height:   getEnvInt("ERR_VIDEO_HEIGHT", 480),
				Duration: getEnvInt("ERR_VIDEO_DURATION", 5),
			},
		},
		Ytdlp: YtdlpConfig{
			Path:          getEnv("YTDLP_PATH", "yt-dlp"),
			CookiesBase64: getEnv("YTDLP_COOKIES_BASE64", ""),
			UserAgent:     getEnv("YTDLP_USER_AGENT", ""),
			AuthDomains:   getEnvList("YTDLP_AUTH_DOMAINS", "youtube.com,youtu.be"),
		},
		Download: DownloadConfig{
			Dir:               getEnv("DOWNLOAD_DIR", os.TempDir()),
			Timeout:           getEnvDuration("DOWNLOAD_TIMEOUT", 60*time.Second),
			CatalogTimeout:    getEnvDuration("CATALOG_TIMEOUT", 30*time.Second),
			MaxRetries:        getEnvInt("DOWNLOAD_MAX_RETRIES", 2),
			RetryDelay:        getEnvDuration("DOWNLOAD_RETRY_DELAY", time.Second),
			MaxConcurrentJobs: getEnvInt("MAX_CONCURRENT_JOBS", 8),
			JobTimeout:        getEnvDuration("JOB_TIMEOUT", 5*time.Minute),
			PageTitleTimeout:  getEnvDuration("PAGE_TITLE_TIMEOUT", 10*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Selection.MaxCombinedSize < c.Selection.MaxVideoSize {
		return fmt.Errorf("MAX_TG_FILE_SIZE must not be lower than MAX_VIDEO_SIZE")
	}

	return nil
}

// newValidator creates validator with project specific tags
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("bcp47", func(fl validator.FieldLevel) bool {
		_, err := language.Parse(fl.Field().String())
		return err == nil
	})
	return v
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma separated variable, dropping blank items
func getEnvList(key, defaultValue string) []string {
	raw := strings.Split(getEnv(key, defaultValue), ",")
	items := make([]string, 0, len(raw))
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
