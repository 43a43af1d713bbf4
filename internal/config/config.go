package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds runtime settings for the server.
type Config struct {
	ServerAddr   string
	DownloadsDir string
	BaseURL      string

	YtDlpPath  string
	FFmpegPath string

	PhaseTimeout time.Duration
	PollInterval time.Duration
	CancelGrace  time.Duration
	Reencode     bool

	SweepInterval   time.Duration
	RetentionWindow time.Duration

	RateLimitPerMinute int
	RateLimitBurst     int
}

// Load reads environment variables and returns normalized runtime config.
func Load() Config {
	return Config{
		ServerAddr:   getEnv("SERVER_ADDR", ":8000"),
		DownloadsDir: getEnv("DOWNLOADS_DIR", "./downloads"),
		BaseURL:      getEnv("BASE_URL", "http://127.0.0.1:8000"),

		YtDlpPath:  getEnv("YTDLP_PATH", "yt-dlp"),
		FFmpegPath: getEnv("FFMPEG_PATH", "ffmpeg"),

		PhaseTimeout: getEnvDuration("PHASE_TIMEOUT", 300*time.Second),
		PollInterval: getEnvDuration("POLL_INTERVAL", time.Second),
		CancelGrace:  getEnvDuration("CANCEL_GRACE", 5*time.Second),
		Reencode:     getEnvBool("REENCODE_ENABLED", false),

		SweepInterval:   getEnvDuration("SWEEP_INTERVAL", 30*time.Minute),
		RetentionWindow: getEnvDuration("RETENTION_WINDOW", 2*time.Hour),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 10),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 5),
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	var out int
	_, err := fmt.Sscanf(value, "%d", &out)
	if err != nil || out <= 0 {
		return fallback
	}
	return out
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	out, err := time.ParseDuration(value)
	if err != nil || out <= 0 {
		return fallback
	}
	return out
}
