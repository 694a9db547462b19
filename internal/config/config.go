package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Redis struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (r Redis) Enabled() bool {
	return r.Host != ""
}

type Config struct {
	RelayPort          string
	TrackerPort        string
	RelayURL           string
	RelayTimeout       time.Duration
	LLMProvider        string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	OpenAIModel        string
	GeminiAPIKey       string
	GeminiModel        string
	Redis              Redis
	RateLimitPerMinute int
	SuggestionCacheTTL time.Duration
	TrustedProxies     []string
	Username           string
	SeedHabits         []string
	LogLevel           string
	Development        bool
}

type seedFile struct {
	Username string   `yaml:"username"`
	Habits   []string `yaml:"habits"`
}

// Load reads an optional .env file from the working directory, then the
// environment. A missing .env is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		RelayPort:     getEnv("RELAY_PORT", "3000"),
		TrackerPort:   getEnv("PORT", "8080"),
		RelayURL:      getEnv("RELAY_URL", "http://localhost:3000/api/suggestions"),
		LLMProvider:   strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		Redis: Redis{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Username:    getEnv("TRACKER_USERNAME", "User"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Development: os.Getenv("GIN_MODE") == "debug",
	}

	var err error
	if cfg.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 30); err != nil {
		return nil, err
	}
	if cfg.RelayTimeout, err = getDuration("RELAY_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	// "0" turns the suggestion cache off.
	if strings.TrimSpace(os.Getenv("SUGGESTION_CACHE_TTL")) != "0" {
		if cfg.SuggestionCacheTTL, err = getDuration("SUGGESTION_CACHE_TTL", 10*time.Minute); err != nil {
			return nil, err
		}
	}

	if cfg.TrustedProxies, err = getProxies("TRUSTED_PROXIES"); err != nil {
		return nil, err
	}

	if path := os.Getenv("TRACKER_SEED_FILE"); path != "" {
		seed, err := LoadSeedFile(path)
		if err != nil {
			return nil, err
		}
		cfg.SeedHabits = seed.Habits
		if seed.Username != "" && os.Getenv("TRACKER_USERNAME") == "" {
			cfg.Username = seed.Username
		}
	}

	return cfg, nil
}

func LoadSeedFile(path string) (*seedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return &seed, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative integer", key, v)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", key, v)
	}
	return d, nil
}

// getProxies reads a comma-separated list of IPs or CIDRs. Unset means no
// proxy is trusted and clients are identified by their peer address.
func getProxies(key string) ([]string, error) {
	var out []string
	for _, p := range strings.Split(os.Getenv(key), ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return nil, fmt.Errorf("invalid %s entry %q: must be an IP or CIDR", key, p)
			}
		}
		out = append(out, p)
	}
	return out, nil
}
