package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"cro-ux-auditor/ai"
	"cro-ux-auditor/crawler"
)

var (
	ErrMissingAPIKey   = errors.New("language model API key is not configured")
	ErrInvalidPort     = errors.New("invalid server port")
	ErrInvalidMaxPages = errors.New("max pages must be at least 1")
	ErrInvalidBackend  = errors.New("fetch backend must be http or colly")
	ErrInvalidRate     = errors.New("requests per second must be positive")
)

type Settings struct {
	Server    ServerConfig    `yaml:"server"`
	Fetcher   FetcherConfig   `yaml:"fetcher"`
	Render    RenderConfig    `yaml:"render"`
	Crawl     CrawlConfig     `yaml:"crawl"`
	AI        AIConfig        `yaml:"ai"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type FetcherConfig struct {
	UserAgent   string        `yaml:"user_agent"`
	Timeout     time.Duration `yaml:"timeout"`
	HeadTimeout time.Duration `yaml:"head_timeout"`
	Backend     string        `yaml:"backend"`
}

type RenderConfig struct {
	LoadTimeout time.Duration `yaml:"load_timeout"`
	SettleDelay time.Duration `yaml:"settle_delay"`
	BrowserBin  string        `yaml:"browser_bin"`
}

type CrawlConfig struct {
	MaxPages  int           `yaml:"max_pages"`
	PageDelay time.Duration `yaml:"page_delay"`
}

type AIConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	APIURL      string        `yaml:"api_url"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type OutputConfig struct {
	JSONDir    string `yaml:"json_dir"`
	ReportsDir string `yaml:"reports_dir"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads settings from the environment. Values from the given env files
// (or ./.env when none are given) are loaded first; a missing file is not an
// error.
func Load(envFiles ...string) (*Settings, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	return &Settings{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8081"),
			ReadTimeout:  getDurationEnv("READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("WRITE_TIMEOUT", 5*time.Minute),
		},
		Fetcher: FetcherConfig{
			UserAgent:   getEnv("USER_AGENT", crawler.DefaultUserAgent),
			Timeout:     getDurationEnv("FETCH_TIMEOUT", 30*time.Second),
			HeadTimeout: getDurationEnv("HEAD_TIMEOUT", 10*time.Second),
			Backend:     strings.ToLower(getEnv("FETCH_BACKEND", crawler.BackendHTTP)),
		},
		Render: RenderConfig{
			LoadTimeout: getDurationEnv("RENDER_TIMEOUT", 60*time.Second),
			SettleDelay: getDurationEnv("RENDER_SETTLE_DELAY", 3*time.Second),
			BrowserBin:  getEnv("BROWSER_BIN", ""),
		},
		Crawl: CrawlConfig{
			MaxPages:  getIntEnv("MAX_PAGES", 10),
			PageDelay: getDurationEnv("PAGE_DELAY", time.Second),
		},
		AI: AIConfig{
			Provider:    strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
			Model:       getEnv("LLM_MODEL", "gpt-4"),
			APIKey:      getEnv("LLM_API_KEY", os.Getenv("OPENAI_API_KEY")),
			APIURL:      getEnv("LLM_API_URL", ""),
			Temperature: getFloatEnv("LLM_TEMPERATURE", 0.7),
			MaxTokens:   getIntEnv("LLM_MAX_TOKENS", 2000),
			Timeout:     getDurationEnv("LLM_TIMEOUT", 2*time.Minute),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getFloatEnv("REQUESTS_PER_SECOND", 1.0),
			Burst:             getIntEnv("RATE_BURST", 3),
		},
		Output: OutputConfig{
			JSONDir:    getEnv("JSON_OUTPUT_DIR", "."),
			ReportsDir: getEnv("REPORTS_DIR", "Reports"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}, nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env file %s: %w", file, err)
		}
	}
	return nil
}

// Validate checks the settings every command depends on. The model
// credentials are checked separately by ValidateAI since discovery and
// status commands never call the model.
func (s *Settings) Validate() error {
	port, err := strconv.Atoi(s.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", ErrInvalidPort, s.Server.Port)
	}
	if s.Crawl.MaxPages < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxPages, s.Crawl.MaxPages)
	}
	if s.Fetcher.Backend != crawler.BackendHTTP && s.Fetcher.Backend != crawler.BackendColly {
		return fmt.Errorf("%w: %q", ErrInvalidBackend, s.Fetcher.Backend)
	}
	if s.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRate, s.RateLimit.RequestsPerSecond)
	}
	return nil
}

func (s *Settings) ValidateAI() error {
	if s.AI.Provider == "ollama" {
		return nil
	}
	if strings.TrimSpace(s.AI.APIKey) == "" {
		return fmt.Errorf("%w: set LLM_API_KEY or OPENAI_API_KEY", ErrMissingAPIKey)
	}
	return nil
}

// Warnings lists non-fatal problems worth surfacing to the operator.
func (s *Settings) Warnings() []string {
	var warnings []string
	if s.AI.Provider == "openai" && s.AI.APIKey != "" && !ai.ValidateAPIKey(s.AI.APIKey) {
		warnings = append(warnings, "OpenAI API key does not look valid (expected sk- prefix)")
	}
	if s.Fetcher.Timeout <= 0 {
		warnings = append(warnings, "fetch timeout is not positive, requests may hang")
	}
	return warnings
}

func (s *Settings) FetchOptions() crawler.Options {
	return crawler.Options{
		UserAgent:   s.Fetcher.UserAgent,
		Timeout:     s.Fetcher.Timeout,
		HeadTimeout: s.Fetcher.HeadTimeout,
		Backend:     s.Fetcher.Backend,
	}
}

func (s *Settings) RenderOptions() crawler.RenderOptions {
	return crawler.RenderOptions{
		LoadTimeout: s.Render.LoadTimeout,
		SettleDelay: s.Render.SettleDelay,
		BrowserBin:  s.Render.BrowserBin,
	}
}

func (s *Settings) ProviderConfig() ai.Config {
	return ai.Config{
		Provider:    s.AI.Provider,
		Model:       s.AI.Model,
		APIKey:      s.AI.APIKey,
		APIURL:      s.AI.APIURL,
		Temperature: s.AI.Temperature,
		MaxTokens:   s.AI.MaxTokens,
		Timeout:     s.AI.Timeout,
	}
}

// Redacted returns a copy safe to print.
func (s *Settings) Redacted() Settings {
	out := *s
	if out.AI.APIKey != "" {
		out.AI.APIKey = "****"
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
