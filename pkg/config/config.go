package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the profile-processing service used when no override is stored
const DefaultBaseURL = "https://linkedin-profile-scraper.replit.app"

// Config holds all configuration options for talentpipe
type Config struct {
	// Remote profile-processing API
	API APIConfig `yaml:"api" json:"api"`

	// Pipeline pacing and bounds
	Pipeline PipelineConfig `yaml:"pipeline" json:"pipeline"`

	// Chrome instance driven by the pipeline
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Progress overlay and notifications
	UI UIConfig `yaml:"ui" json:"ui"`

	// Local key/value state file
	State StateConfig `yaml:"state" json:"state"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig holds remote API settings
type APIConfig struct {
	BaseURL           string        `yaml:"base_url" json:"base_url"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
	UserAgent         string        `yaml:"user_agent" json:"user_agent"`
	ReadRetries       int           `yaml:"read_retries" json:"read_retries"`
}

// PipelineConfig holds the pipeline scraper's delays and limits
type PipelineConfig struct {
	BatchSize           int           `yaml:"batch_size" json:"batch_size"`
	ProfileDelay        time.Duration `yaml:"profile_delay" json:"profile_delay"`
	BatchDelay          time.Duration `yaml:"batch_delay" json:"batch_delay"`
	PageSettleDelay     time.Duration `yaml:"page_settle_delay" json:"page_settle_delay"`
	MaxPages            int           `yaml:"max_pages" json:"max_pages"`
	ScrollDelay         time.Duration `yaml:"scroll_delay" json:"scroll_delay"`
	ScrollSettleDelay   time.Duration `yaml:"scroll_settle_delay" json:"scroll_settle_delay"`
	MaxScrollIterations int           `yaml:"max_scroll_iterations" json:"max_scroll_iterations"`
	StableScrollChecks  int           `yaml:"stable_scroll_checks" json:"stable_scroll_checks"`
}

// BrowserConfig holds chromedp allocator settings
type BrowserConfig struct {
	Headless          bool          `yaml:"headless" json:"headless"`
	UserDataDir       string        `yaml:"user_data_dir" json:"user_data_dir"`
	RemoteURL         string        `yaml:"remote_url" json:"remote_url"`
	WindowWidth       int           `yaml:"window_width" json:"window_width"`
	WindowHeight      int           `yaml:"window_height" json:"window_height"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout" json:"navigation_timeout"`
}

// UIConfig holds progress rendering preferences
type UIConfig struct {
	Mode          string `yaml:"mode" json:"mode"`
	Notifications bool   `yaml:"notifications" json:"notifications"`
}

// StateConfig locates the key/value state file
type StateConfig struct {
	Path string `yaml:"path" json:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           DefaultBaseURL,
			Timeout:           30 * time.Second,
			RequestsPerMinute: 60,
			UserAgent:         "talentpipe/1.3.5",
			ReadRetries:       3,
		},
		Pipeline: PipelineConfig{
			BatchSize:           5,
			ProfileDelay:        1500 * time.Millisecond,
			BatchDelay:          2000 * time.Millisecond,
			PageSettleDelay:     3000 * time.Millisecond,
			MaxPages:            10,
			ScrollDelay:         1000 * time.Millisecond,
			ScrollSettleDelay:   500 * time.Millisecond,
			MaxScrollIterations: 20,
			StableScrollChecks:  3,
		},
		Browser: BrowserConfig{
			Headless:          false,
			WindowWidth:       1440,
			WindowHeight:      900,
			NavigationTimeout: 60 * time.Second,
		},
		UI: UIConfig{
			Mode:          "tui",
			Notifications: true,
		},
		State: StateConfig{
			Path: defaultStatePath(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func defaultStatePath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "talentpipe", "state.json")
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if baseURL := os.Getenv("TALENTPIPE_BASE_URL"); baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if v := os.Getenv("TALENTPIPE_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("TALENTPIPE_API_TIMEOUT: %w", err))
		} else {
			c.API.Timeout = d
		}
	}
	if v := os.Getenv("TALENTPIPE_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("TALENTPIPE_BATCH_SIZE: %w", err))
		} else {
			c.Pipeline.BatchSize = n
		}
	}
	if v := os.Getenv("TALENTPIPE_MAX_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("TALENTPIPE_MAX_PAGES: %w", err))
		} else {
			c.Pipeline.MaxPages = n
		}
	}

	// Browser
	if v := os.Getenv("TALENTPIPE_HEADLESS"); v != "" {
		c.Browser.Headless = strings.ToLower(v) == "true" || v == "1"
	}
	if v := os.Getenv("TALENTPIPE_REMOTE_URL"); v != "" {
		c.Browser.RemoteURL = v
	}
	if v := os.Getenv("TALENTPIPE_USER_DATA_DIR"); v != "" {
		c.Browser.UserDataDir = v
	}

	if v := os.Getenv("TALENTPIPE_UI_MODE"); v != "" {
		c.UI.Mode = v
	}
	if v := os.Getenv("TALENTPIPE_STATE_PATH"); v != "" {
		c.State.Path = v
	}
	if logLevel := os.Getenv("TALENTPIPE_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".talentpipe.yaml",
		".talentpipe.yml",
		filepath.Join(home, ".config", "talentpipe", "config.yaml"),
		filepath.Join(home, ".config", "talentpipe", "config.yml"),
		filepath.Join(home, ".talentpipe.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("API base URL is required"))
	} else if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("API base URL %q is not an absolute URL", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("API timeout must be positive"))
	}
	if c.API.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.API.ReadRetries < 0 {
		errs = append(errs, errors.New("read retries cannot be negative"))
	}

	p := c.Pipeline
	if p.BatchSize <= 0 {
		errs = append(errs, errors.New("batch size must be positive"))
	}
	if p.MaxPages <= 0 {
		errs = append(errs, errors.New("max pages must be positive"))
	}
	if p.MaxScrollIterations <= 0 {
		errs = append(errs, errors.New("max scroll iterations must be positive"))
	}
	if p.StableScrollChecks <= 0 {
		errs = append(errs, errors.New("stable scroll checks must be positive"))
	}
	for name, d := range map[string]time.Duration{
		"profile delay":       p.ProfileDelay,
		"batch delay":         p.BatchDelay,
		"page settle delay":   p.PageSettleDelay,
		"scroll delay":        p.ScrollDelay,
		"scroll settle delay": p.ScrollSettleDelay,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s cannot be negative", name))
		}
	}

	if c.Browser.WindowWidth <= 0 || c.Browser.WindowHeight <= 0 {
		errs = append(errs, errors.New("browser window size must be positive"))
	}

	validModes := map[string]bool{"tui": true, "line": true, "quiet": true}
	if !validModes[strings.ToLower(c.UI.Mode)] {
		errs = append(errs, fmt.Errorf("invalid ui mode %q", c.UI.Mode))
	}

	if c.State.Path == "" {
		errs = append(errs, errors.New("state path is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if mode, ok := flags["ui"].(string); ok && mode != "" {
		c.UI.Mode = mode
	}
	if headless, ok := flags["headless"].(bool); ok && headless {
		c.Browser.Headless = true
	}
	if remote, ok := flags["remote-url"].(string); ok && remote != "" {
		c.Browser.RemoteURL = remote
	}
	if pages, ok := flags["max-pages"].(int); ok && pages > 0 {
		c.Pipeline.MaxPages = pages
	}
	if size, ok := flags["batch-size"].(int); ok && size > 0 {
		c.Pipeline.BatchSize = size
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: flags > environment > .env file > config file > defaults.
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".talentpipe.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
