package config

import (
	"encoding/xml"
	"io"
	"os"
	"sync"
)

var (
	cfg  *APIConfig
	once sync.Once
)

// APIConfig represents the root element.
type APIConfig struct {
	XMLName        xml.Name             `xml:"API"`
	RequestDump    bool                 `xml:"REQUEST_DUMP,attr"`
	Context        ContextConfig        `xml:"CONTEXT"`
	Authentication AuthenticationConfig `xml:"AUTHENTICATION"`
	DB             DBConfig             `xml:"DB"`
	AI             AIConfig             `xml:"AI"`
	Matching       MatchingConfig       `xml:"MATCHING"`
	RateLimit      RateLimitConfig      `xml:"RATE_LIMIT"`
}

// ContextConfig holds basic server settings.
type ContextConfig struct {
	Port     int    `xml:"PORT"`
	Host     string `xml:"HOST"`
	TimeZone string `xml:"TIME_ZONE"`
}

// AuthenticationConfig holds token settings. Secrets may be overridden by the
// JWT_ACCESS_SECRET / JWT_REFRESH_SECRET environment variables.
type AuthenticationConfig struct {
	AccessSecret        string `xml:"ACCESS_SECRET"`
	RefreshSecret       string `xml:"REFRESH_SECRET"`
	AccessExpiryMinutes int    `xml:"ACCESS_EXPIRY_MINUTES"`
	RefreshExpiryHours  int    `xml:"REFRESH_EXPIRY_HOURS"`
}

// AIConfig holds settings for the external text-generation endpoint. APIKey
// may be overridden by the AI_API_KEY environment variable.
type AIConfig struct {
	BaseURL        string  `xml:"BASE_URL"`
	APIKey         string  `xml:"API_KEY"`
	Model          string  `xml:"MODEL"`
	Temperature    float64 `xml:"TEMPERATURE"`
	MaxTokens      int     `xml:"MAX_TOKENS"`
	TimeoutSeconds int     `xml:"TIMEOUT_SECONDS"`
	MaxAttempts    int     `xml:"MAX_ATTEMPTS"`
	BackoffMillis  int     `xml:"BACKOFF_MILLIS"`
}

// MatchingConfig holds the peer-matching heuristics. The weights are tuned
// values carried over from the original product, kept configurable.
type MatchingConfig struct {
	SkillPoints  int     `xml:"SKILL_POINTS"`
	RatingFactor float64 `xml:"RATING_FACTOR"`
	RatingCap    float64 `xml:"RATING_CAP"`
	BaseWeight   float64 `xml:"BASE_WEIGHT"`
	AIWeight     float64 `xml:"AI_WEIGHT"`
	TopN         int     `xml:"TOP_N"`
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	RequestsPerSecond float64 `xml:"REQUESTS_PER_SECOND"`
	Burst             int     `xml:"BURST"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Host     string       `xml:"HOST"`
	Port     int          `xml:"PORT"`
	Name     string       `xml:"NAME"`
	SSLMode  string       `xml:"SSL_MODE"`
	Username string       `xml:"USERNAME"`
	Password string       `xml:"PASSWORD"`
	Pool     DBPoolConfig `xml:"POOL"`
}

// DBPoolConfig holds database connection pooling settings.
type DBPoolConfig struct {
	MaxOpenConns    int `xml:"MAX_OPEN_CONNS"`
	MaxIdleConns    int `xml:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int `xml:"CONN_MAX_LIFETIME"`
}

// LoadConfig loads and parses the XML configuration from the given file and
// applies environment overrides for secrets.
func LoadConfig(xmlPath string) (*APIConfig, error) {
	var loadErr error
	once.Do(func() {
		f, err := os.Open(xmlPath)
		if err != nil {
			loadErr = err
			return
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			loadErr = err
			return
		}

		var newCfg APIConfig
		if err := xml.Unmarshal(data, &newCfg); err != nil {
			loadErr = err
			return
		}

		newCfg.applyDefaults()
		newCfg.applyEnvOverrides()
		cfg = &newCfg
	})

	if cfg == nil {
		if loadErr != nil {
			return nil, loadErr
		}
		return nil, os.ErrInvalid
	}
	return cfg, nil
}

func (c *APIConfig) applyDefaults() {
	if c.AI.TimeoutSeconds == 0 {
		c.AI.TimeoutSeconds = 10
	}
	if c.AI.MaxAttempts == 0 {
		c.AI.MaxAttempts = 3
	}
	if c.AI.BackoffMillis == 0 {
		c.AI.BackoffMillis = 1000
	}
	if c.AI.MaxTokens == 0 {
		c.AI.MaxTokens = 2000
	}
	if c.Matching.SkillPoints == 0 {
		c.Matching.SkillPoints = 25
	}
	if c.Matching.RatingFactor == 0 {
		c.Matching.RatingFactor = 5
	}
	if c.Matching.RatingCap == 0 {
		c.Matching.RatingCap = 25
	}
	if c.Matching.BaseWeight == 0 {
		c.Matching.BaseWeight = 0.4
	}
	if c.Matching.AIWeight == 0 {
		c.Matching.AIWeight = 0.6
	}
	if c.Matching.TopN == 0 {
		c.Matching.TopN = 6
	}
	if c.Authentication.AccessExpiryMinutes == 0 {
		c.Authentication.AccessExpiryMinutes = 15
	}
	if c.Authentication.RefreshExpiryHours == 0 {
		c.Authentication.RefreshExpiryHours = 24 * 7
	}
	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 10
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 20
	}
}

func (c *APIConfig) applyEnvOverrides() {
	if v := os.Getenv("AI_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv("JWT_ACCESS_SECRET"); v != "" {
		c.Authentication.AccessSecret = v
	}
	if v := os.Getenv("JWT_REFRESH_SECRET"); v != "" {
		c.Authentication.RefreshSecret = v
	}
}

// GetConfig returns the loaded configuration.
func GetConfig() *APIConfig {
	return cfg
}
