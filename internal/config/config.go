package config

import (
	"fmt"
	"log"
	"math"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug bool `envconfig:"DEBUG" default:"false"`

	OpenAIAPIKey   string `envconfig:"OPENAI_API_KEY"`
	LLMModel       string `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL"`

	IntercomAccessToken string `envconfig:"INTERCOM_ACCESS_TOKEN"`
	IntercomBaseURL     string `envconfig:"INTERCOM_BASE_URL" default:"https://api.intercom.io"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	ReportsDir string `envconfig:"REPORTS_DIR" default:"./reports"`

	// Analysis tuning. These are product tuning choices, not fixed
	// algorithmic constants; defaults follow the shipped configuration.
	SimilarityThreshold float64 `envconfig:"SIMILARITY_THRESHOLD" default:"0.75"`
	DuplicateThreshold  float64 `envconfig:"DUPLICATE_THRESHOLD" default:"0.85"`
	UrgencyWeight       float64 `envconfig:"URGENCY_WEIGHT" default:"0.4"`
	SeverityWeight      float64 `envconfig:"SEVERITY_WEIGHT" default:"0.4"`
	FrequencyWeight     float64 `envconfig:"FREQUENCY_WEIGHT" default:"0.2"`
	ReportTopN          int     `envconfig:"REPORT_TOP_N" default:"10"`
	Workers             int     `envconfig:"WORKERS" default:"4"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("GAPSCAN", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasIntercom() bool {
	return c.IntercomAccessToken != ""
}

// weightSumTolerance bounds how far the weight triple may drift from 1.0
// before the run is refused.
const weightSumTolerance = 1e-3

// ValidateAnalysis checks the analysis tuning before any document is
// processed. Invalid configuration fails the run at construction time.
func (c *Config) ValidateAnalysis() error {
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold >= 1 {
		return fmt.Errorf("similarity threshold must be in (0,1), got %f", c.SimilarityThreshold)
	}

	if c.DuplicateThreshold <= 0 || c.DuplicateThreshold >= 1 {
		return fmt.Errorf("duplicate threshold must be in (0,1), got %f", c.DuplicateThreshold)
	}

	sum := c.UrgencyWeight + c.SeverityWeight + c.FrequencyWeight
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("priority weights must sum to 1.0, got %f", sum)
	}

	if c.UrgencyWeight < 0 || c.SeverityWeight < 0 || c.FrequencyWeight < 0 {
		return fmt.Errorf("priority weights must be non-negative")
	}

	if c.ReportTopN <= 0 {
		return fmt.Errorf("report top-N must be positive, got %d", c.ReportTopN)
	}

	if c.Workers <= 0 {
		return fmt.Errorf("worker count must be positive, got %d", c.Workers)
	}

	return nil
}
