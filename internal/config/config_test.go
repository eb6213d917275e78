package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithEnvVars(t *testing.T) {
	os.Setenv("GAPSCAN_OPENAI_API_KEY", "sk-test")
	os.Setenv("GAPSCAN_INTERCOM_ACCESS_TOKEN", "tok-test")
	os.Setenv("GAPSCAN_DEBUG", "true")
	os.Setenv("GAPSCAN_SIMILARITY_THRESHOLD", "0.8")
	os.Setenv("GAPSCAN_REPORT_TOP_N", "5")
	defer func() {
		os.Unsetenv("GAPSCAN_OPENAI_API_KEY")
		os.Unsetenv("GAPSCAN_INTERCOM_ACCESS_TOKEN")
		os.Unsetenv("GAPSCAN_DEBUG")
		os.Unsetenv("GAPSCAN_SIMILARITY_THRESHOLD")
		os.Unsetenv("GAPSCAN_REPORT_TOP_N")
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "tok-test", cfg.IntercomAccessToken)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 0.8, cfg.SimilarityThreshold)
	assert.Equal(t, 5, cfg.ReportTopN)
	assert.True(t, cfg.HasOpenAI())
	assert.True(t, cfg.HasIntercom())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Debug)
	assert.Equal(t, 0.75, cfg.SimilarityThreshold)
	assert.Equal(t, 0.85, cfg.DuplicateThreshold)
	assert.Equal(t, 0.4, cfg.UrgencyWeight)
	assert.Equal(t, 0.4, cfg.SeverityWeight)
	assert.Equal(t, 0.2, cfg.FrequencyWeight)
	assert.Equal(t, 10, cfg.ReportTopN)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "https://api.intercom.io", cfg.IntercomBaseURL)
	assert.Equal(t, "./reports", cfg.ReportsDir)
}

func TestValidateAnalysis_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.NoError(t, cfg.ValidateAnalysis())
}

func TestValidateAnalysis_InvalidThreshold(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.SimilarityThreshold = 1.5
	assert.Error(t, cfg.ValidateAnalysis())

	cfg.SimilarityThreshold = 0
	assert.Error(t, cfg.ValidateAnalysis())

	cfg.SimilarityThreshold = 0.75
	cfg.DuplicateThreshold = -0.1
	assert.Error(t, cfg.ValidateAnalysis())
}

func TestValidateAnalysis_WeightsMustSumToOne(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.UrgencyWeight = 0.5
	cfg.SeverityWeight = 0.5
	cfg.FrequencyWeight = 0.5

	verr := cfg.ValidateAnalysis()
	assert.Error(t, verr)
	assert.Contains(t, verr.Error(), "sum to 1.0")
}

func TestValidateAnalysis_TopNAndWorkers(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.ReportTopN = 0
	assert.Error(t, cfg.ValidateAnalysis())

	cfg.ReportTopN = 10
	cfg.Workers = -1
	assert.Error(t, cfg.ValidateAnalysis())
}
