package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/validationd/internal/validation"
)

// writeConfig writes a temp YAML config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadWithFile_Defaults(t *testing.T) {
	cfg, err := LoadWithFile("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "validationd", cfg.Telemetry.ServiceName)
	assert.Equal(t, validation.DefaultThresholdConfig(), cfg.Thresholds)
	assert.Equal(t, "intermediate", cfg.Review.ValidatorExpertise)
	assert.Equal(t, 2*time.Hour, cfg.Review.AvailableTime.Duration())
}

func TestLoadWithFile_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadWithFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, validation.DefaultThresholdConfig(), cfg.Thresholds)
}

func TestLoadWithFile_YAML(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  format: console
telemetry:
  enabled: true
  service_name: validationd-test
thresholds:
  auto_approve: 0.8
  auto_reject: 0.4
  weights:
    extraction_confidence: 0.3
    emotional_coherence: 0.25
    relationship_accuracy: 0.2
    temporal_consistency: 0.15
    content_quality: 0.1
review:
  validator_expertise: expert
  available_time: 90m
`)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "validationd-test", cfg.Telemetry.ServiceName)
	assert.Equal(t, 0.8, cfg.Thresholds.AutoApprove)
	assert.Equal(t, 0.4, cfg.Thresholds.AutoReject)
	assert.Equal(t, 0.3, cfg.Thresholds.Weights.ExtractionConfidence)
	assert.Equal(t, "expert", cfg.Review.ValidatorExpertise)
	assert.Equal(t, 90*time.Minute, cfg.Review.AvailableTime.Duration())
}

func TestLoadWithFile_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
`)
	t.Setenv("VALIDATIOND_LOGGING_LEVEL", "warn")
	t.Setenv("VALIDATIOND_REVIEW_VALIDATOR_EXPERTISE", "beginner")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "beginner", cfg.Review.ValidatorExpertise)
}

func TestLoadWithFile_InvalidThresholdsRejected(t *testing.T) {
	path := writeConfig(t, `
thresholds:
  auto_approve: 0.3
  auto_reject: 0.6
  weights:
    extraction_confidence: 0.2
    emotional_coherence: 0.2
    relationship_accuracy: 0.2
    temporal_consistency: 0.2
    content_quality: 0.2
`)

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, validation.ErrThresholdOrder)
}

func TestLoadWithFile_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "logging: [unclosed")

	_, err := LoadWithFile(path)
	assert.Error(t, err)
}

func TestLoadWithFile_UnknownExpertiseRejected(t *testing.T) {
	path := writeConfig(t, `
review:
  validator_expertise: wizard
`)

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "review")
}

func TestConfig_Validate(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.Logging.Format = "xml"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Review.AvailableTime = 0
	assert.Error(t, bad.Validate())
}

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("45m")))
	assert.Equal(t, 45*time.Minute, d.Duration())

	assert.Error(t, d.UnmarshalText([]byte("-5m")))
	assert.Error(t, d.UnmarshalText([]byte("not-a-duration")))

	text, err := Duration(90 * time.Second).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))
}
