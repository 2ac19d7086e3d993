package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/brianjleepub/diablo4-item-comparer/internal/engine"
)

// Viper keys for the pipeline thresholds.
const (
	KeyMatchThreshold        = "matching.threshold"
	KeyCompletenessThreshold = "assembly.completeness_threshold"
	KeyRequiredPenaltyFactor = "scoring.required_penalty_factor"
	KeyTieEpsilon            = "scoring.tie_epsilon"
	KeyOCRTimeout            = "ocr.timeout"
)

// LoadPipelineConfig builds the engine configuration from viper, starting
// from the defaults and overriding only the keys that are set.
func LoadPipelineConfig() (engine.Config, error) {
	cfg := engine.DefaultConfig()

	if viper.IsSet(KeyMatchThreshold) {
		cfg.MatchThreshold = viper.GetFloat64(KeyMatchThreshold)
	}
	if viper.IsSet(KeyCompletenessThreshold) {
		cfg.CompletenessThreshold = viper.GetFloat64(KeyCompletenessThreshold)
	}
	if viper.IsSet(KeyRequiredPenaltyFactor) {
		cfg.RequiredPenaltyFactor = viper.GetFloat64(KeyRequiredPenaltyFactor)
	}
	if viper.IsSet(KeyTieEpsilon) {
		cfg.TieEpsilon = viper.GetFloat64(KeyTieEpsilon)
	}
	if viper.IsSet(KeyOCRTimeout) {
		timeout, err := time.ParseDuration(viper.GetString(KeyOCRTimeout))
		if err != nil {
			return cfg, fmt.Errorf("invalid ocr.timeout: %w", err)
		}
		cfg.OCRTimeout = timeout
	}

	if cfg.MatchThreshold <= 0 || cfg.MatchThreshold > 1 {
		return cfg, fmt.Errorf("matching.threshold must be in (0,1], got %.2f", cfg.MatchThreshold)
	}
	if cfg.CompletenessThreshold < 0 || cfg.CompletenessThreshold > 1 {
		return cfg, fmt.Errorf("assembly.completeness_threshold must be in [0,1], got %.2f", cfg.CompletenessThreshold)
	}
	if cfg.RequiredPenaltyFactor < 0 {
		return cfg, fmt.Errorf("scoring.required_penalty_factor must be non-negative, got %.2f", cfg.RequiredPenaltyFactor)
	}
	if cfg.TieEpsilon < 0 {
		return cfg, fmt.Errorf("scoring.tie_epsilon must be non-negative, got %.2f", cfg.TieEpsilon)
	}

	return cfg, nil
}
