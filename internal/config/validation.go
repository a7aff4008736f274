// Package config provides configuration management for the Calcutta
// auction engine.
package config

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
		return true
	default:
		return false
	}
}

// validateCrossField applies validations spanning multiple fields
func validateCrossField(cfg *Config) error {
	pcts := cfg.Auction.PayoutPcts
	sum := pcts.A + pcts.B + pcts.C + pcts.D
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("auction payout percentages must sum to 1.0, got %.4f", sum)
	}

	w := cfg.Odds.Weights
	wSum := w.Standings + w.H2H + w.Draw
	if math.Abs(wSum-1.0) > 1e-9 {
		return fmt.Errorf("odds strength weights must sum to 1.0, got %.4f", wSum)
	}

	if cfg.Database.Enabled() {
		if cfg.Database.Port == 0 || cfg.Database.Name == "" || cfg.Database.User == "" {
			return fmt.Errorf("database host is set but port, name, or user is missing")
		}
	}

	for div := range cfg.Auction.PriorPools {
		if !containsDivision(cfg.Data.Divisions, div) {
			return fmt.Errorf("prior pool configured for unknown division %q", div)
		}
	}

	return nil
}

func containsDivision(divisions []string, div string) bool {
	for _, d := range divisions {
		if d == div {
			return true
		}
	}
	return false
}

// formatValidationErrors converts validator errors into a readable message
func formatValidationErrors(errs validator.ValidationErrors) error {
	msg := "configuration validation failed:"
	for _, e := range errs {
		msg += fmt.Sprintf("\n  %s: failed %q validation", e.Namespace(), e.Tag())
	}
	return fmt.Errorf("%s", msg)
}
