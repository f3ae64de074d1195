package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/citykit/mcrbatch/internal/routing"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string // The config field path (e.g., "batch.max_workers")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation
// errors found.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.Batch.MaxWorkers < 1 {
		errs = append(errs, ValidationError{
			Field:   "batch.max_workers",
			Value:   c.Batch.MaxWorkers,
			Message: "must be at least 1",
		})
	}
	if c.Batch.PollIntervalMs < 1 {
		errs = append(errs, ValidationError{
			Field:   "batch.poll_interval_ms",
			Value:   c.Batch.PollIntervalMs,
			Message: "must be at least 1",
		})
	}
	if c.Batch.ErrorChannelCapacity < 1 {
		errs = append(errs, ValidationError{
			Field:   "batch.error_channel_capacity",
			Value:   c.Batch.ErrorChannelCapacity,
			Message: "must be at least 1",
		})
	}
	if c.Batch.OutputDir == "" {
		errs = append(errs, ValidationError{
			Field:   "batch.output_dir",
			Value:   c.Batch.OutputDir,
			Message: "must be set",
		})
	}
	if c.Batch.MappingsFile == "" {
		errs = append(errs, ValidationError{
			Field:   "batch.mappings_file",
			Value:   c.Batch.MappingsFile,
			Message: "must be set",
		})
	}

	if _, err := routing.ParseStartTime(c.Routing.StartTime); err != nil {
		errs = append(errs, ValidationError{
			Field:   "routing.start_time",
			Value:   c.Routing.StartTime,
			Message: "must be HH:MM:SS",
		})
	}
	if c.Routing.MaxTransfers < 0 {
		errs = append(errs, ValidationError{
			Field:   "routing.max_transfers",
			Value:   c.Routing.MaxTransfers,
			Message: "must be >= 0",
		})
	}
	if c.Routing.RouterBin == "" {
		errs = append(errs, ValidationError{
			Field:   "routing.router_bin",
			Value:   c.Routing.RouterBin,
			Message: "must be set",
		})
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errs
}
