package core

import (
	"fmt"
	"strings"
	"time"
)

// Validation error codes returned to clients
const (
	CodeMissingField     = "MISSING_FIELD"
	CodeInvalidRange     = "INVALID_RANGE"
	CodeInvalidTimestamp = "INVALID_TIMESTAMP"
	CodeInvalidRequest   = "INVALID_REQUEST"
)

// Field names used in validation errors
const (
	FieldDeviceID     = "device_id"
	FieldTimestamp    = "timestamp"
	FieldThermalValue = "thermal_value"
	FieldBatteryLevel = "battery_level"
	FieldMemoryUsage  = "memory_usage"
)

// Reading bounds, all inclusive
const (
	MinThermal = 0
	MaxThermal = 3
	MinPercent = 0.0
	MaxPercent = 100.0
)

// ValidationError is a rejected submission. Field is empty when the
// rejection is about the request as a whole.
type ValidationError struct {
	Field   string
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a submission in a fixed order and returns the first
// failure. now is the server time the skew tolerance is measured from.
func Validate(s *VitalSubmission, now time.Time, skew time.Duration) *ValidationError {
	if s == nil {
		return &ValidationError{Code: CodeInvalidRequest, Message: "Invalid request."}
	}

	if s.DeviceID == nil || strings.TrimSpace(*s.DeviceID) == "" {
		return missing(FieldDeviceID, "Device ID is required.")
	}
	if s.Timestamp == nil {
		return missing(FieldTimestamp, "Timestamp is required.")
	}
	if s.ThermalValue == nil {
		return missing(FieldThermalValue, "Thermal value is required.")
	}
	if s.BatteryLevel == nil {
		return missing(FieldBatteryLevel, "Battery level is required.")
	}
	if s.MemoryUsage == nil {
		return missing(FieldMemoryUsage, "Memory usage is required.")
	}

	if *s.ThermalValue < MinThermal || *s.ThermalValue > MaxThermal {
		return outOfRange(FieldThermalValue, "Thermal value must be between 0 and 3.")
	}
	if !inPercentRange(*s.BatteryLevel) {
		return outOfRange(FieldBatteryLevel, "Battery level must be between 0 and 100.")
	}
	if !inPercentRange(*s.MemoryUsage) {
		return outOfRange(FieldMemoryUsage, "Memory usage must be between 0 and 100.")
	}

	if s.Timestamp.Time().After(now.Add(skew)) {
		return &ValidationError{
			Field:   FieldTimestamp,
			Code:    CodeInvalidTimestamp,
			Message: "Timestamp cannot be in the future.",
		}
	}

	return nil
}

// NaN fails both comparisons and is rejected
func inPercentRange(v float64) bool {
	return v >= MinPercent && v <= MaxPercent
}

func missing(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Code: CodeMissingField, Message: msg}
}

func outOfRange(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Code: CodeInvalidRange, Message: msg}
}
