package config

import (
	"os"
	"strconv"
	"time"
)

var defaultValues = map[string]interface{}{
	"VITALS_ADDR":                  ":8080",          // HTTP listen address
	"VITALS_STORAGE":               "sqlite",         // memory, sqlite or postgres
	"VITALS_DB_PATH":               "/tmp/vitals.db", // SQLite database path
	"VITALS_POSTGRES_DSN":          "",               // Postgres DSN, used when VITALS_STORAGE=postgres
	"VITALS_WINDOW_SIZE":           100,              // Readings in the analytics rolling window
	"VITALS_DEFAULT_PAGE_SIZE":     20,               // History page size when none is requested
	"VITALS_MAX_PAGE_SIZE":         100,              // Largest history page a client may request
	"VITALS_CLOCK_SKEW":            "5m",             // How far ahead of server time a timestamp may be
	"VITALS_RATE_LIMIT":            100,              // Requests per client per rate window
	"VITALS_RATE_WINDOW":           "60s",            // Rate limit window
	"VITALS_REDIS_ADDR":            "",               // Redis address for shared rate limit state
	"VITALS_REDIS_DB":              0,                // Redis database index
	"VITALS_BACKUP_ENABLED":        false,            // Enable periodic SQLite backups
	"VITALS_BACKUP_DIR":            "./backups",      // Directory for backup files
	"VITALS_BACKUP_RETENTION_DAYS": 30,               // Days to retain backup files
	"VITALS_BACKUP_INTERVAL":       "24h",            // How often to back up
	"VITALS_DEBUG":                 false,            // Enable debug logging
}

func StringValue(key string) string {
	if defaultValue, ok := defaultValues[key]; ok {
		return getEnvVar(key, defaultValue.(string)).(string)
	}
	return ""
}

// IntValue gets an int value from the env or default
func IntValue(key string) int {

	if defaultValue, ok := defaultValues[key]; ok {
		return getEnvVar(key, defaultValue.(int)).(int)
	}
	return 0
}

// BoolValue gets a bool value from the env or default
func BoolValue(key string) bool {

	if defaultValue, ok := defaultValues[key]; ok {
		return getEnvVar(key, defaultValue.(bool)).(bool)
	}
	return false
}

// DurationValue parses a duration string from the env, falling back to the
// default string when the env value is not a valid duration.
func DurationValue(key string) time.Duration {

	defaultValue, ok := defaultValues[key]
	if !ok {
		return 0
	}
	fallback, _ := time.ParseDuration(defaultValue.(string))

	d, err := time.ParseDuration(StringValue(key))
	if err != nil {
		return fallback
	}
	return d
}

func getEnvVar(key string, fallback interface{}) interface{} {

	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	switch fallback.(type) {
	case string:
		return value
	case bool:
		valueAsBool, err := strconv.ParseBool(value)
		if err != nil {
			return fallback
		}
		return valueAsBool
	case int:
		valueAsInt, err := strconv.Atoi(value)
		if err != nil {
			return fallback
		}
		return valueAsInt
	}
	return fallback
}
