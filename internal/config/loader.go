package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrStorageNotConfigured is returned by RequireStorage when the storage
// URL or key is missing.
var ErrStorageNotConfigured = errors.New("storage not configured")

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// LoadEnvFile loads variables from a .env file, overwriting the process
// environment. An empty path tries ".env" in the working directory and
// reports whether it was found; a named file that is missing is an error.
func LoadEnvFile(path string) (bool, error) {
	if path == "" {
		if err := godotenv.Overload(); err != nil {
			return false, nil
		}
		return true, nil
	}

	if err := godotenv.Overload(path); err != nil {
		return false, fmt.Errorf("load env file %s: %w", path, err)
	}
	return true, nil
}

// MustLoad loads configuration and panics on error.
// Use this only in main() where early termination is desired.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into nested structs
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		// Get tags
		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		// Apply default if not set
		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		// Set the field value
		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			// Split comma-separated values, trim whitespace
			parts := strings.Split(value, ",")
			result := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					result = append(result, p)
				}
			}
			field.Set(reflect.ValueOf(result))
		} else {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Format validation
	if strings.TrimSpace(c.Format.TrueToken) == "" || strings.TrimSpace(c.Format.FalseToken) == "" {
		errs = append(errs, "FORMAT_TRUE_TOKEN and FORMAT_FALSE_TOKEN must not be blank")
	}
	if c.Format.TrueToken == c.Format.FalseToken {
		errs = append(errs, fmt.Sprintf("FORMAT_TRUE_TOKEN and FORMAT_FALSE_TOKEN must differ (both %q)", c.Format.TrueToken))
	}

	// Storage validation
	if c.Storage.URL != "" && !strings.HasPrefix(c.Storage.URL, "http://") && !strings.HasPrefix(c.Storage.URL, "https://") {
		errs = append(errs, fmt.Sprintf("STORAGE_URL (%q) must start with http:// or https://", c.Storage.URL))
	}
	if c.Storage.Timeout <= 0 {
		errs = append(errs, "STORAGE_TIMEOUT must be positive")
	}
	if c.Storage.RetryCount < 0 {
		errs = append(errs, "STORAGE_RETRY_COUNT must be non-negative")
	}
	if c.Storage.DefaultBucket == "" {
		errs = append(errs, "STORAGE_DEFAULT_BUCKET must not be empty")
	}

	// Transfer validation
	if c.Transfer.Workers <= 0 {
		errs = append(errs, "TRANSFER_WORKERS must be positive")
	}
	if c.Transfer.MaxConcurrent <= 0 {
		errs = append(errs, "TRANSFER_MAX_CONCURRENT must be positive")
	}
	if c.Transfer.MaxWait <= 0 {
		errs = append(errs, "TRANSFER_MAX_WAIT must be positive")
	}
	if c.Transfer.Timeout <= 0 {
		errs = append(errs, "TRANSFER_TIMEOUT must be positive")
	}

	// Database validation, only when the ledger is enabled
	if c.Database.LedgerEnabled() {
		if c.Database.MaxConns < c.Database.MinConns {
			errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
				c.Database.MaxConns, c.Database.MinConns))
		}
		if c.Database.MaxConns <= 0 {
			errs = append(errs, "DB_MAX_CONNS must be positive")
		}
		if c.Database.MinConns < 0 {
			errs = append(errs, "DB_MIN_CONNS must be non-negative")
		}
	}

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.MaxUploadSize <= 0 {
		errs = append(errs, "SERVER_MAX_UPLOAD_SIZE must be positive")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// RequireStorage checks the storage credentials needed by the migrate command.
func (c *Config) RequireStorage() error {
	var missing []string
	if c.Storage.URL == "" {
		missing = append(missing, "STORAGE_URL")
	}
	if c.Storage.Key == "" {
		missing = append(missing, "STORAGE_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s not set", ErrStorageNotConfigured, strings.Join(missing, ", "))
	}
	return nil
}

// String returns a safe string representation of the config for logging.
// Sensitive values like the storage key and database URL are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Format: {TrueToken: %q, FalseToken: %q}, ",
		c.Format.TrueToken, c.Format.FalseToken))
	b.WriteString(fmt.Sprintf("Storage: {URL: %q, Key: %s, DefaultBucket: %q}, ",
		c.Storage.URL, mask(c.Storage.Key), c.Storage.DefaultBucket))
	b.WriteString(fmt.Sprintf("Transfer: {Workers: %d, MaxConcurrent: %d, MaxWait: %s, Timeout: %s}, ",
		c.Transfer.Workers, c.Transfer.MaxConcurrent, c.Transfer.MaxWait, c.Transfer.Timeout))
	b.WriteString(fmt.Sprintf("Database: {URL: %s, MaxConns: %d}, ",
		mask(c.Database.URL), c.Database.MaxConns))
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}

func mask(secret string) string {
	if secret == "" {
		return "[UNSET]"
	}
	return "[MASKED]"
}
