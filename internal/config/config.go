package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/utils"
)

var (
	validate = newValidator()

	// lookupKeyring is swapped out in tests.
	lookupKeyring = keyring.LookupConnectionString
	userHomeDir   = os.UserHomeDir
)

// Config is the runtime configuration shared by every command.
type Config struct {
	// Database is a SQLite file path or a PostgreSQL connection string.
	Database string `validate:"required"`
	UserID   int64  `validate:"gt=0"`
	Timezone string `validate:"required,tz_or_local"`
	HTTPAddr string `validate:"required,hostname_port"`
	Debug    bool
	Notify   bool
}

// Load reads the given .env files (default ".env"; missing files are
// ignored), then the environment, and validates the result.
//
// The database is resolved in order: HABITUAL_DB, HABITUAL_DB_CONNECTION,
// the OS keyring, then the default SQLite path.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read %s: %w", f, err)
		}
	}

	database := getenv(constants.EnvDatabase, "")
	if database == "" {
		database = getenv(constants.EnvDBConn, "")
	}
	if database == "" {
		if connStr, ok := lookupKeyring(); ok {
			database = connStr
		}
	}
	if database == "" {
		database = constants.DefaultConfigPath
	}

	cfg := Config{
		Database: database,
		UserID:   getenvInt64(constants.EnvUserID, constants.DefaultUserID),
		Timezone: getenv(constants.EnvTimezone, constants.DefaultTimezone),
		HTTPAddr: getenv(constants.EnvHTTPAddr, constants.DefaultHTTPAddr),
		Debug:    getenvBool(constants.EnvDebug, false),
		Notify:   getenvBool(constants.EnvNotify, true),
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// newValidator registers tz_or_local: the built-in timezone tag rejects
// "Local", which is the default here.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("tz_or_local", func(fl validator.FieldLevel) bool {
		return utils.ValidateTimezone(fl.Field().String())
	})
	return v
}

// Validate checks cfg against its validator tags.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsPostgres reports whether database is a PostgreSQL connection string.
func IsPostgres(database string) bool {
	return strings.HasPrefix(database, "postgres://") || strings.HasPrefix(database, "postgresql://")
}

// ExpandPath resolves a leading "~/" against the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := userHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Dir returns the directory holding logs and other local state. For SQLite it
// sits next to the database file; for PostgreSQL it falls back to the
// default config directory.
func Dir(database string) (string, error) {
	if IsPostgres(database) {
		database = constants.DefaultConfigPath
	}
	path, err := ExpandPath(database)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
