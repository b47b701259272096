package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/service"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/utils"
)

// ErrEmbeddedCredentials is returned by OpenStore for PostgreSQL connection
// strings that carry a password.
var ErrEmbeddedCredentials = errors.New("PostgreSQL connection strings with embedded credentials are not allowed")

type Context struct {
	Store   storage.Provider
	Service *service.Service
	Config  config.Config

	// Out receives command output. Defaults to stdout.
	Out io.Writer
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Print(args ...any) {
	fmt.Fprint(c.out(), args...)
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// UserID is the user every command acts as.
func (c *Context) UserID() int64 {
	return c.Config.UserID
}

// OpenStore picks the storage backend for database: a PostgreSQL store for
// connection strings, SQLite for anything else.
func OpenStore(database string) (storage.Provider, error) {
	if config.IsPostgres(database) {
		if _, err := postgres.ValidateConnString(database); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, ErrEmbeddedCredentials
			}
			return nil, err
		}
		return postgres.New(database), nil
	}
	path, err := config.ExpandPath(database)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}

// FormatFrequency formats a habit frequency into a human-readable string
func FormatFrequency(f models.Frequency) string {
	switch f.Type {
	case models.FrequencyDaily:
		return "daily"
	case models.FrequencyWeekly:
		if len(f.TargetDays) > 0 {
			return "weekly on " + utils.FormatWeekdays(f.TargetDays)
		}
		return "weekly"
	default:
		return "unknown"
	}
}
