package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "habitual"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitual/habitual.db"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// History constants
	MaxHistoryDays     = 366
	DefaultHistoryDays = 14

	// Completion constraints
	MinMood          = 1
	MaxMood          = 5
	MaxNoteLength    = 500
	MaxHabitNameLen  = 100
	DefaultUserID    = 1
	DefaultHTTPAddr  = ":8080"
	DefaultTimezone  = "Local" // Use system local timezone by default
	HTTPServiceName  = "habitual-api"
	HTTPRequestLimit = 60 * time.Second

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "habitual-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.habitual"
	TrayAppExecutable      = "habitual-tray"
	TraySecretHeader       = "X-Habitual-Secret"

	// Environment variables
	EnvDatabase = "HABITUAL_DB"
	EnvUserID   = "HABITUAL_USER_ID"
	EnvTimezone = "HABITUAL_TIMEZONE"
	EnvHTTPAddr = "HABITUAL_HTTP_ADDR"
	EnvDebug    = "HABITUAL_DEBUG"
	EnvNotify   = "HABITUAL_NOTIFY"
	EnvDBConn   = "HABITUAL_DB_CONNECTION"
)

const (
	// Session States
	StateHabits SessionState = iota
	StateBadges
	StateHistory
	StateAddHabit
	StateConfirmDelete
)
