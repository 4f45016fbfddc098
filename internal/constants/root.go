package constants

const (
	AppName            = "habitkit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitkit/habits.json"
	Version            = "v0.2.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitkit-"
)
