package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/cli/analyze"
	"github.com/julianstephens/habitkit/internal/cli/backups"
	"github.com/julianstephens/habitkit/internal/cli/habits"
	"github.com/julianstephens/habitkit/internal/cli/system"
	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/errors"
	"github.com/julianstephens/habitkit/internal/keyring"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Store file path, a PostgreSQL connection string, or 'postgres' to use the connection string from the OS keyring. Credentials must NOT be embedded in connection strings." default:"${config_path}"`
	Debug   bool   `help:"Enable debug logging."`

	Init    system.InitCmd     `cmd:"" help:"Initialize habitkit storage."`
	Menu    system.MenuCmd     `cmd:"" help:"Run the interactive menu." default:"1"`
	Log     system.LogCmd      `cmd:"" help:"Show the habit history dashboard."`
	Doctor  system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Habit   habits.HabitCmd    `cmd:"" help:"Manage habits."`
	Analyze analyze.AnalyzeCmd `cmd:"" help:"Analyze habits and streaks."`
	Backup  struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage store backups."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage database credentials in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("habitkit"),
		kong.Description("Personal habit tracker with streak analytics"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
		},
	)

	store, configDir, err := selectStore(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	appCtx := &cli.Context{
		Store: store,
		Debug: CLI.Debug,
	}

	errors.Fatal(ctx.Run(appCtx))
}

// selectStore picks the storage backend from the config argument and returns
// it together with the directory used for logs and backups.
func selectStore(config string) (storage.Provider, string, error) {
	// An explicit connection string in the environment wins.
	if env := os.Getenv("HABITKIT_DB_CONNECTION"); env != "" {
		config = env
	}

	// Bare "postgres" pulls the connection string from the OS keyring.
	if config == "postgres" || config == "postgresql" {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			return nil, "", fmt.Errorf("no connection string in keyring, run 'habitkit keyring set' first: %w", err)
		}
		config = connStr
	}

	if storage.IsPostgresConnString(config) {
		if storage.HasEmbeddedCredentials(config) {
			return nil, "", fmt.Errorf("connection strings with embedded credentials are not allowed; use the OS keyring ('habitkit keyring set'), the HABITKIT_DB_CONNECTION environment variable, or .pgpass")
		}
		home, _ := os.UserHomeDir()
		return storage.NewPostgresStore(config), filepath.Join(home, ".config", constants.AppName), nil
	}

	path := expandHome(config)
	dir := filepath.Dir(path)
	switch filepath.Ext(path) {
	case ".db", ".sqlite", ".sqlite3":
		return storage.NewSQLiteStore(path), dir, nil
	default:
		return storage.NewJSONStore(path), dir, nil
	}
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
