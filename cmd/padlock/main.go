package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"padlock/internal/config"
	"padlock/internal/db"
	"padlock/internal/service"
)

const cliVersion = "0.1.0"

var (
	flagDataDir string
	flagKeyDir  string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "padlock",
	Short: "padlock is a local, single-user password store",
	Long: `padlock keeps per-domain passwords encrypted on disk under a key
derived from your master password.

On first run it walks you through creating a master password (or generating
one and archiving the key to a file). After that, the same master password
unlocks the store and an interactive menu offers add, view, list and remove.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := db.Open(cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer database.Close()

		if err := database.Migrate(); err != nil {
			return fmt.Errorf("initialise database: %w", err)
		}

		menu := newUI(service.New(database), cfg)
		return menu.start()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the padlock version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(cliVersion)
	},
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}

	// Flags win over environment.
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
		if flagKeyDir == "" && os.Getenv("PADLOCK_KEY_DIR") == "" {
			cfg.KeyDir = ""
		}
	}
	if flagKeyDir != "" {
		cfg.KeyDir = flagKeyDir
	}
	if cfg.KeyDir == "" {
		cfg.KeyDir = filepath.Join(cfg.DataDir, "keys")
	}
	if flagNoColor {
		cfg.NoColor = true
	}
	if cfg.NoColor {
		color.NoColor = true
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory for the password database")
	rootCmd.PersistentFlags().StringVar(&flagKeyDir, "key-dir", "", "directory for archived key files")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}
