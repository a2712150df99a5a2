package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"clipkeep/internal/app"
	"clipkeep/internal/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var verbose bool

// newApp reads the config and creates a ClipApp. The caller must defer app.Close().
// command identifies the CLI command being run (e.g. "AddManual", "Watch").
func newApp(command string) (*app.ClipApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewClipApp(cfg, command, app.Options{Verbose: verbose})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// withApp runs fn against a freshly built app and closes it afterwards,
// recording whether the command failed.
func withApp(command string, fn func(a *app.ClipApp) error) (err error) {
	a, err := newApp(command)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	err = fn(a)
	a.Finish(err)
	return err
}

// signalContext is cancelled on interrupt or terminate.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

var rootCmd = &cobra.Command{
	Use:           "clipkeep",
	Short:         "Clipboard history manager",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		hostID := uuid.New().String()
		cfg := config.NewConfig(hostID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Host ID: %s\n", hostID)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Host ID:       %s\n", cfg.HostID)
		fmt.Printf("Base Dir:      %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:       %s\n", cfg.LogDir)
		fmt.Printf("Database:      %s (%s)\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Clipboard:     %s\n", cfg.Clipboard.Type)
		fmt.Printf("Poll Interval: %s\n", cfg.Monitor.PollInterval)
		fmt.Printf("API Listen:    %s\n", cfg.API.Listen)
		for _, v := range cfg.Vaults {
			fmt.Printf("Vault:         %s (%s)\n", v.Name, v.Type)
		}
		return nil
	},
}

// watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Capture clipboard changes until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("Watch", func(a *app.ClipApp) error {
			ctx, stop := signalContext()
			defer stop()
			fmt.Printf("Watching clipboard every %s (Ctrl-C to stop)\n", a.Config().Monitor.PollInterval)
			return a.Watch(ctx)
		})
	},
}

// poll command
var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Check the clipboard once",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("Poll", func(a *app.ClipApp) error {
			r := a.PollOnce()
			if r == nil {
				fmt.Println("No change.")
				return nil
			}
			fmt.Printf("Captured %s (%s)\n", r.ID, r.Type)
			return nil
		})
	},
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("Serve", func(a *app.ClipApp) error {
			ctx, stop := signalContext()
			defer stop()
			fmt.Printf("Serving API on %s\n", a.Config().API.Listen)
			return a.Serve(ctx)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every level to stderr")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(pollCmd)
	rootCmd.AddCommand(serveCmd)
}
