package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clipkeep/internal/app"
)

// export command
var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Write every collection as one JSON document (stdout when FILE is omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("Export", func(a *app.ClipApp) error {
			data, err := a.Service().Export()
			if err != nil {
				return err
			}
			if len(args) == 0 || args[0] == "-" {
				_, err := os.Stdout.Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(args[0], data, 0600); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Printf("Exported to %s\n", args[0])
			return nil
		})
	},
}

// import command
var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Apply an export document (FILE may be - for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("reading import: %w", err)
		}

		return withApp("Import", func(a *app.ClipApp) error {
			summary, err := a.Service().Import(data)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d record(s), %d folder(s)", summary.Records, summary.Folders)
			if summary.Settings {
				fmt.Print(", settings")
			}
			if summary.User {
				fmt.Print(", user")
			}
			fmt.Println()
			return nil
		})
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Push or pull the export document to a vault",
}

func backupContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Minute)
}

var backupPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload a backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultName, _ := cmd.Flags().GetString("vault")
		return withApp("PushBackup", func(a *app.ClipApp) error {
			ctx, cancel := backupContext()
			defer cancel()
			version, err := a.PushBackup(ctx, vaultName)
			if err != nil {
				return err
			}
			fmt.Printf("Pushed backup version %d\n", version)
			return nil
		})
	},
}

var backupPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Restore the latest backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultName, _ := cmd.Flags().GetString("vault")
		return withApp("PullBackup", func(a *app.ClipApp) error {
			ctx, cancel := backupContext()
			defer cancel()
			version, summary, err := a.PullBackup(ctx, vaultName)
			if err != nil {
				return err
			}
			fmt.Printf("Restored backup version %d: %d record(s), %d folder(s)\n", version, summary.Records, summary.Folders)
			return nil
		})
	},
}

var backupCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the vault is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultName, _ := cmd.Flags().GetString("vault")
		return withApp("CheckVault", func(a *app.ClipApp) error {
			ctx, cancel := backupContext()
			defer cancel()
			v, err := a.Vault(ctx, vaultName)
			if err != nil {
				return err
			}
			if err := v.ValidateSetup(); err != nil {
				return fmt.Errorf("vault not usable: %w", err)
			}
			fmt.Println("Vault OK.")
			return nil
		})
	},
}

// confirm asks a yes/no question on the terminal.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every record, folder and setting",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			if !stdinIsTerminal() {
				return errors.New("refusing to clear without --yes")
			}
			if !confirm(os.Stdin, os.Stdout, "Delete all clipboard history?") {
				fmt.Println("Aborted.")
				return nil
			}
		}

		return withApp("ClearAll", func(a *app.ClipApp) error {
			snapshot, err := a.ClearAll()
			if err != nil {
				return err
			}
			if snapshot != "" {
				fmt.Printf("Previous data saved to %s\n", snapshot)
			}
			fmt.Println("All data cleared.")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)

	for _, c := range []*cobra.Command{backupPushCmd, backupPullCmd, backupCheckCmd} {
		c.Flags().String("vault", "", "Vault name (first configured vault when empty)")
		backupCmd.AddCommand(c)
	}
	rootCmd.AddCommand(backupCmd)

	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
