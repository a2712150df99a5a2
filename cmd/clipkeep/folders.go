package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"clipkeep/internal/app"
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage folders",
}

var folderAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		icon, _ := cmd.Flags().GetString("icon")
		color, _ := cmd.Flags().GetString("color")

		return withApp("CreateFolder", func(a *app.ClipApp) error {
			f, err := a.Service().CreateFolder(args[0], icon, color)
			if err != nil {
				return err
			}
			fmt.Printf("Created folder %s (%s)\n", f.Name, f.ID)
			return nil
		})
	},
}

var folderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders with their item counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("ListFolders", func(a *app.ClipApp) error {
			folders := a.Service().Folders()
			if len(folders) == 0 {
				fmt.Println("No folders.")
				return nil
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, f := range folders {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", f.ID, f.Name, f.Icon, f.Color, f.ItemCount)
			}
			return tw.Flush()
		})
	},
}

var folderRenameCmd = &cobra.Command{
	Use:   "rename FOLDER NAME",
	Short: "Rename a folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("RenameFolder", func(a *app.ClipApp) error {
			id, err := folderIDFlag(a, args[0])
			if err != nil {
				return err
			}
			f, err := a.Service().RenameFolder(id, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Renamed %s to %s\n", f.ID, f.Name)
			return nil
		})
	},
}

var folderRmCmd = &cobra.Command{
	Use:   "rm FOLDER",
	Short: "Delete a folder; its records become uncategorized",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("DeleteFolder", func(a *app.ClipApp) error {
			id, err := folderIDFlag(a, args[0])
			if err != nil {
				return err
			}
			if err := a.Service().DeleteFolder(id); err != nil {
				return err
			}
			fmt.Printf("Deleted folder %s\n", id)
			return nil
		})
	},
}

var folderRecountCmd = &cobra.Command{
	Use:   "recount",
	Short: "Recalculate folder item counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("RecountFolders", func(a *app.ClipApp) error {
			folders, err := a.Service().RecountFolders()
			if err != nil {
				return err
			}
			fmt.Printf("Recounted %d folder(s)\n", len(folders))
			return nil
		})
	},
}

func init() {
	folderCmd.AddCommand(folderAddCmd)
	folderAddCmd.Flags().String("icon", "", "Icon name (random when empty)")
	folderAddCmd.Flags().String("color", "", "Hex color such as #6366F1 (random when empty)")
	folderCmd.AddCommand(folderListCmd)
	folderCmd.AddCommand(folderRenameCmd)
	folderCmd.AddCommand(folderRmCmd)
	folderCmd.AddCommand(folderRecountCmd)

	rootCmd.AddCommand(folderCmd)
}
