package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"clipkeep/internal/app"
	"clipkeep/internal/clip"
)

// readText returns the text argument, or all of stdin when no argument is
// given and stdin is not a terminal.
func readText(args []string, stdin io.Reader, stdinIsTerminal bool) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if stdinIsTerminal {
		return "", errors.New("no text given: pass it as an argument or pipe it on stdin")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// resolveFolder finds a folder by id or, failing that, by case-insensitive name.
func resolveFolder(folders []clip.Folder, ref string) (*clip.Folder, error) {
	for i := range folders {
		if folders[i].ID == ref {
			return &folders[i], nil
		}
	}
	for i := range folders {
		if strings.EqualFold(folders[i].Name, ref) {
			return &folders[i], nil
		}
	}
	return nil, fmt.Errorf("folder %q: %w", ref, clip.ErrNotFound)
}

func folderIDFlag(a *app.ClipApp, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	f, err := resolveFolder(a.Service().Store().Folders(), ref)
	if err != nil {
		return "", err
	}
	return f.ID, nil
}

// printRecords writes one line per record: id, type, favorite marker, age and preview.
func printRecords(w io.Writer, records []clip.Record, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range records {
		fav := " "
		if r.IsFavorite {
			fav = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Type, fav, clip.FormatRelative(r.Timestamp, now), clip.Preview(clip.CleanText(r.Text), 8))
	}
	tw.Flush()
}

func printRecord(w io.Writer, r *clip.Record, folder string) {
	stats := clip.Stats(r.Text)
	fmt.Fprintf(w, "ID:        %s\n", r.ID)
	fmt.Fprintf(w, "Type:      %s\n", r.Type)
	fmt.Fprintf(w, "Created:   %s\n", r.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Favorite:  %t\n", r.IsFavorite)
	if folder != "" {
		fmt.Fprintf(w, "Folder:    %s\n", folder)
	}
	if len(r.Tags) > 0 {
		fmt.Fprintf(w, "Tags:      %s\n", strings.Join(r.Tags, ", "))
	}
	fmt.Fprintf(w, "Stats:     %d words, %d characters, %d lines\n", stats.Words, stats.Characters, stats.Lines)
	fmt.Fprintf(w, "\n%s\n", r.Text)
}

// add command
var addCmd = &cobra.Command{
	Use:   "add [TEXT]",
	Short: "Add a record by hand",
	RunE: func(cmd *cobra.Command, args []string) error {
		folderRef, _ := cmd.Flags().GetString("folder")
		favorite, _ := cmd.Flags().GetBool("favorite")

		text, err := readText(args, os.Stdin, stdinIsTerminal())
		if err != nil {
			return err
		}

		return withApp("AddManual", func(a *app.ClipApp) error {
			folderID, err := folderIDFlag(a, folderRef)
			if err != nil {
				return err
			}
			r, err := a.Service().AddManual(text, folderID, favorite)
			if err != nil {
				return err
			}
			fmt.Printf("Added %s (%s)\n", r.ID, r.Type)
			return nil
		})
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List records",
	RunE: func(cmd *cobra.Command, args []string) error {
		favorites, _ := cmd.Flags().GetBool("favorites")
		folderRef, _ := cmd.Flags().GetString("folder")
		uncategorized, _ := cmd.Flags().GetBool("uncategorized")
		typ, _ := cmd.Flags().GetString("type")
		limit, _ := cmd.Flags().GetInt("limit")
		sortFlag, _ := cmd.Flags().GetString("sort")

		sortBy, ok := clip.ParseSortBy(sortFlag)
		if !ok {
			return fmt.Errorf("unknown sort %q (date, alphabetical, type, favorite)", sortFlag)
		}
		var recordType clip.RecordType
		if typ != "" {
			if recordType, ok = clip.ParseRecordType(typ); !ok {
				return fmt.Errorf("unknown type %q (text, link, hashtag, code)", typ)
			}
		}

		return withApp("ListRecords", func(a *app.ClipApp) error {
			f := clip.Filter{Type: recordType}
			if favorites {
				fav := true
				f.Favorite = &fav
			}
			switch {
			case uncategorized:
				none := ""
				f.FolderID = &none
			case folderRef != "":
				id, err := folderIDFlag(a, folderRef)
				if err != nil {
					return err
				}
				f.FolderID = &id
			}

			records := clip.Sort(f.Apply(a.Service().Records()), sortBy)
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}
			if len(records) == 0 {
				fmt.Println("No records.")
				return nil
			}
			printRecords(os.Stdout, records, time.Now())
			return nil
		})
	},
}

// search command
var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search record text and tags",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fuzzy, _ := cmd.Flags().GetBool("fuzzy")
		query := strings.Join(args, " ")

		return withApp("Search", func(a *app.ClipApp) error {
			var records []clip.Record
			if fuzzy {
				records = a.Service().FuzzySearch(query)
			} else {
				records = a.Service().Search(query)
			}
			if len(records) == 0 {
				fmt.Println("No matches.")
				return nil
			}
			printRecords(os.Stdout, records, time.Now())
			return nil
		})
	},
}

// show command
var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("ShowRecord", func(a *app.ClipApp) error {
			r, err := a.Service().Record(args[0])
			if err != nil {
				return err
			}
			folder := ""
			if r.FolderID != "" {
				if f, err := a.Service().Store().Folder(r.FolderID); err == nil {
					folder = f.Name
				}
			}
			printRecord(os.Stdout, r, folder)
			return nil
		})
	},
}

// edit command
var editCmd = &cobra.Command{
	Use:   "edit ID [TEXT]",
	Short: "Replace a record's text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readText(args[1:], os.Stdin, stdinIsTerminal())
		if err != nil {
			return err
		}
		return withApp("EditText", func(a *app.ClipApp) error {
			r, err := a.Service().EditText(args[0], text)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %s\n", r.ID)
			return nil
		})
	},
}

// fav command
var favCmd = &cobra.Command{
	Use:   "fav ID",
	Short: "Toggle a record's favorite flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("ToggleFavorite", func(a *app.ClipApp) error {
			r, err := a.Service().ToggleFavorite(args[0])
			if err != nil {
				return err
			}
			if r.IsFavorite {
				fmt.Printf("%s is now a favorite\n", r.ID)
			} else {
				fmt.Printf("%s is no longer a favorite\n", r.ID)
			}
			return nil
		})
	},
}

// move command
var moveCmd = &cobra.Command{
	Use:   "move ID [FOLDER]",
	Short: "Move a record into a folder, or out of any folder",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("MoveToFolder", func(a *app.ClipApp) error {
			folderID := ""
			if len(args) == 2 {
				id, err := folderIDFlag(a, args[1])
				if err != nil {
					return err
				}
				folderID = id
			}
			r, err := a.Service().MoveToFolder(args[0], folderID)
			if err != nil {
				return err
			}
			if folderID == "" {
				fmt.Printf("%s is now uncategorized\n", r.ID)
			} else {
				fmt.Printf("Moved %s to %s\n", r.ID, args[1])
			}
			return nil
		})
	},
}

// rm command
var rmCmd = &cobra.Command{
	Use:   "rm ID...",
	Short: "Delete records",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("DeleteRecord", func(a *app.ClipApp) error {
			for _, id := range args {
				if err := a.Service().DeleteRecord(id); err != nil {
					return err
				}
				fmt.Printf("Deleted %s\n", id)
			}
			return nil
		})
	},
}

// copy command
var copyCmd = &cobra.Command{
	Use:   "copy ID",
	Short: "Copy a record back to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("CopyOut", func(a *app.ClipApp) error {
			r, err := a.Service().CopyOut(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Copied %s: %s\n", r.ID, clip.Truncate(clip.CleanText(r.Text), 50))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringP("folder", "f", "", "Folder id or name")
	addCmd.Flags().Bool("favorite", false, "Mark as favorite")

	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("favorites", false, "Only favorites")
	listCmd.Flags().StringP("folder", "f", "", "Only records in this folder (id or name)")
	listCmd.Flags().Bool("uncategorized", false, "Only records without a folder")
	listCmd.Flags().StringP("type", "t", "", "Only records of this type (text, link, hashtag, code)")
	listCmd.Flags().IntP("limit", "n", clip.DefaultRecentLimit, "Maximum number of records to show (0 for all)")
	listCmd.Flags().StringP("sort", "s", string(clip.SortByDate), "Sort order: date, alphabetical, type, favorite")
	listCmd.MarkFlagsMutuallyExclusive("folder", "uncategorized")

	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().Bool("fuzzy", false, "Rank by fuzzy match instead of substring")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(favCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(copyCmd)
}
