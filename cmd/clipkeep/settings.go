package main

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"clipkeep/internal/app"
	"clipkeep/internal/clip"
)

// settingsFields returns settings as a map keyed by their JSON names.
func settingsFields(s clip.Settings) (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// setSetting returns s with key set to value. Boolean fields accept
// anything strconv.ParseBool does.
func setSetting(s clip.Settings, key, value string) (clip.Settings, error) {
	fields, err := settingsFields(s)
	if err != nil {
		return s, err
	}
	current, ok := fields[key]
	if !ok {
		return s, fmt.Errorf("unknown setting %q: %w", key, clip.ErrInvalid)
	}
	switch current.(type) {
	case bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return s, fmt.Errorf("%s expects true or false: %w", key, clip.ErrInvalid)
		}
		fields[key] = b
	default:
		fields[key] = value
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return s, err
	}
	var out clip.Settings
	if err := json.Unmarshal(data, &out); err != nil {
		return s, err
	}
	return out, nil
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change settings",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [KEY]",
	Short: "Show settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("GetSettings", func(a *app.ClipApp) error {
			fields, err := settingsFields(a.Service().Settings())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				v, ok := fields[args[0]]
				if !ok {
					return fmt.Errorf("unknown setting %q", args[0])
				}
				fmt.Println(v)
				return nil
			}

			keys := make([]string, 0, len(fields))
			for k := range fields {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, k := range keys {
				fmt.Fprintf(tw, "%s\t%v\n", k, fields[k])
			}
			return tw.Flush()
		})
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("SaveSettings", func(a *app.ClipApp) error {
			s, err := setSetting(a.Service().Settings(), args[0], args[1])
			if err != nil {
				return err
			}
			if err := a.Service().SaveSettings(s); err != nil {
				return err
			}
			fmt.Printf("%s = %s\n", args[0], args[1])
			return nil
		})
	},
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
