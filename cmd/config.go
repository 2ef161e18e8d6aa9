package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"transease/core/settings"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var outputFormat string

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change the settings file",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the settings file",
	Long:  `Prints every section of the settings file as INI, or the validated settings as YAML with -o yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg.Settings, logg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch outputFormat {
		case "yaml":
			data, err := yaml.Marshal(store.Snapshot())
			if err != nil {
				return fmt.Errorf("failed to encode settings: %w", err)
			}
			_, err = out.Write(data)
			return err
		case "ini", "":
			printSections(out, store.All(), isTerminal(out))
			return nil
		default:
			return fmt.Errorf("unknown output format %q (want ini or yaml)", outputFormat)
		}
	},
}

// configSetCmd represents the config set command
var configSetCmd = &cobra.Command{
	Use:   "set key=value...",
	Short: "Change settings",
	Long: `Validates and saves one or more settings. Keys without a section belong to [general].
Nothing is saved when any value is rejected. A running server applies the change on its next start.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		updates, err := parseAssignments(args)
		if err != nil {
			return err
		}

		cfg, logg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg.Settings, logg)
		if err != nil {
			return err
		}

		if err := store.Update(updates); err != nil {
			var verr *settings.ValidationError
			if errors.As(err, &verr) {
				return fmt.Errorf("setting %s rejected: %w", verr.Key, err)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d setting(s) to %s\n", len(args), store.Path())
		return nil
	},
}

// configPathCmd represents the config path command
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings and log file locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := settings.NewStore(afero.NewOsFs(), cfg.Settings, logg)
		if err != nil {
			return err
		}
		logPath, err := logFilePath(cfg.Settings)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "settings: %s\nlog:      %s\n", store.Path(), logPath)
		return nil
	},
}

// parseAssignments turns key=value arguments into settings updates. A key may be
// qualified as section.key.
func parseAssignments(args []string) (settings.Updates, error) {
	updates := settings.Updates{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q, want key=value", arg)
		}
		section := settings.SectionGeneral
		if s, k, qualified := strings.Cut(key, "."); qualified {
			section, key = s, k
		}
		if section == settings.SectionGeneral && !settings.IsKnown(key) {
			return nil, fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(settings.Keys, ", "))
		}
		if updates[section] == nil {
			updates[section] = map[string]any{}
		}
		updates[section][key] = strings.TrimSpace(value)
	}
	return updates, nil
}

// printSections writes sections as INI, general first, with keys in schema order.
func printSections(w io.Writer, sections map[string]map[string]string, colored bool) {
	header := fmt.Sprint
	name := fmt.Sprint
	if colored {
		header = color.New(color.FgCyan, color.Bold).Sprint
		name = color.New(color.FgGreen).Sprint
	}

	names := make([]string, 0, len(sections))
	for s := range sections {
		if s != settings.SectionGeneral {
			names = append(names, s)
		}
	}
	sort.Strings(names)
	if _, ok := sections[settings.SectionGeneral]; ok {
		names = append([]string{settings.SectionGeneral}, names...)
	}

	for i, s := range names {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, header("["+s+"]"))
		for _, k := range sectionKeys(s, sections[s]) {
			fmt.Fprintf(w, "%s = %s\n", name(k), sections[s][k])
		}
	}
}

func sectionKeys(section string, kv map[string]string) []string {
	if section == settings.SectionGeneral {
		keys := make([]string, 0, len(kv))
		for _, k := range settings.Keys {
			if _, ok := kv[k]; ok {
				keys = append(keys, k)
			}
		}
		var extra []string
		for k := range kv {
			if !settings.IsKnown(k) {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		return append(keys, extra...)
	}
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func init() {
	configShowCmd.Flags().StringVarP(&outputFormat, "output", "o", "ini", "output format (ini or yaml)")
	configCmd.AddCommand(configShowCmd, configSetCmd, configPathCmd)
	RootCmd.AddCommand(configCmd)
}
