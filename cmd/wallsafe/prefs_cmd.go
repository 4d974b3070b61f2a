package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jacksmith/wallsafe/internal/cli"
	"github.com/jacksmith/wallsafe/internal/index"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or edit the raw preference store",
	Args:  cobra.NoArgs,
	RunE:  runPrefsShow,
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every stored preference as YAML",
	Args:  cobra.NoArgs,
	RunE:  runPrefsShow,
}

var prefsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the preference store in $EDITOR",
	Long: `Open every stored preference as YAML in $VISUAL or $EDITOR and save
the result back. Leaving the file unchanged writes nothing.`,
	Args: cobra.NoArgs,
	RunE: runPrefsEdit,
}

func init() {
	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsEditCmd)
	rootCmd.AddCommand(prefsCmd)
}

func runPrefsShow(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		data, err := dumpPrefs(a)
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
		return nil
	})
}

func runPrefsEdit(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		d, err := a.dumper()
		if err != nil {
			return err
		}
		original, err := dumpPrefs(a)
		if err != nil {
			return err
		}

		edited, err := cli.EditInEditor(original, ".yaml")
		if err != nil {
			return err
		}
		if bytes.Equal(original, edited) {
			fmt.Println("No changes.")
			return nil
		}

		values, err := parsePrefs(edited)
		if err != nil {
			return err
		}
		if err := d.Replace(values); err != nil {
			return err
		}
		fmt.Printf("Saved %d preference(s)\n", len(values))
		return nil
	})
}

func dumpPrefs(a *app) ([]byte, error) {
	d, err := a.dumper()
	if err != nil {
		return nil, err
	}
	values, err := d.Dump()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return []byte("{}\n"), nil
	}
	data, err := yaml.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preferences: %w", err)
	}
	return data, nil
}

// parsePrefs decodes an edited document. The keyword map must stay valid
// JSON or the next start would silently drop every keyword.
func parsePrefs(data []byte) (map[string]string, error) {
	var values map[string]string
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, &cli.ValidationError{Field: "preferences", Message: err.Error()}
	}
	if values == nil {
		values = map[string]string{}
	}

	if raw, ok := values[index.PrefKey]; ok {
		if err := index.Validate(raw); err != nil {
			return nil, &cli.ValidationError{Field: index.PrefKey, Message: err.Error()}
		}
	}
	return values, nil
}
