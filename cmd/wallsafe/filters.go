package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jacksmith/wallsafe/internal/cli"
	"github.com/jacksmith/wallsafe/internal/settings"
	"github.com/spf13/cobra"
)

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Show or toggle the search category and purity filters",
	Args:  cobra.NoArgs,
	RunE:  runFiltersList,
}

var filtersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List filters",
	Args:  cobra.NoArgs,
	RunE:  runFiltersList,
}

var filtersEnableCmd = &cobra.Command{
	Use:               "enable <filter>...",
	Short:             "Switch filters on",
	Args:              cobra.MinimumNArgs(1),
	RunE:              func(cmd *cobra.Command, args []string) error { return setFilters(args, true) },
	ValidArgsFunction: completeFilters,
}

var filtersDisableCmd = &cobra.Command{
	Use:               "disable <filter>...",
	Short:             "Switch filters off",
	Args:              cobra.MinimumNArgs(1),
	RunE:              func(cmd *cobra.Command, args []string) error { return setFilters(args, false) },
	ValidArgsFunction: completeFilters,
}

func init() {
	filtersCmd.AddCommand(filtersListCmd)
	filtersCmd.AddCommand(filtersEnableCmd)
	filtersCmd.AddCommand(filtersDisableCmd)
	rootCmd.AddCommand(filtersCmd)
}

func filterNames() []string {
	var names []string
	for _, f := range settings.Filters() {
		names = append(names, strings.ToLower(f.String()))
	}
	return names
}

func filterKind(f settings.Filter) string {
	if f.Kind() == settings.KindPurity {
		return "purity"
	}
	return "category"
}

func runFiltersList(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		table := cli.NewTable("FILTER", "KIND", "STATE")
		for _, f := range settings.Filters() {
			table.AddRow(strings.ToLower(f.String()), filterKind(f), cli.OnOff(a.settings.FilterEnabled(f)))
		}
		table.Render(os.Stdout)
		return nil
	})
}

func setFilters(args []string, on bool) error {
	return withApp(func(a *app) error {
		for _, arg := range args {
			name, err := cli.MatchName("filter", arg, filterNames())
			if err != nil {
				return err
			}
			f, err := settings.ParseFilter(name)
			if err != nil {
				return err
			}
			if err := a.settings.SetFilter(f, on); err != nil {
				return err
			}
			fmt.Printf("%s %s\n", name, cli.OnOff(on))
		}
		return nil
	})
}
