package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var urlCmd = &cobra.Command{
	Use:   "url [keyword]",
	Short: "Print the search URL new wallpapers are fetched from",
	Long: `Print the search URL built from the resolution and filter settings.
Without a keyword, one URL is printed per configured keyword.`,
	Args:              cobra.MaximumNArgs(1),
	RunE:              runURL,
	ValidArgsFunction: completeKeywords,
}

func init() {
	rootCmd.AddCommand(urlCmd)
}

func runURL(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		if len(args) == 1 {
			fmt.Println(a.settings.SearchURL(args[0]))
			return nil
		}
		keywords := a.index.Keywords()
		if len(keywords) == 0 {
			fmt.Println(a.settings.SearchURL(""))
			return nil
		}
		for _, kw := range keywords {
			fmt.Printf("%s\t%s\n", kw, a.settings.SearchURL(kw))
		}
		return nil
	})
}
