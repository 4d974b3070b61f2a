package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jacksmith/wallsafe/internal/cli"
	"github.com/jacksmith/wallsafe/internal/index"
	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:     "keywords",
	Aliases: []string{"kw"},
	Short:   "Manage the keywords wallpapers are rotated from",
	Long: `Each keyword has its own folder under the download directory and its
own playlist position. Rotation picks one keyword at random per change.`,
	Args: cobra.NoArgs,
	RunE: runKeywordsList,
}

var keywordsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List keywords and their playlist positions",
	Args:    cobra.NoArgs,
	RunE:    runKeywordsList,
}

var keywordsAddCmd = &cobra.Command{
	Use:   "add <keyword>...",
	Short: "Add keywords",
	Long:  "Add keywords. Re-adding a keyword keeps its playlist position.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runKeywordsAdd,
}

var keywordsRemoveCmd = &cobra.Command{
	Use:               "remove <keyword>...",
	Aliases:           []string{"rm"},
	Short:             "Remove keywords (their folders are left alone)",
	Long:              "Remove keywords. A unique prefix is enough. Downloaded files are not deleted.",
	Args:              cobra.MinimumNArgs(1),
	RunE:              runKeywordsRemove,
	ValidArgsFunction: completeKeywords,
}

func init() {
	keywordsCmd.AddCommand(keywordsListCmd)
	keywordsCmd.AddCommand(keywordsAddCmd)
	keywordsCmd.AddCommand(keywordsRemoveCmd)
	rootCmd.AddCommand(keywordsCmd)
}

func runKeywordsList(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		keywords := a.index.Keywords()
		if len(keywords) == 0 {
			fmt.Println("No keywords configured.")
			return nil
		}

		table := cli.NewTable()
		for _, kw := range keywords {
			table.AddRow(kw, cli.Cursor(a.index.Get(kw)), cli.Gray(cli.HomePath(a.catalog.Dir(kw))))
		}
		table.Render(os.Stdout)
		return nil
	})
}

func runKeywordsAdd(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		for _, arg := range args {
			kw, err := index.NormalizeKeyword(arg)
			if err != nil {
				return &cli.ValidationError{Field: "keyword", Message: fmt.Sprintf("%q cannot name a folder", arg)}
			}
			existed := a.index.Has(kw)
			if err := a.index.AddKeyword(kw); err != nil {
				return err
			}
			if existed {
				fmt.Printf("Keyword %s already present\n", kw)
			} else {
				fmt.Printf("Added keyword %s\n", kw)
			}
		}
		return nil
	})
}

func runKeywordsRemove(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		for _, arg := range args {
			kw, err := cli.MatchName("keyword", arg, a.index.Keywords())
			if err != nil {
				var nf *cli.NotFoundError
				if errors.As(err, &nf) {
					fmt.Printf("Keyword %s not configured\n", arg)
					continue
				}
				return err
			}
			if err := a.index.RemoveKeyword(kw); err != nil {
				return err
			}
			fmt.Printf("Removed keyword %s\n", kw)
		}
		return nil
	})
}
