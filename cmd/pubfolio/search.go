package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the site content from the terminal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig.site()
		results := newCache(cfg).Search(strings.Join(args, " "), searchLimit)
		if len(results) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no results")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SCORE\tTYPE\tTITLE\tURL")
		for _, r := range results {
			fmt.Fprintf(w, "%.2f\t%s\t%s\t%s\n", r.Score, r.Entry.Type, r.Entry.Title, r.Entry.URL)
		}
		return w.Flush()
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
}
