package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the entries of a collection ordered by number",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runList(cmd, args); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("collection", "c", "docu", "Collection to list")
	listCmd.Flags().Bool("json", false, "Print entries as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	p, err := loadProject(cmd, args)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("collection")
	asJSON, _ := cmd.Flags().GetBool("json")

	c, err := p.site.Collection(name)
	if err != nil {
		return err
	}
	entries := c.Entries()

	if asJSON {
		for i := range entries {
			entries[i].Body = ""
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tID\tTITLE\tURL")
	for _, e := range entries {
		fmt.Fprintf(w, "%v\t%s\t%s\t%s\n", e.Data.Number, e.ID, e.Data.Title, e.Data.URL)
	}
	return w.Flush()
}
