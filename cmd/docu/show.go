package main

import (
	"fmt"
	"os"

	"github.com/aretw0/docu/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one entry",
	Long: `Prints an entry with its front-matter header and navigation links.
The output is styled with glamour when stdout is a terminal and plain
markdown otherwise.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runShow(cmd, args[0]); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringP("collection", "c", "docu", "Collection of the entry")
	showCmd.Flags().Bool("raw", false, "Print plain markdown even on a terminal")
	showCmd.Flags().Int("width", 100, "Word wrap width of styled output")
}

func runShow(cmd *cobra.Command, id string) error {
	p, err := loadProject(cmd, nil)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("collection")
	raw, _ := cmd.Flags().GetBool("raw")
	width, _ := cmd.Flags().GetInt("width")

	c, err := p.site.Collection(name)
	if err != nil {
		return err
	}
	entry, err := c.Get(id)
	if err != nil {
		return err
	}

	md := tui.EntryMarkdown(entry)
	if raw || !tui.IsTerminal(os.Stdout) {
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	}

	render, err := tui.NewRenderer(width)
	if err != nil {
		return err
	}
	out, err := render(md)
	if err != nil {
		return fmt.Errorf("failed to render entry: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
