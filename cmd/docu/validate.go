package main

import (
	"fmt"
	"os"

	"github.com/aretw0/docu/pkg/schema"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate every document of the site collections",
	Long: `Builds every collection and reports the rejected documents, field by field.
Navigation links (previousUrl, nextUrl) that match no entry are reported as
warnings and never fail the validation.`,
	Run: func(cmd *cobra.Command, args []string) {
		rejected, err := runValidate(cmd, args)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		if rejected > 0 {
			fmt.Printf("Validation failed: %d document(s) rejected\n", rejected)
			os.Exit(1)
		}
		fmt.Println("All documents are valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) (int, error) {
	p, err := loadProject(cmd, args)
	if err != nil {
		return 0, err
	}

	out := cmd.OutOrStdout()
	rejected := 0
	for _, c := range p.site.Collections() {
		fmt.Fprintf(out, "%s: %d entries, %d issues\n", c.Name(), c.Len(), len(c.Issues()))

		for _, issue := range c.Issues() {
			rejected++
			fmt.Fprintf(out, "  ✗ %s (%s)\n", issue.FilePath, issue.Kind)
			fields := schema.ValidationErrors(issue)
			if len(fields) == 0 {
				fmt.Fprintf(out, "      %v\n", issue.Err)
			}
			for _, fe := range fields {
				fmt.Fprintf(out, "      %s\n", fe.Error())
			}
		}

		for _, link := range c.DanglingLinks() {
			fmt.Fprintf(out, "  ! %s\n", link)
		}
	}
	return rejected, nil
}
