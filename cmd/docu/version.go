package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/docu"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of docu",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("docu version %s\n", strings.TrimSpace(docu.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
