package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/medvision/internal/analysis"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the analysis categories",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VALUE\tLABEL\tPATH")
	for _, c := range analysis.Categories() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Value, c.Label, c.Path)
	}
	return tw.Flush()
}
