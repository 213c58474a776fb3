package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/medvision/internal/uploads"
)

var validateCategory string

var validateCmd = &cobra.Command{
	Use:   "validate <image>",
	Short: "Check whether an image passes upload validation for a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateCategory, "category", "c", uploads.RetinaCategory, "analysis category")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	an, rep, err := loadSections()
	if err != nil {
		return err
	}

	f, err := readFile(args[0])
	if err != nil {
		return err
	}

	tk := newToolkit(an, rep)
	if err := tk.uploads.Validate(f, validateCategory); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s, %s)\n", f.Name, f.ContentType, uploads.Confirm(f).SizeLabel)
	return nil
}
