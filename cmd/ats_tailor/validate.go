package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-tailor/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Validate tailoring result files against the output schema",
	Long:  "Check one or more tailoring result documents written by tailor or batch. With --schema the embedded JSON Schema is printed instead.",
	RunE:  runValidate,
}

var validatePrintSchema bool

func init() {
	validateCmd.Flags().BoolVar(&validatePrintSchema, "schema", false, "Print the tailoring result JSON Schema")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if validatePrintSchema {
		_, err := fmt.Fprint(out, schemas.TailoringResultSchema())
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("at least one result file is required")
	}

	failed := 0
	for _, path := range args {
		if err := schemas.ValidateResultFile(path); err != nil {
			failed++
			fmt.Fprintf(out, "✗ %s\n%v\n", path, err)
			continue
		}
		fmt.Fprintf(out, "✓ %s\n", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(args))
	}
	return nil
}
