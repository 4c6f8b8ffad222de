package main

import (
	"fmt"
	"strings"

	"github.com/jonathan/call-scorer/internal/schemas"
	schemafiles "github.com/jonathan/call-scorer/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against an embedded schema",
	Long: `Validate a JSON document against one of the embedded schemas: rubric, utterances, or
call_analysis.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

var (
	validateSchema string
	validateJSON   string
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Schema name (rubric, utterances, call_analysis)")
	validateCmd.Flags().StringVarP(&validateJSON, "json", "j", "", "Path to the JSON file to validate")

	_ = validateCmd.MarkFlagRequired("schema")
	_ = validateCmd.MarkFlagRequired("json")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	schemaName, err := schemaFileFor(validateSchema)
	if err != nil {
		return err
	}

	if err := schemas.ValidateFile(schemaName, validateJSON); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %s matches %s\n", validateJSON, schemaName)
	return nil
}

// schemaFileFor accepts a schema name with or without the .schema.json suffix
func schemaFileFor(name string) (string, error) {
	want := strings.TrimSuffix(name, ".schema.json") + ".schema.json"
	for _, s := range schemafiles.All {
		if s == want {
			return s, nil
		}
	}
	names := make([]string, len(schemafiles.All))
	for i, s := range schemafiles.All {
		names[i] = strings.TrimSuffix(s, ".schema.json")
	}
	return "", fmt.Errorf("unknown schema %q (want one of: %s)", name, strings.Join(names, ", "))
}
