package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jonathan/call-scorer/internal/rubric"
	"github.com/jonathan/call-scorer/internal/types"
	"github.com/spf13/cobra"
)

var rubricCmd = &cobra.Command{
	Use:   "rubric",
	Short: "Validate, inspect, import, and export scoring rubrics",
}

var rubricValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check that a rubric file parses and passes validation",
	Args:  cobra.ExactArgs(1),
	RunE:  runRubricValidate,
}

var rubricShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "List available rubrics, or show the criteria of one",
	Long: `Without a name, list the built-in presets and any rubrics stored in the database.
With a name, print that rubric's criteria. Stored rubrics shadow presets of the same name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRubricShow,
}

var rubricImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Store a rubric file in the database",
	Args:  cobra.ExactArgs(1),
	RunE:  runRubricImport,
}

var rubricExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Write a stored or built-in rubric as JSON, YAML, or CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runRubricExport,
}

var rubricDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a rubric from the database",
	Args:  cobra.ExactArgs(1),
	RunE:  runRubricDelete,
}

var (
	rubricImportName   string
	rubricExportFormat string
	rubricExportOut    string
)

func init() {
	rubricImportCmd.Flags().StringVarP(&rubricImportName, "name", "n", "", "Name to store the rubric under (default: the rubric's own name, then the file name)")
	rubricExportCmd.Flags().StringVarP(&rubricExportFormat, "format", "f", "", "Output format: json, yaml, or csv (default: from --out extension, else json)")
	rubricExportCmd.Flags().StringVarP(&rubricExportOut, "out", "o", "", "Write to this file instead of stdout")

	rubricCmd.AddCommand(rubricValidateCmd, rubricShowCmd, rubricImportCmd, rubricExportCmd, rubricDeleteCmd)
	rootCmd.AddCommand(rubricCmd)
}

func runRubricValidate(cmd *cobra.Command, args []string) error {
	r, err := rubric.LoadFile(args[0])
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid: %d criteria, max score %g\n",
		args[0], len(r.Criteria), r.MaxPossibleScore())
	return nil
}

func runRubricShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		_, _ = fmt.Fprintln(out, "Presets:")
		for _, name := range rubric.PresetNames() {
			_, _ = fmt.Fprintf(out, "  %s\n", name)
		}

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		if store == nil {
			return nil
		}
		defer store.Close()

		stored, err := store.ListRubrics(ctx)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, "Stored:")
		for _, s := range stored {
			_, _ = fmt.Fprintf(out, "  %s (%d criteria, updated %s)\n", s.Name, s.CriteriaCount, s.UpdatedAt.Format("2006-01-02"))
		}
		return nil
	}

	r, err := lookupRubric(ctx, args[0])
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "Rubric: %s (%d criteria, max score %g)\n", r.Name, len(r.Criteria), r.MaxPossibleScore())
	for _, c := range r.Criteria {
		_, _ = fmt.Fprintf(out, "\n%s [%s]\n", c.Name, c.ID)
		if c.Description != "" {
			_, _ = fmt.Fprintf(out, "  %s\n", c.Description)
		}
		_, _ = fmt.Fprintf(out, "  Max score: %g  Weight: %g\n", c.MaxScore, c.Weight)
		if len(c.Keywords) > 0 {
			_, _ = fmt.Fprintf(out, "  Keywords: %s\n", strings.Join(c.Keywords, ", "))
		}
		if len(c.RequiredKeywords) > 0 {
			_, _ = fmt.Fprintf(out, "  Required: %s\n", strings.Join(c.RequiredKeywords, ", "))
		}
	}
	return nil
}

func runRubricImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	r, err := rubric.LoadFile(args[0])
	if err != nil {
		return err
	}
	r.Name = firstNonEmpty(rubricImportName, r.Name, strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])))
	if r.Name == rubric.DefaultName {
		return fmt.Errorf("the name %q is reserved for the built-in rubric", rubric.DefaultName)
	}

	store, err := requireStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveRubric(ctx, r); err != nil {
		return err
	}
	log.WithField("rubric", r.Name).Info("rubric imported")
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported rubric %s (%d criteria)\n", r.Name, len(r.Criteria))
	return nil
}

func runRubricExport(cmd *cobra.Command, args []string) error {
	format := rubric.FormatJSON
	switch {
	case rubricExportFormat != "":
		format = rubric.Format(strings.ToLower(rubricExportFormat))
	case rubricExportOut != "":
		inferred, err := rubric.FormatFromPath(rubricExportOut)
		if err != nil {
			return err
		}
		format = inferred
	}

	r, err := lookupRubric(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	data, err := rubric.Encode(r, format)
	if err != nil {
		return err
	}
	return writeOutput(cmd, rubricExportOut, data)
}

func runRubricDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := requireStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteRubric(ctx, args[0]); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted rubric %s\n", args[0])
	return nil
}

// lookupRubric resolves a name against the database when one is configured, then the presets
func lookupRubric(ctx context.Context, name string) (*types.Rubric, error) {
	store, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return rubric.Load(ctx, rubric.PresetSource{Name: name})
	}
	defer store.Close()
	return rubric.Load(ctx, rubric.StoreSource{Store: store, Name: name})
}
