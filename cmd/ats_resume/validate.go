package main

import (
	"fmt"
	"os"

	"github.com/jonathan/ats-resume/internal/observability"
	"github.com/jonathan/ats-resume/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a résumé file against the résumé schema",
	Long:  "Validates a JSON or YAML résumé against the embedded résumé schema, or against a custom JSON schema with --schema.",
	RunE:  runValidate,
}

var (
	validateInput  string
	validateSchema string
)

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "", "Path to résumé JSON or YAML file, or - for stdin (required)")
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Path to a JSON schema file (default: embedded résumé schema)")

	if err := validateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	err := validateFile(validateInput, validateSchema)
	observability.NewPrinter(os.Stdout).PrintValidation(validateInput, err)
	if err != nil {
		return fmt.Errorf("validation failed")
	}
	return nil
}

// validateFile checks the document at path against schemaPath, or the résumé schema when empty.
func validateFile(path, schemaPath string) error {
	if schemaPath == "" {
		_, err := loadResume(path)
		return err
	}

	if path != "-" && !isYAML(path) {
		return schemas.ValidateJSON(schemaPath, path)
	}

	content, err := readInput(path)
	if err != nil {
		return err
	}
	raw, err := toJSON(path, content)
	if err != nil {
		return err
	}

	schemaContent, err := os.ReadFile(schemaPath)
	if err != nil {
		return &schemas.SchemaLoadError{Path: schemaPath, Message: "failed to read schema", Cause: err}
	}
	return schemas.ValidateJSONString(string(schemaContent), string(raw))
}
