package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lorebook/internal/config"
	"lorebook/internal/validate"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Lint the configured books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate()
		},
	}
	return cmd
}

func runValidate() error {
	cfg, err := config.LoadProjectConfig("lorebook.yaml")
	if err != nil {
		return err
	}

	books, err := loadBooks(cfg)
	if err != nil {
		return err
	}

	report := validate.Run(books)
	if len(report.Issues) == 0 {
		fmt.Fprintln(os.Stdout, "No issues found.")
		return nil
	}

	for _, issue := range report.Issues {
		fmt.Fprintf(os.Stdout, "%s [%s] %s/%s: %s\n",
			issue.Severity, issue.Code, issue.Book, issue.UID, issue.Message)
	}

	if report.HasErrors() {
		return fmt.Errorf("validation failed")
	}
	return nil
}
