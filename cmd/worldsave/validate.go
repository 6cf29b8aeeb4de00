package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"worldsave/internal/validate"
)

func validateCmd() *cobra.Command {
	var entityType string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the stored snapshot against an entity type without applying it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, entityType)
		},
	}
	cmd.Flags().StringVar(&entityType, "type", "", "Entity type the snapshot holds (defaults to capture.entity_type)")
	return cmd
}

func runValidate(cmd *cobra.Command, entityType string) error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	if entityType == "" {
		entityType = a.cfg.Capture.EntityType
	}
	desc, ok := a.registry.Lookup(entityType)
	if !ok {
		return fmt.Errorf("unknown entity type: %s", entityType)
	}

	report, err := validate.Run(ctx, a.service, desc, a.service.Resolver(), a.service.Denylist())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var errorIssues []validate.Issue
	var warnIssues []validate.Issue
	for _, issue := range report.Issues {
		switch issue.Severity {
		case validate.SeverityError:
			errorIssues = append(errorIssues, issue)
		case validate.SeverityWarn:
			warnIssues = append(warnIssues, issue)
		}
	}

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintf(out, "No issues found in %d records.\n", report.Records)
		return nil
	}
	if len(errorIssues) > 0 {
		fmt.Fprintf(out, "Errors (%d):\n", len(errorIssues))
		printValidateIssues(out, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(out, "")
		}
		fmt.Fprintf(out, "Warnings (%d):\n", len(warnIssues))
		printValidateIssues(out, warnIssues)
	}

	if report.HasErrors() {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printValidateIssues(out io.Writer, issues []validate.Issue) {
	for _, issue := range issues {
		location := "document"
		if issue.Record >= 0 {
			location = fmt.Sprintf("item %d", issue.Record)
			if issue.Field != "" {
				location += "." + issue.Field
			}
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", location, issue.Message, issue.Code)
	}
}
