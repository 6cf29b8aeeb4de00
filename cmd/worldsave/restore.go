package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func restoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <entity>",
		Short: "Apply the stored snapshot onto a live entity",
		Args:  cobra.ExactArgs(1),
		RunE:  runRestore,
	}
	return cmd
}

func runRestore(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	target, err := a.entity(args[0])
	if err != nil {
		return err
	}
	report, err := a.service.Restore(ctx, target)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Restored %s from %d records, applied %d fields\n", report.Target, report.Records, len(report.Applied))
	if len(report.Issues) > 0 {
		fmt.Fprintf(out, "Skipped (%d):\n", len(report.Issues))
		printIssues(out, report.Issues)
	}
	fmt.Fprintln(out, "")
	return a.printEntity(out, target)
}
