package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func captureCmd() *cobra.Command {
	var entityType string
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture every live entity of a type into the snapshot slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCapture(cmd, entityType)
		},
	}
	cmd.Flags().StringVar(&entityType, "type", "", "Entity type to capture (defaults to capture.entity_type)")
	return cmd
}

func runCapture(cmd *cobra.Command, entityType string) error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	if entityType == "" {
		entityType = a.cfg.Capture.EntityType
	}
	return a.capture(ctx, cmd, entityType)
}

func (a *app) capture(ctx context.Context, cmd *cobra.Command, entityType string) error {
	result, err := a.service.Capture(ctx, entityType)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(result.Issues) > 0 {
		fmt.Fprintf(out, "Skipped (%d):\n", len(result.Issues))
		printIssues(out, result.Issues)
	}
	if result.WriteErr != nil {
		fmt.Fprintf(out, "Captured %d %s entities but the snapshot was not written: %v\n", len(result.Document.Items), entityType, result.WriteErr)
		return nil
	}

	location := a.cfg.Snapshot.Backend
	if info, err := a.store.Stat(ctx); err == nil {
		location = info.Location
	}
	fmt.Fprintf(out, "Captured %d %s entities (%d bytes) to %s\n", len(result.Document.Items), entityType, len(result.Data), location)
	return nil
}
