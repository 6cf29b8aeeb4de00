package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"worldsave/internal/snapshot"
	"worldsave/internal/world"
)

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <entity>",
		Short: "Show the persist fields of a live entity",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	e, err := a.entity(args[0])
	if err != nil {
		return err
	}
	return a.printEntity(cmd.OutOrStdout(), e)
}

func (a *app) printEntity(out io.Writer, e world.Entity) error {
	desc, err := a.registry.Describe(e)
	if err != nil {
		return err
	}
	deny := a.service.Denylist()
	resolver := a.service.Resolver()

	fmt.Fprintf(out, "%s (%s)\n", e.EntityName(), desc.Name)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tCATEGORY\tVALUE\tNOTE")
	for _, field := range desc.Fields {
		if !field.Persist {
			continue
		}
		slot, err := desc.Slot(e, field.Name)
		if err != nil {
			return err
		}
		value := "-"
		if raw, err := resolver.Encode(slot); err == nil {
			value = string(raw)
		}
		note := ""
		if deny.Contains(field.Name) {
			note = "denylisted"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", field.Name, field.Category, value, note)
	}
	return tw.Flush()
}

func printIssues(out io.Writer, issues []snapshot.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(out, "  - %s\n", issue)
	}
}
