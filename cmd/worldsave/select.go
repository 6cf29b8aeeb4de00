package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"worldsave/internal/selector"
)

func selectCmd() *cobra.Command {
	var choices []string
	var capture bool
	cmd := &cobra.Command{
		Use:   "select <entity>",
		Short: "Choose referents for the reference fields of a live entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(cmd, args[0], choices, capture)
		},
	}
	cmd.Flags().StringArrayVar(&choices, "choice", nil, "Field=Name to commit without prompting (repeatable)")
	cmd.Flags().BoolVar(&capture, "capture", false, "Capture the entity type after committing")
	return cmd
}

func runSelect(cmd *cobra.Command, name string, choices []string, capture bool) error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	source, err := a.entity(name)
	if err != nil {
		return err
	}
	session, err := selector.Begin(source, selector.Deps{
		Registry: a.registry,
		World:    a.world,
		Catalog:  a.catalog,
		Denylist: a.service.Denylist(),
		Logger:   &a.log.Logger,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(session.Entries) == 0 {
		fmt.Fprintf(out, "%s has no selectable reference fields\n", session.Source)
		return nil
	}

	if len(choices) > 0 {
		for _, choice := range choices {
			field, value, ok := strings.Cut(choice, "=")
			if !ok {
				return fmt.Errorf("invalid --choice %q, expected Field=Name", choice)
			}
			outcome, err := session.Commit(strings.TrimSpace(field), strings.TrimSpace(value))
			if err != nil {
				return err
			}
			printOutcome(out, outcome)
		}
	} else {
		prompt := &promptPresenter{in: bufio.NewReader(cmd.InOrStdin()), out: out}
		for _, entry := range session.Entries {
			if err := entry.Present(prompt); err != nil {
				return err
			}
			if prompt.answer == "" {
				fmt.Fprintf(out, "%s: unchanged\n", entry.Field)
				continue
			}
			outcome, err := entry.Commit(prompt.answer)
			if err != nil {
				return err
			}
			printOutcome(out, outcome)
		}
	}

	fmt.Fprintln(out, "")
	if err := a.printEntity(out, source); err != nil {
		return err
	}
	if capture {
		desc, err := a.registry.Describe(source)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "")
		return a.capture(ctx, cmd, desc.Name)
	}
	return nil
}

// promptPresenter lists candidates and reads one answer, either a number
// from the list or a name.
type promptPresenter struct {
	in     *bufio.Reader
	out    io.Writer
	answer string
}

func (p *promptPresenter) ShowSelection(field string, names []string) error {
	fmt.Fprintf(p.out, "%s:\n", field)
	for i, name := range names {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, name)
	}
	fmt.Fprint(p.out, "choice (empty to skip): ")

	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	line = strings.TrimSpace(line)
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(names) {
		line = names[n-1]
	}
	p.answer = line
	return nil
}

func printOutcome(out io.Writer, outcome selector.Outcome) {
	switch outcome.Status {
	case selector.StatusCommitted:
		fmt.Fprintf(out, "%s: set to %s\n", outcome.Field, outcome.Name)
	default:
		fmt.Fprintf(out, "%s: %s not applied (%s)\n", outcome.Field, outcome.Name, outcome.Status)
	}
}
