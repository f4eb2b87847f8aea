package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/askiada/go-flowplan/pkg/flow/model"
)

func newPlanCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <assembly.yaml>",
		Short: "Print the steps of an assembly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := planFile(cmd, flags, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, step := range plan.Steps() {
				fmt.Fprintf(out, "%s\n", step.Name())
				fmt.Fprintf(out, "  id:       %s\n", step.ID())
				fmt.Fprintf(out, "  priority: %d\n", step.SubmitPriority())
				var deps []string
				for _, dep := range plan.Dependencies(step) {
					deps = append(deps, dep.Name())
				}
				if len(deps) > 0 {
					fmt.Fprintf(out, "  after:    %s\n", strings.Join(deps, "; "))
				}
				printTaps(cmd, "sources", step.SourceTaps())
				printTaps(cmd, "sinks", step.SinkTaps())
				printTaps(cmd, "traps", step.TrapMap())
				fmt.Fprintf(out, "  pipes:\n")
				for _, n := range step.Nodes() {
					scope, _ := plan.Scopes().Node(n)
					fmt.Fprintf(out, "    %s -> %s\n", n, scope.Outgoing)
				}
			}

			return nil
		},
	}
}

func printTaps(cmd *cobra.Command, title string, taps map[string]model.Tap) {
	if len(taps) == 0 {
		return
	}
	names := make([]string, 0, len(taps))
	for name := range taps {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(cmd.OutOrStdout(), "  %s:\n", title)
	for _, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "    %s: %s\n", name, taps[name].Identifier())
	}
}
