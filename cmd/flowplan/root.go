package main

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-flowplan/internal/assembly"
	"github.com/askiada/go-flowplan/pkg/flow/planner"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootFlags struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "flowplan",
		Short:         "Plan pipe assemblies into process steps",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log planning details to stderr")

	cmd.AddCommand(newPlanCmd(flags))
	cmd.AddCommand(newDotCmd(flags))

	return cmd
}

// planFile loads the assembly at path and plans it.
func planFile(cmd *cobra.Command, flags *rootFlags, path string) (*planner.Plan, error) {
	f, err := assembly.Load(path)
	if err != nil {
		return nil, err
	}
	a, err := f.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "invalid assembly %s", path)
	}

	opts := a.Options
	if flags.verbose {
		log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, planner.WithLogger(log))
	}
	plan, err := planner.New(opts...).Plan(a.Tails...)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to plan %s", path)
	}

	return plan, nil
}
