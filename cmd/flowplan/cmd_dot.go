package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-flowplan/pkg/flow/drawer"
)

func newDotCmd(flags *rootFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "dot <assembly.yaml>",
		Short: "Render the steps of an assembly as a DOT graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := planFile(cmd, flags, args[0])
			if err != nil {
				return err
			}

			label := drawer.GraphAttribute("label", args[0])
			if output == "" {
				return drawer.Write(cmd.OutOrStdout(), plan, label)
			}

			return writeFile(output, func(w io.Writer) error {
				return drawer.Write(w, plan, label)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the graph to this file instead of stdout")

	return cmd
}

// writeFile creates path, fills it with write and reports a failed close.
func writeFile(path string, write func(w io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", path)
	}
	err = write(file)
	if err != nil {
		_ = file.Close()

		return err
	}
	err = file.Close()
	if err != nil {
		return errors.Wrapf(err, "unable to close file %s", path)
	}

	return nil
}
