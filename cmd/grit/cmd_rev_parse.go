package main

import (
	"fmt"

	"github.com/grit-scm/grit/pkg/object"
	"github.com/grit-scm/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newRevParseCmd() *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "rev-parse <name>",
		Short: "Resolve a name to an object digest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			h, err := r.FindObject(args[0], object.Type(typeName), true)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "coerce the result to this object type")

	return cmd
}
