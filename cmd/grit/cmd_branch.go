package main

import (
	"fmt"

	"github.com/grit-scm/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newBranchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch [name] [start-point]",
		Short: "List branches or create one",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			if len(args) == 0 {
				heads, err := r.ListRefs("heads")
				if err != nil {
					return err
				}
				for _, e := range heads {
					if !e.IsDir() {
						fmt.Fprintln(cmd.OutOrStdout(), e.Name)
					}
				}
				return nil
			}

			start := "HEAD"
			if len(args) == 2 {
				start = args[1]
			}
			target, err := r.FindObject(start, "", true)
			if err != nil {
				return err
			}
			return r.CreateBranch(args[0], target)
		},
	}

	return cmd
}
