package main

import (
	"github.com/grit-scm/grit/pkg/repo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <commit> <path>",
		Short: "Materialize a commit's tree into an empty directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			logrus.WithField("dest", args[1]).Debug("checking out")
			return r.Checkout(args[0], args[1])
		},
	}
}
