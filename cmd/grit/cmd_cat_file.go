package main

import (
	"github.com/grit-scm/grit/pkg/object"
	"github.com/grit-scm/grit/pkg/repo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newCatFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat-file <type> <object>",
		Short: "Print an object's raw payload",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			h, err := r.FindObject(args[1], object.Type(args[0]), true)
			if err != nil {
				return err
			}
			logrus.WithField("hash", h).Debug("resolved object")

			_, payload, err := r.Store.Read(h)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(payload)
			return err
		},
	}
}
