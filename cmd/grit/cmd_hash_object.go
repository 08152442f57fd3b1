package main

import (
	"fmt"
	"os"

	"github.com/grit-scm/grit/pkg/object"
	"github.com/grit-scm/grit/pkg/repo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newHashObjectCmd() *cobra.Command {
	var typeName string
	var write bool

	cmd := &cobra.Command{
		Use:   "hash-object <file>",
		Short: "Compute an object's digest, optionally storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			// Round-trip the input through the kind's codec so that a
			// structurally invalid payload is rejected here rather than
			// stored.
			t := object.Type(typeName)
			var payload []byte
			switch t {
			case object.TypeBlob:
				b, err := object.UnmarshalBlob(raw)
				if err != nil {
					return err
				}
				payload = object.MarshalBlob(b)
			case object.TypeCommit:
				c, err := object.UnmarshalCommit(raw)
				if err != nil {
					return err
				}
				payload = object.MarshalCommit(c)
			case object.TypeTag:
				tag, err := object.UnmarshalTag(raw)
				if err != nil {
					return err
				}
				payload = object.MarshalTag(tag)
			case object.TypeTree:
				tree, err := object.UnmarshalTree(raw)
				if err != nil {
					return err
				}
				payload, err = object.MarshalTree(tree)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown object type %q", typeName)
			}

			var h object.Hash
			if write {
				r, err := repo.Open(".")
				if err != nil {
					return err
				}
				h, err = r.Store.Write(t, payload, true)
				if err != nil {
					return err
				}
				logrus.WithField("hash", h).Debug("object stored")
			} else {
				h = object.HashObject(t, payload)
			}

			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "blob", "object type (blob, commit, tree, tag)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "store the object in the repository")

	return cmd
}
