package main

import (
	"fmt"

	"github.com/grit-scm/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newTagCmd() *cobra.Command {
	var annotate bool
	var message string

	cmd := &cobra.Command{
		Use:   "tag [name] [object]",
		Short: "List tags, or create a lightweight or annotated tag",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			if len(args) == 0 {
				tags, err := r.ListRefs("tags")
				if err != nil {
					return err
				}
				printTagNames(cmd, "", tags)
				return nil
			}

			name := args[0]
			target := "HEAD"
			if len(args) == 2 {
				target = args[1]
			}

			if annotate {
				_, err = r.CreateAnnotatedTag(name, target, message)
				return err
			}
			return r.CreateTag(name, target)
		},
	}

	cmd.Flags().BoolVarP(&annotate, "annotate", "a", false, "create an annotated tag object")
	cmd.Flags().StringVarP(&message, "message", "m", "", "annotated tag message")

	return cmd
}

func printTagNames(cmd *cobra.Command, prefix string, entries []repo.RefEntry) {
	for _, e := range entries {
		name := e.Name
		if prefix != "" {
			name = prefix + "/" + e.Name
		}
		if e.IsDir() {
			printTagNames(cmd, name, e.Refs)
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
}
