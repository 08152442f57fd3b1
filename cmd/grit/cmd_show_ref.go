package main

import (
	"fmt"
	"io"

	"github.com/grit-scm/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newShowRefCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-ref",
		Short: "List references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			refs, err := r.ListRefs("")
			if err != nil {
				return err
			}
			printRefs(cmd.OutOrStdout(), "refs", refs)
			return nil
		},
	}
}

func printRefs(out io.Writer, prefix string, entries []repo.RefEntry) {
	for _, e := range entries {
		name := prefix + "/" + e.Name
		if e.IsDir() {
			printRefs(out, name, e.Refs)
			continue
		}
		fmt.Fprintf(out, "%s %s\n", e.Hash, name)
	}
}
