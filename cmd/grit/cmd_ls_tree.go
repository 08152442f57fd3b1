package main

import (
	"fmt"
	"path"

	"github.com/grit-scm/grit/pkg/object"
	"github.com/grit-scm/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newLsTreeCmd() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "ls-tree <tree-ish>",
		Short: "List the contents of a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			// The name pipeline runs once; subtrees are exact hashes
			// and come straight from the store.
			sha, err := r.FindObject(args[0], object.TypeTree, true)
			if err != nil {
				return err
			}

			type workItem struct {
				tree   object.Hash
				prefix string
			}
			work := []workItem{{tree: sha}}

			for len(work) > 0 {
				item := work[0]
				work = work[1:]

				tree, err := r.Store.ReadTree(item.tree)
				if err != nil {
					return err
				}

				for _, entry := range tree.Entries {
					kind := repo.ClassifyMode(entry.Mode)
					if kind == "" {
						return fmt.Errorf("entry %q has unrecognized mode %q", entry.Name, entry.Mode)
					}

					entryPath := path.Join(item.prefix, entry.Name)
					if recursive && kind == object.TypeTree {
						work = append(work, workItem{tree: entry.Hash, prefix: entryPath})
						continue
					}
					fmt.Fprintf(out, "%s %s %s\t%s\n", entry.Mode, kind, entry.Hash, entryPath)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "recurse into subtrees")

	return cmd
}
