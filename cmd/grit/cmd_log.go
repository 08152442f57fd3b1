package main

import (
	"fmt"
	"strings"

	"github.com/grit-scm/grit/pkg/object"
	"github.com/grit-scm/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log [commit]",
		Short: "Render commit history as a DOT graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "HEAD"
			if len(args) == 1 {
				name = args[0]
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			start, err := r.FindObject(name, object.TypeCommit, true)
			if err != nil {
				return err
			}
			if start == "" {
				return fmt.Errorf("%q does not name a commit", name)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "digraph gritlog{")
			fmt.Fprintln(out, "  node[shape=rect]")

			// Work-list walk with a visited set; merge histories share
			// ancestors and must be printed once.
			seen := make(map[object.Hash]bool)
			stack := []object.Hash{start}
			for len(stack) > 0 {
				sha := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if seen[sha] {
					continue
				}
				seen[sha] = true

				commit, err := r.Store.ReadCommit(sha)
				if err != nil {
					return err
				}

				message := strings.TrimSpace(string(commit.Message()))
				message = strings.ReplaceAll(message, "\\", "\\\\")
				message = strings.ReplaceAll(message, "\"", "\\\"")
				if i := strings.IndexByte(message, '\n'); i >= 0 {
					message = message[:i]
				}

				fmt.Fprintf(out, "  c_%s [label=\"%s: %s\"]\n", sha, sha[:7], message)
				for _, parent := range commit.Parents() {
					fmt.Fprintf(out, "  c_%s -> c_%s;\n", sha, parent)
					stack = append(stack, parent)
				}
			}

			fmt.Fprintln(out, "}")
			return nil
		},
	}
}
