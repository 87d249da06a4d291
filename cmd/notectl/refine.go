package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"noterefiner/internal/session"
)

func newRefineCmd(c *cli) *cobra.Command {
	var (
		mode string
		save bool
	)
	cmd := &cobra.Command{
		Use:   "refine [text|-]",
		Short: "Refine a rough note and print the result",
		Long: `Sends the note to the refinement server and prints the refined text.
With no argument, or "-", the note is read from stdin.

Example:
  notectl refine --mode email "tell bob the vpn is back up"
  pbpaste | notectl refine --mode kb_article --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			note, err := readNote(cmd, args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(note) == "" {
				return errors.New("note is empty")
			}

			sess, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer c.close()
			if err := sess.SetMode(mode); err != nil {
				return fmt.Errorf("%w: %q", err, mode)
			}
			sess.SetInput(note)

			if err := sess.Refine(cmd.Context()); err != nil {
				if errors.Is(err, session.ErrRefineFailed) {
					return c.reportRefineFailure(cmd, err)
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sess.Snapshot().Output)

			if save {
				n, err := sess.Save(cmd.Context())
				if err != nil {
					return fmt.Errorf("save note: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved to History! (id %d)\n", n.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "tech_support", "tech_support, email, meeting_minutes or kb_article")
	cmd.Flags().BoolVarP(&save, "save", "s", false, "save the result to the note history")
	return cmd
}

func readNote(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimRight(string(b), "\n"), nil
	}
	return strings.Join(args, " "), nil
}
