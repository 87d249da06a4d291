package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"noterefiner/internal/model"
)

const previewWidth = 60

func newNotesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Browse and manage saved notes",
	}
	cmd.AddCommand(
		newNotesListCmd(c),
		newNotesShowCmd(c),
		newNotesDeleteCmd(c),
		newNotesClearCmd(c),
	)
	return cmd
}

func newNotesListCmd(c *cli) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved notes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer c.close()
			notes := store.Search(cmd.Context(), query)
			if len(notes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No notes found.")
				return nil
			}
			return printNoteTable(cmd.OutOrStdout(), notes)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive filter over original and refined text")
	return cmd
}

func newNotesShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print a saved note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer c.close()
			n, ok := store.Get(cmd.Context(), id)
			if !ok {
				return fmt.Errorf("note %d not found", id)
			}
			printNote(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func newNotesDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a saved note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer c.close()
			return store.Delete(cmd.Context(), id)
		},
	}
}

func newNotesClearCmd(c *cli) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer c.close()
			if n := store.Len(cmd.Context()); !yes && n > 0 {
				return fmt.Errorf("refusing to delete %d notes without --yes", n)
			}
			return store.Clear(cmd.Context())
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List the available refinement modes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, m := range model.Modes() {
				fmt.Fprintf(tw, "%s\t%s\n", m, m.Label())
			}
			return tw.Flush()
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errors.New("invalid id: " + s)
	}
	return id, nil
}

func printNoteTable(w io.Writer, notes []model.Note) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tNOTE")
	for _, n := range notes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", n.ID, n.Date, n.Type, preview(n.Refined))
	}
	return tw.Flush()
}

func printNote(w io.Writer, n model.Note) {
	fmt.Fprintf(w, "#%d  %s  %s\n\n", n.ID, n.Date, n.Type.Label())
	fmt.Fprintf(w, "Original:\n%s\n\n", n.Original)
	fmt.Fprintf(w, "Refined:\n%s\n", n.Refined)
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= previewWidth {
		return s
	}
	return string(r[:previewWidth-3]) + "..."
}
