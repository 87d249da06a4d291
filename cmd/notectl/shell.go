package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"noterefiner/internal/model"
	"noterefiner/internal/notestore"
	"noterefiner/internal/session"
)

const shellHelp = `Type or paste rough notes; each line is appended to the input.
Commands:
  :mode [name]    show or select the mode
  :refine         refine the current input
  :save           save the input and refined output to history
  :notes          list saved notes matching the current search
  :search [text]  set the history search (empty clears it)
  :recall ID      load a saved note into the editor
  :delete ID      delete a saved note
  :show           print the current input and output
  :reset          clear the current input
  :help           show this help
  :quit           leave the shell`

func newShellCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive refinement session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer c.close()

			sh := &shell{cli: c, cmd: cmd, sess: sess, out: cmd.OutOrStdout()}
			return sh.run(cmd.InOrStdin())
		},
	}
}

type shell struct {
	cli  *cli
	cmd  *cobra.Command
	sess *session.Session
	out  io.Writer
	buf  []string
}

func (sh *shell) run(in io.Reader) error {
	fmt.Fprintln(sh.out, "NoteRefiner shell. Type :help for commands.")
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, ":") {
			sh.buf = append(sh.buf, line)
			sh.sess.SetInput(strings.Join(sh.buf, "\n"))
			continue
		}
		name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
		if name == "quit" || name == "q" {
			return nil
		}
		if err := sh.exec(name, strings.TrimSpace(arg)); err != nil {
			fmt.Fprintln(sh.out, err)
		}
	}
	return sc.Err()
}

func (sh *shell) exec(name, arg string) error {
	ctx := sh.cmd.Context()
	switch name {
	case "help", "h":
		fmt.Fprintln(sh.out, shellHelp)

	case "mode":
		if arg == "" {
			m := sh.sess.Snapshot().Mode
			fmt.Fprintf(sh.out, "mode: %s (%s)\n", m, m.Label())
			return nil
		}
		if err := sh.sess.SetMode(arg); err != nil {
			return fmt.Errorf("unknown mode %q, try one of %s", arg, modeList())
		}

	case "refine", "r":
		if sh.sess.Snapshot().Input == "" {
			return errors.New("nothing to refine")
		}
		fmt.Fprintln(sh.out, "Refining...")
		if err := sh.sess.Refine(ctx); err != nil {
			if errors.Is(err, session.ErrRefineFailed) {
				_ = sh.cli.reportRefineFailure(sh.cmd, err)
				return nil
			}
			return err
		}
		fmt.Fprintln(sh.out, sh.sess.Snapshot().Output)

	case "save", "s":
		n, err := sh.sess.Save(ctx)
		if errors.Is(err, notestore.ErrRefinedRequired) {
			return errors.New("nothing to save, run :refine first")
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "Saved to History! (id %d)\n", n.ID)

	case "notes", "ls":
		notes := sh.sess.Notes(ctx)
		if len(notes) == 0 {
			fmt.Fprintln(sh.out, "No notes found.")
			return nil
		}
		return printNoteTable(sh.out, notes)

	case "search":
		sh.sess.SetQuery(arg)

	case "recall":
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		n, err := sh.sess.Recall(ctx, id)
		if err != nil {
			return err
		}
		sh.buf = nil
		if n.Original != "" {
			sh.buf = strings.Split(n.Original, "\n")
		}
		printNote(sh.out, n)

	case "delete":
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		return sh.sess.Delete(ctx, id)

	case "show":
		st := sh.sess.Snapshot()
		fmt.Fprintf(sh.out, "Input:\n%s\n\nOutput:\n%s\n", st.Input, st.Output)

	case "reset":
		sh.buf = nil
		sh.sess.SetInput("")

	default:
		return fmt.Errorf("unknown command :%s, type :help", name)
	}
	return nil
}

func modeList() string {
	modes := model.Modes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
