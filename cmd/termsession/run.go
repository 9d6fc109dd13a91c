package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	termsession "github.com/danielgatis/go-termsession"
	"pkt.systems/pslog"
)

func newRunCmd() *cobra.Command {
	var rows, cols int
	var termName string
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "run [flags] -- command [args...]",
		Short: "Run a command in a terminal session and print its transcript",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())

			doc := termsession.NewBufferDocument()
			s, err := termsession.NewSession(strings.Join(args, " "),
				termsession.WithSize(rows, cols),
				termsession.WithTermName(termName),
				termsession.WithDocument(doc),
				termsession.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Wait(timeout); err != nil {
				if errors.Is(err, termsession.ErrWaitTimeout) {
					return fmt.Errorf("job still running after %s", timeout)
				}
				return err
			}

			out := cmd.OutOrStdout()
			for i := 0; i < doc.LineCount(); i++ {
				fmt.Fprintln(out, doc.Line(i))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 24, "terminal rows")
	cmd.Flags().IntVar(&cols, "cols", 80, "terminal columns")
	cmd.Flags().StringVar(&termName, "term", "xterm-256color", "TERM value for the job")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "maximum time to wait for the job (0 waits forever)")
	return cmd
}
