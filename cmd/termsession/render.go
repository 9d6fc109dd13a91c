package main

import (
	"fmt"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	termsession "github.com/danielgatis/go-termsession"
	"pkt.systems/pslog"
)

func newRenderCmd() *cobra.Command {
	var rows, cols int
	var output string
	var fontPath string
	var fontSize float64
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "render [flags] -- command [args...]",
		Short: "Run a command and render its transcript to a PNG",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())

			s, err := termsession.NewSession(strings.Join(args, " "),
				termsession.WithSize(rows, cols),
				termsession.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Wait(timeout); err != nil {
				return err
			}

			cfg := &termsession.RenderConfig{}
			if fontPath != "" {
				face, err := termsession.LoadFont(fontPath, fontSize)
				if err != nil {
					return fmt.Errorf("load font: %w", err)
				}
				cfg.Font = face
			}
			img := s.RenderTranscriptWithConfig(cfg)

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := png.Encode(f, img); err != nil {
				return err
			}
			logger.Info("transcript rendered",
				"output", output,
				"width", img.Bounds().Dx(),
				"height", img.Bounds().Dy())
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 24, "terminal rows")
	cmd.Flags().IntVar(&cols, "cols", 80, "terminal columns")
	cmd.Flags().StringVarP(&output, "output", "o", "transcript.png", "output PNG path")
	cmd.Flags().StringVar(&fontPath, "font", "", "TTF/OTF font file (default built-in bitmap font)")
	cmd.Flags().Float64Var(&fontSize, "font-size", 14, "font size in points")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "maximum time to wait for the job (0 waits forever)")
	return cmd
}
