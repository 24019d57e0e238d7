package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/selshape/internal/renderer/backend"
)

var output string

var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Render the visible lines and selections to a PNG image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(args[0], false)
		if err != nil {
			return err
		}
		defer a.Close()

		m := a.LayoutMetrics()
		vp := a.Viewport()
		img := backend.NewImage(
			int(float64(vp.Width())*m.CharWidth),
			int(float64(vp.Height())*m.LineHeight),
			m, a.Palette())

		if err := a.RenderFrame(cmd.Context(), img); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if output != "" && output != "-" {
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		if err := img.EncodePNG(out); err != nil {
			return fmt.Errorf("encoding png: %w", err)
		}

		stats := a.Overlay().Stats()
		a.Logger().WithComponent("render").Info("rendered lines %d-%d: %d selections, %d gapped, %d pieces",
			stats.Viewport.StartLineNumber, stats.Viewport.EndLineNumber, stats.Selections, stats.Gapped, stats.Pieces)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&output, "output", "o", "", "output PNG path (default stdout)")
}
