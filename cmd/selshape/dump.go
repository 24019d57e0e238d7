package main

import (
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/selshape/internal/renderer/selection"
)

// dumpLine is the YAML shape of one view line's pieces.
type dumpLine struct {
	Line   int               `yaml:"line"`
	Pieces []selection.Piece `yaml:"pieces"`
}

// dumpFrame is the YAML shape of the dump output.
type dumpFrame struct {
	Mode       string     `yaml:"mode"`
	Selections []string   `yaml:"selections"`
	Drawn      int        `yaml:"drawn"`
	Gapped     int        `yaml:"gapped"`
	Lines      []dumpLine `yaml:"lines"`
}

var dumpCmd = &cobra.Command{
	Use:   "dump FILE",
	Short: "Print the selection pieces of every visible line as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(args[0], false)
		if err != nil {
			return err
		}
		defer a.Close()

		pieces := a.LinePieces()
		stats := a.Overlay().Stats()

		frame := dumpFrame{
			Mode:   a.Overlay().Options().Mode.String(),
			Drawn:  stats.Selections,
			Gapped: stats.Gapped,
		}
		for _, sel := range a.Selections() {
			frame.Selections = append(frame.Selections, sel.String())
		}
		for line, p := range pieces {
			frame.Lines = append(frame.Lines, dumpLine{Line: line, Pieces: p})
		}
		sort.Slice(frame.Lines, func(i, j int) bool { return frame.Lines[i].Line < frame.Lines[j].Line })

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(frame); err != nil {
			return err
		}
		return enc.Close()
	},
}
