package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/selshape/internal/app"
)

// Persistent flags shared by every subcommand.
var (
	configPath string
	logLevel   string
	mode       string
	width      int
	height     int
	top        int
	selections []string
)

var rootCmd = &cobra.Command{
	Use:          "selshape",
	Short:        "Render multi-line selection highlights with rounded corners",
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("selshape %s (commit %s, built %s)\n", version, commit, date))

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "path to settings file (default ~/.config/selshape/settings.toml)")
	pf.StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	pf.StringVar(&mode, "mode", "", "selection mode (rounded, markers)")
	pf.IntVar(&width, "width", app.DefaultWidth, "viewport width in columns")
	pf.IntVar(&height, "height", 0, "viewport height in lines (0 fits the whole file)")
	pf.IntVar(&top, "top", 0, "first visible line")
	pf.StringArrayVarP(&selections, "select", "s", nil, "selection as line:col-line:col, repeatable; the first is primary")

	rootCmd.AddCommand(renderCmd, dumpCmd, previewCmd)
}

// newApp creates an application for file with the viewport and selections
// from the command line.
func newApp(file string, watch bool) (*app.App, error) {
	a, err := app.New(app.Options{
		ConfigPath: configPath,
		LogLevel:   logLevel,
		Mode:       mode,
		Watch:      watch,
		LogOutput:  os.Stderr,
		Width:      width,
		Height:     max(height, 1),
	})
	if err != nil {
		return nil, err
	}

	if err := a.LoadFile(file); err != nil {
		_ = a.Close()
		return nil, err
	}
	if height <= 0 {
		a.Resize(width, max(a.Viewport().LineCount(), 1))
	}
	a.ScrollTo(top)

	if err := a.ParseSelections(selections); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}
