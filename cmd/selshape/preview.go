package main

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/selshape/internal/renderer/backend"
)

var watch bool

var previewCmd = &cobra.Command{
	Use:   "preview FILE",
	Short: "Show the file and selections in the terminal",
	Long: `Show the file and selections in the terminal.

Keys: arrows or j/k scroll, PgUp/PgDn page, Home/End or g/G jump,
r reloads settings, q or Esc quits.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(args[0], watch)
		if err != nil {
			return err
		}
		defer a.Close()

		term, err := backend.NewTerminal(a.LayoutMetrics(), a.Palette())
		if err != nil {
			return err
		}
		if err := term.Init(); err != nil {
			return err
		}
		var once sync.Once
		shutdown := func() { once.Do(term.Shutdown) }
		defer shutdown()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go func() {
			// Finalizing the screen unblocks PollEvent.
			<-ctx.Done()
			shutdown()
		}()

		return a.Preview(ctx, term)
	},
}

func init() {
	previewCmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload settings when the file changes")
}
