package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dshills/textmap/internal/host/memdoc"
	"github.com/dshills/textmap/internal/host/termhost"
	"github.com/dshills/textmap/internal/renderer/backend"
	"github.com/dshills/textmap/internal/textmap/core"
	"github.com/dshills/textmap/internal/watcher"
)

func newViewCommand(st *state) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Browse a file with the overview panel",
		Long: `Open FILE in a terminal viewer with the overview on the right.

Keys: j/k and arrows scroll, space/b page, g/G jump, / search, n next match,
r accept the current text as the baseline, q quit. Click or drag the
overview to jump, scroll over it to page.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), st, args[0], watch)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the file when it changes")
	return cmd
}

func runView(ctx context.Context, st *state, path string, watch bool) error {
	// Logs go to the file only; the terminal is taken.
	log, err := st.logger(nil)
	if err != nil {
		return err
	}
	cfg, err := st.settings.Engine()
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	text, err := readText(abs)
	if err != nil {
		return err
	}
	doc := memdoc.New(text, memdoc.WithID(core.DocumentID(abs)))
	if err := applyTheme(doc, st.settings.Theme); err != nil {
		return err
	}

	term, err := backend.NewTerminal()
	if err != nil {
		return fmt.Errorf("create terminal: %w", err)
	}
	app, err := termhost.New(term, doc, termhost.Options{
		Name:       filepath.Base(abs),
		PanelWidth: st.settings.Panel.Width,
		Config:     cfg,
		Logger:     log,
	})
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watch {
		w, err := watcher.New(abs)
		if err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		defer w.Close()
		go follow(w, app, log)
	}

	return app.Run(ctx)
}

// follow reloads the file into the viewer on every change until the
// watcher is closed.
func follow(w *watcher.FileWatcher, app *termhost.App, log zerolog.Logger) {
	events, errs := w.Events(), w.Errors()
	for events != nil || errs != nil {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			data, err := os.ReadFile(ev.Path)
			if err != nil {
				// Mid-save: the next event brings the new file
				if !errors.Is(err, os.ErrNotExist) {
					log.Warn().Err(err).Str("path", ev.Path).Msg("reload failed")
				}
				continue
			}
			if !app.Reload(string(data)) {
				log.Warn().Str("path", ev.Path).Msg("reload dropped: event queue full")
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}
