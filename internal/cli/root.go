// Package cli implements the textmap command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dshills/textmap/internal/config"
	"github.com/dshills/textmap/internal/host/memdoc"
	"github.com/dshills/textmap/internal/logging"
	"github.com/dshills/textmap/internal/textmap/theme"
)

// state is shared by the commands of one invocation.
type state struct {
	cfgFile  string
	logLevel string
	logFile  string

	settings *config.Settings
	closers  []func()
}

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	st := &state{}

	root := &cobra.Command{
		Use:           "textmap",
		Short:         "Document overview renderer",
		Long:          `Render a miniature overview of a text document, with edited lines and search matches highlighted.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			st.close()
		},
	}

	root.PersistentFlags().StringVarP(&st.cfgFile, "config", "c", "",
		"config file (.toml or .yaml)")
	root.PersistentFlags().StringVar(&st.logLevel, "log-level", "",
		"log level: trace, debug, info, warn, error")
	root.PersistentFlags().StringVar(&st.logFile, "log-file", "",
		"write JSON logs to this file")

	root.AddCommand(newRenderCommand(st))
	root.AddCommand(newViewCommand(st))
	root.AddCommand(newVersionCommand(version))
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(version string) int {
	root := NewRootCommand(version)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// load reads the settings and applies flag overrides.
func (st *state) load(cmd *cobra.Command) error {
	settings, err := config.Load(config.Options{Path: st.cfgFile})
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		settings.Logging.Level = st.logLevel
	}
	if cmd.Flags().Changed("log-file") {
		settings.Logging.File = st.logFile
	}
	st.settings = settings
	return nil
}

// logger returns the logger for a command. Without a log file, console
// receives human-readable output; a nil console discards it.
func (st *state) logger(console io.Writer) (zerolog.Logger, error) {
	lg := st.settings.Logging
	if lg.File == "" && console != nil {
		return logging.NewConsole(lg.Level, console)
	}
	l, closer, err := logging.New(lg.Level, lg.File)
	if err != nil {
		return l, err
	}
	st.closers = append(st.closers, closer)
	return l, nil
}

func (st *state) close() {
	for _, c := range st.closers {
		c()
	}
	st.closers = nil
}

// applyTheme sets the document colors from the theme settings. Explicit
// colors win over a named style.
func applyTheme(doc *memdoc.Document, t config.ThemeSettings) error {
	if t.Foreground != "" || t.Background != "" {
		doc.SetTheme(t.Foreground, t.Background)
		return nil
	}
	if t.Name == "" {
		return nil
	}
	fg, bg, ok := theme.FromChroma(t.Name)
	if !ok {
		return fmt.Errorf("unknown theme %q", t.Name)
	}
	doc.SetTheme(fg, bg)
	return nil
}
