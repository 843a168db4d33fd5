package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/textmap/internal/host/memdoc"
	"github.com/dshills/textmap/internal/renderer/raster"
	"github.com/dshills/textmap/internal/textmap"
	"github.com/dshills/textmap/internal/textmap/core"
)

// Default PNG size in pixels.
const (
	defaultRenderWidth  = 120
	defaultRenderHeight = 600
)

type renderOptions struct {
	output   string
	width    int
	height   int
	search   string
	baseline string
	top      int
	bottom   int
}

func newRenderCommand(st *state) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render the overview of a file to PNG",
		Long: `Render the overview of FILE to a PNG image.

With --baseline, lines of FILE that differ from OLDFILE are highlighted as
changed. With --top and --bottom, the viewport indicator covers that line
range.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, st, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output PNG (default: FILE.png)")
	f.IntVar(&opts.width, "width", defaultRenderWidth, "image width in pixels")
	f.IntVar(&opts.height, "height", defaultRenderHeight, "image height in pixels")
	f.StringVar(&opts.search, "search", "", "highlight lines containing this text")
	f.StringVar(&opts.baseline, "baseline", "", "original version of FILE (`OLDFILE`)")
	f.IntVar(&opts.top, "top", -1, "first visible line, zero based")
	f.IntVar(&opts.bottom, "bottom", -1, "last visible line, zero based")
	return cmd
}

func runRender(cmd *cobra.Command, st *state, opts *renderOptions, path string) error {
	log, err := st.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cfg, err := st.settings.Engine()
	if err != nil {
		return err
	}

	current, err := readText(path)
	if err != nil {
		return err
	}
	original := current
	if opts.baseline != "" {
		if original, err = readText(opts.baseline); err != nil {
			return err
		}
	}

	doc := memdoc.New(original, memdoc.WithID(core.DocumentID(path)), memdoc.WithSearch(opts.search))
	if err := applyTheme(doc, st.settings.Theme); err != nil {
		return err
	}

	host := &staticHost{doc: doc, top: opts.top, bottom: opts.bottom}
	engine, err := textmap.New(host, cfg, textmap.WithLogger(log))
	if err != nil {
		return err
	}
	engine.Attach(doc)
	doc.SetText(current)

	canvas, err := raster.New(opts.width, opts.height)
	if err != nil {
		return err
	}
	engine.OnRedrawRequested(canvas)

	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
	}
	if err := writePNG(canvas, output); err != nil {
		return err
	}

	frame := engine.LastFrame()
	summary := fmt.Sprintf("wrote %s: %dx%d, scale %d, %d of %d lines, %d changed",
		output, frame.Width, frame.Height, frame.Scale, len(frame.Lines), frame.DocumentLines, frame.Changed())
	if frame.Elided {
		summary += ", elided"
	}
	fmt.Fprintln(cmd.OutOrStdout(), summary)
	return nil
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func writePNG(c *raster.Canvas, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return c.EncodePNG(f)
}

// staticHost shows one document with a fixed visible range.
type staticHost struct {
	doc         *memdoc.Document
	top, bottom int
}

func (h *staticHost) ActiveDocument() textmap.Document {
	return h.doc
}

// VisibleLineRange covers the whole document unless a range was given.
func (h *staticHost) VisibleLineRange() (int, int) {
	last := h.doc.LineCount() - 1
	top, bottom := h.top, h.bottom
	if top < 0 {
		top = 0
	}
	if bottom < 0 || bottom > last {
		bottom = last
	}
	return top, bottom
}

func (h *staticHost) ScrollTo(int, bool) {}

func (h *staticHost) RequestRepaint() {}
