// Package downsample fits a document into a fixed pixel height.
//
// The downsampler first picks the largest font scale at which the document
// is at most twice the number of lines that fit, then, if it still does not
// fit, elides the lowest-scoring lines. Scores are derived from a content
// hash so that thinning is even across the document and stable between
// redraws of unchanged text. Line 0 and flagged lines outrank everything
// else.
package downsample

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"sort"

	"github.com/dshills/textmap/internal/textmap/core"
)

// Errors returned by New.
var (
	ErrInvalidScale  = errors.New("invalid font scale range")
	ErrInvalidFactor = errors.New("invalid line height factor")
)

// Default configuration values.
const (
	DefaultMinScale         = 2
	DefaultMaxScale         = 3
	DefaultLineHeightFactor = 0.85
)

const (
	scoreFirst   = math.MaxUint64
	scoreFlagged = math.MaxUint64 / 2
)

// Config configures scale selection.
type Config struct {
	// MinScale is the smallest font scale ever used.
	MinScale int

	// MaxScale is the largest font scale, used when the document fits.
	MaxScale int

	// LineHeightFactor relates font scale to rendered line pitch in pixels.
	LineHeightFactor float64
}

// DefaultConfig returns the default downsampler configuration.
func DefaultConfig() Config {
	return Config{
		MinScale:         DefaultMinScale,
		MaxScale:         DefaultMaxScale,
		LineHeightFactor: DefaultLineHeightFactor,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.MinScale <= 0 || c.MaxScale <= 0 {
		return fmt.Errorf("%w: scales must be positive (min %d, max %d)", ErrInvalidScale, c.MinScale, c.MaxScale)
	}
	if c.MinScale > c.MaxScale {
		return fmt.Errorf("%w: min %d exceeds max %d", ErrInvalidScale, c.MinScale, c.MaxScale)
	}
	if !(c.LineHeightFactor > 0) || math.IsInf(c.LineHeightFactor, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidFactor, c.LineHeightFactor)
	}
	return nil
}

// Result is the outcome of a selection.
type Result struct {
	// Lines are the surviving lines in document order.
	Lines []core.Line

	// Scale is the chosen font scale.
	Scale int

	// Elided reports whether any line was dropped.
	Elided bool
}

// Downsampler selects the scale and the visible subset of a document.
type Downsampler struct {
	config Config
}

// New creates a downsampler. The configuration is validated eagerly.
func New(cfg Config) (*Downsampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Downsampler{config: cfg}, nil
}

// Config returns the downsampler configuration.
func (d *Downsampler) Config() Config {
	return d.config
}

// MaxLines returns how many lines of the given scale fit in height pixels.
func (d *Downsampler) MaxLines(height float64, scale int) float64 {
	return height / (d.config.LineHeightFactor * float64(scale))
}

// Scale returns the largest scale at which n lines are fewer than twice the
// capacity, or MinScale when none qualifies.
func (d *Downsampler) Scale(n int, height float64) int {
	for s := d.config.MaxScale; s >= d.config.MinScale; s-- {
		if float64(n) < 2*d.MaxLines(height, s) {
			return s
		}
	}
	return d.config.MinScale
}

// Select fits lines into height pixels. The input slice is not reordered;
// the result may share its backing array when nothing is elided.
func (d *Downsampler) Select(lines []core.Line, height float64) Result {
	n := len(lines)
	if n == 0 {
		return Result{Scale: d.config.MaxScale}
	}

	scale := d.Scale(n, height)
	capacity := d.MaxLines(height, scale)
	if float64(n) <= capacity {
		return Result{Lines: lines, Scale: scale}
	}

	drop := int(math.Ceil(float64(n) - capacity))
	if drop > n-1 {
		drop = n - 1
	}

	order := make([]int, n)
	scores := make([]uint64, n)
	for i := range lines {
		order[i] = i
		scores[i] = score(i, lines[i])
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] < scores[order[b]]
	})

	keep := order[drop:]
	sort.Ints(keep)

	out := make([]core.Line, len(keep))
	for i, idx := range keep {
		out[i] = lines[idx]
	}
	return Result{Lines: out, Scale: scale, Elided: true}
}

// score ranks a line for elision; lower scores are dropped first.
func score(pos int, l core.Line) uint64 {
	if pos == 0 {
		return scoreFirst
	}
	if l.Flagged() {
		return scoreFlagged
	}
	return Hash(l.Raw) % scoreFlagged
}

// Hash returns the 64-bit FNV-1a hash of s.
func Hash(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
