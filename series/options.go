package series

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/djnz00/strata/errs"
	"github.com/djnz00/strata/format"
	"github.com/djnz00/strata/internal/options"
)

const (
	// DefaultBlockSize is the default payload capacity of one block.
	DefaultBlockSize = 8192

	// MinBlockSize bounds how small a block may be configured; a block
	// must at least hold one maximum-length encoded value.
	MinBlockSize = 16
)

// Option configures an Engine.
type Option = options.Option[*Engine]

// WithBlockSize sets the payload capacity, in bytes, of the blocks the
// engine builds. Larger blocks compress better; smaller blocks bound the
// replay window lost on a crash.
func WithBlockSize(size int) Option {
	return options.New(func(e *Engine) error {
		if size < MinBlockSize {
			return fmt.Errorf("%w: %d (minimum %d)", errs.ErrInvalidBlockCapacity, size, MinBlockSize)
		}
		e.blockSize = size

		return nil
	})
}

// WithEncoding sets the value encoding for new blocks. The default is
// delta-of-delta, which suits timestamps and monotonic sequence numbers.
func WithEncoding(encType format.EncodingType) Option {
	return options.New(func(e *Engine) error {
		if encType.String() == "Unknown" {
			return fmt.Errorf("%w: %v", errs.ErrInvalidEncodingType, encType)
		}
		e.encType = encType

		return nil
	})
}

// WithCompression sets the compression applied when blocks are persisted.
// The default is Zstd.
func WithCompression(compType format.CompressionType) Option {
	return options.New(func(e *Engine) error {
		if compType.String() == "Unknown" {
			return fmt.Errorf("%w: %v", errs.ErrInvalidCompressionType, compType)
		}
		e.compType = compType

		return nil
	})
}

// WithLogger sets the engine's structured logger. The default is
// slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return options.New(func(e *Engine) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		e.logger = logger

		return nil
	})
}

// WithStats enables a per-series order-statistics aggregator fed by every
// appended value, queryable through Series.Stats.
func WithStats(enable bool) Option {
	return options.NoError(func(e *Engine) {
		e.withStats = enable
	})
}
