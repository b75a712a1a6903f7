// Package errs defines sentinel errors shared across strata packages.
//
// Errors are plain sentinels intended to be wrapped with additional context
// via fmt.Errorf("%w: ...", err) and matched with errors.Is.
package errs

import "errors"

// Header errors.
var (
	// ErrInvalidHeaderSize indicates a block header buffer with the wrong size.
	ErrInvalidHeaderSize = errors.New("invalid header size")

	// ErrInvalidHeaderFlags indicates a block header with corrupted or
	// unsupported flag bits, typically a bad magic number.
	ErrInvalidHeaderFlags = errors.New("invalid header flags")

	// ErrInvalidEncodingType indicates an unsupported value encoding type.
	ErrInvalidEncodingType = errors.New("invalid encoding type")

	// ErrInvalidCompressionType indicates an unsupported compression type.
	ErrInvalidCompressionType = errors.New("invalid compression type")
)

// Block errors.
var (
	// ErrInvalidBlockCapacity indicates a block capacity outside the
	// supported range.
	ErrInvalidBlockCapacity = errors.New("invalid block capacity")

	// ErrBlockSealed indicates a mutating operation on a sealed block.
	ErrBlockSealed = errors.New("block already sealed")

	// ErrBlockNotSealed indicates an operation that requires a sealed block,
	// such as persisting or reading back the encoded payload.
	ErrBlockNotSealed = errors.New("block not sealed")

	// ErrBlockCorrupted indicates a block payload that cannot be decoded,
	// e.g. the payload ends before the declared value count is reached.
	ErrBlockCorrupted = errors.New("block corrupted")
)

// Series and engine errors.
var (
	// ErrInvalidSeriesName indicates an empty or malformed series name.
	ErrInvalidSeriesName = errors.New("invalid series name")

	// ErrSeriesClosed indicates an operation on a closed series.
	ErrSeriesClosed = errors.New("series closed")

	// ErrSeriesNotOpen indicates an operation on a series that has not
	// completed opening yet.
	ErrSeriesNotOpen = errors.New("series not open")

	// ErrEngineShutdown indicates an operation on an engine after Shutdown.
	ErrEngineShutdown = errors.New("engine shut down")
)

// Store errors.
var (
	// ErrStoreShutdown indicates an operation submitted to a store after
	// Shutdown.
	ErrStoreShutdown = errors.New("store shut down")

	// ErrUnsupportedOperation indicates an operation the backend
	// deliberately does not implement.
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// Data frame errors.
var (
	// ErrInvalidFrameVersion indicates a data frame document with an
	// unsupported format version.
	ErrInvalidFrameVersion = errors.New("invalid data frame version")

	// ErrFrameTooLarge indicates a data frame document exceeding the
	// caller-supplied size bound.
	ErrFrameTooLarge = errors.New("data frame too large")
)
