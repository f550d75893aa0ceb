package builder

import "errors"

var (
	// ErrBadFormat indicates a file is not a string list or a keys/values
	// object.
	ErrBadFormat = errors.New("unrecognized pool file format")

	// ErrMalformedTuple indicates a value tuple of the wrong arity or with a
	// field of the wrong JSON type.
	ErrMalformedTuple = errors.New("malformed tuple")

	// ErrIndexOutOfRange indicates a foreign key that is neither -1 nor a
	// valid index into its target pool.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrBadSlice indicates a subject's [start,end) course window is
	// decreasing or outside the course pool.
	ErrBadSlice = errors.New("invalid course slice")

	// ErrMissingAsset indicates a manifest file was absent from the raw set.
	ErrMissingAsset = errors.New("missing asset")
)
