package fetcher

import "errors"

var (
	// ErrUnexpectedStatus indicates the catalog host answered with a status
	// other than 200.
	ErrUnexpectedStatus = errors.New("unexpected status from catalog host")

	// ErrSuperseded indicates a newer reload started before this one could
	// publish. The superseded reload leaves no trace.
	ErrSuperseded = errors.New("reload superseded by a newer request")

	// ErrNoMetadata indicates the metadata file could not be decoded.
	ErrNoMetadata = errors.New("catalog metadata unavailable")
)
