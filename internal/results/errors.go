package results

import "errors"

var (
	// ErrNoRecommendations indicates a result with an empty recommendation list.
	ErrNoRecommendations = errors.New("result has no recommendations")
	// ErrUnknownKind indicates a result envelope with an unrecognized kind tag.
	ErrUnknownKind = errors.New("unknown result kind")
)
