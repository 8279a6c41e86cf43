package pipeline

import "errors"

// Errors returned by pipeline runs. Each kind maps to a distinct HTTP
// status at the API layer.
var (
	// ErrInvalidInput indicates neither a paper id nor paper text was
	// supplied.
	ErrInvalidInput = errors.New("either a paper id or paper text is required")

	// ErrEmptyContent indicates no usable text remained after excerpting.
	ErrEmptyContent = errors.New("paper content is empty after excerpting")

	// ErrNoCandidates indicates similarity search returned zero neighbors.
	ErrNoCandidates = errors.New("no similar papers found")

	// ErrAllScoringFailed indicates candidates were found but every
	// per-candidate scoring call failed.
	ErrAllScoringFailed = errors.New("scoring failed for every candidate")
)
