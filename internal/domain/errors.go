package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrCapacityExceeded = errors.New("project place capacity exceeded")
	ErrDuplicateArtwork = errors.New("artwork already added to project")
	ErrArtworkNotFound  = errors.New("artwork not found in catalog")
)
