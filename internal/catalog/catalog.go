package catalog

import "context"

// Result is the outcome of a catalog lookup.
type Result int

const (
	NotFound Result = iota
	Found
	// Unreachable covers timeouts, transport failures and unexpected statuses.
	Unreachable
)

func (r Result) String() string {
	switch r {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case Unreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Validator reports whether an artwork exists in the external catalog.
// Exists never fails: any lookup problem is reported as false.
type Validator interface {
	Exists(ctx context.Context, externalID int64) bool
}

// Looker is an optional extension of Validator exposing why a lookup failed.
type Looker interface {
	Validator
	Lookup(ctx context.Context, externalID int64) Result
}
