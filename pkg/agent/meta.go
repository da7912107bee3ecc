package agent

import "github.com/parleyhq/parley/pkg/types"

// Inter-agent context accessors.
//
// The triage agent records its classification and routing decisions on the
// request's RequestMeta so the delegated agent (and the caller, afterwards)
// can inspect them. The classification field is dynamically typed because
// the registry holds agents for arbitrary category types; these helpers give
// readers a typed view. All accessors are advisory: missing or mistyped
// values read as (zero, false) rather than failing.

// ClassificationFrom returns the classification recorded on req as a T.
// ok is false when no classification was recorded or it is not a T.
func ClassificationFrom[T comparable](req *types.ChatRequest) (T, bool) {
	var zero T
	if req == nil || req.Meta.Classification == nil {
		return zero, false
	}
	v, ok := req.Meta.Classification.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// PreviousResultFrom returns the previous-result slot on req as a T.
// ok is false when the slot is empty or holds a different type.
func PreviousResultFrom[T any](req *types.ChatRequest) (T, bool) {
	var zero T
	if req == nil || req.Meta.PreviousResult == nil {
		return zero, false
	}
	v, ok := req.Meta.PreviousResult.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
