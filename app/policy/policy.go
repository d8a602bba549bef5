package policy

import (
	"github.com/footwire/transferwatch/app/source"
)

// Decision is the outcome of evaluating one item. Clubs carries the catalog
// keys a notification should be formatted for when Post is true.
type Decision struct {
	Post       bool
	Clubs      []string
	Tier       int
	Confidence string
	Reason     string
}

// Policy turns an item into an accept/reject decision. Evaluation is total:
// malformed or empty items resolve to a reject, never an error.
type Policy interface {
	Evaluate(item source.Item) Decision
}
