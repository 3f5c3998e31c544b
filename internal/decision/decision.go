// Package decision defines the remediation decision enum and the
// restrictiveness lattice used to merge independent recommendations.
//
// Every override rule in the engine moves a decision to an equal-or-higher
// ordinal through MoreRestrictive; no component ever assigns a less
// restrictive decision than one already chosen upstream.
package decision

// Decision is the remediation outcome for a triaged incident.
type Decision string

const (
	AutoClose   Decision = "auto_close"
	UpdateOnly  Decision = "update_only"
	AutoRetry   Decision = "auto_retry"
	Escalate    Decision = "escalate"
	HumanReview Decision = "human_review"
)

// maxOrdinal is the ordinal assigned to unrecognized decision values so
// that malformed input always merges as maximally restrictive.
const maxOrdinal = 4

var ordinals = map[Decision]int{
	AutoClose:   0,
	UpdateOnly:  1,
	AutoRetry:   2,
	Escalate:    3,
	HumanReview: 4,
}

// String returns the string representation of the decision.
func (d Decision) String() string {
	return string(d)
}

// IsValid checks whether the decision is one of the known outcomes.
func (d Decision) IsValid() bool {
	_, ok := ordinals[d]
	return ok
}

// Ordinal returns the restrictiveness rank of the decision. Unknown values
// rank as maximally restrictive.
func (d Decision) Ordinal() int {
	if o, ok := ordinals[d]; ok {
		return o
	}
	return maxOrdinal
}

// All returns the known decisions in ascending restrictiveness order.
func All() []Decision {
	return []Decision{AutoClose, UpdateOnly, AutoRetry, Escalate, HumanReview}
}

// MoreRestrictive returns whichever of the two decisions ranks higher on
// the restrictiveness lattice. Ties return the left operand.
func MoreRestrictive(left, right Decision) Decision {
	if left.Ordinal() >= right.Ordinal() {
		return left
	}
	return right
}
