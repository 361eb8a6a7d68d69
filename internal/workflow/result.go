// Package workflow sequences backend calls into the logical transactions
// behind each dashboard page: create-then-attach for licenses,
// create-or-patch-then-upload for knowledge bases, and the draft/save
// round-trip for the AI configuration.
package workflow

// SecondaryState describes what happened to the dependent step of a
// two-phase operation.
type SecondaryState int

const (
	// SecondarySkipped means there was nothing dependent to do (no files
	// selected, no knowledge bases picked) or the primary step failed
	// before the dependent step could start.
	SecondarySkipped SecondaryState = iota
	SecondaryOK
	SecondaryFailed
)

// Outcome is the combined result of a primary operation and an optional
// dependent one. There is no rollback: a failed secondary step leaves the
// primary step's effect in place and the outcome reads as partial success.
type Outcome struct {
	Primary      error
	Secondary    SecondaryState
	SecondaryErr error
}

// Failed reports whether the primary step failed; nothing dependent ran.
func (o Outcome) Failed() bool { return o.Primary != nil }

// Succeeded reports full success: primary ok, dependent step ok or skipped.
func (o Outcome) Succeeded() bool {
	return o.Primary == nil && o.Secondary != SecondaryFailed
}

// PartialSuccess reports that the primary step went through but the
// dependent step did not.
func (o Outcome) PartialSuccess() bool {
	return o.Primary == nil && o.Secondary == SecondaryFailed
}
