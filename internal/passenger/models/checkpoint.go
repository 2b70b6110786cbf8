package models

import (
	dErrors "truida/pkg/domain-errors"
)

// Checkpoint is one of the three ordered clearance gates.
type Checkpoint string

const (
	CheckpointSecurity    Checkpoint = "security"
	CheckpointImmigration Checkpoint = "immigration"
	CheckpointBoarding    Checkpoint = "boarding"
)

// Sequence lists the gates in the order a passenger clears them.
var Sequence = []Checkpoint{CheckpointSecurity, CheckpointImmigration, CheckpointBoarding}

// ParseCheckpoint validates external input.
func ParseCheckpoint(s string) (Checkpoint, error) {
	c := Checkpoint(s)
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "unknown checkpoint "+s)
	}
	return c, nil
}

func (c Checkpoint) IsValid() bool {
	switch c {
	case CheckpointSecurity, CheckpointImmigration, CheckpointBoarding:
		return true
	}
	return false
}

func (c Checkpoint) String() string { return string(c) }

// Prerequisites returns the gates that must already be cleared before c.
func (c Checkpoint) Prerequisites() []Checkpoint {
	for i, gate := range Sequence {
		if gate == c {
			return Sequence[:i:i]
		}
	}
	return nil
}

// Checkpoints is a passenger's clearance progress. Flags only ever move from
// false to true, and boarding implies the other two.
type Checkpoints struct {
	Security    bool `json:"security"`
	Immigration bool `json:"immigration"`
	Boarding    bool `json:"boarding"`
}

// Cleared reports whether gate c has been passed.
func (cp Checkpoints) Cleared(c Checkpoint) bool {
	switch c {
	case CheckpointSecurity:
		return cp.Security
	case CheckpointImmigration:
		return cp.Immigration
	case CheckpointBoarding:
		return cp.Boarding
	}
	return false
}

// MissingFor returns the first uncleared prerequisite of c, if any.
func (cp Checkpoints) MissingFor(c Checkpoint) (Checkpoint, bool) {
	for _, p := range c.Prerequisites() {
		if !cp.Cleared(p) {
			return p, true
		}
	}
	return "", false
}

// Clear returns a copy with gate c set. It refuses to skip a prerequisite so no
// caller can build a state where boarding is set without the earlier gates.
func (cp Checkpoints) Clear(c Checkpoint) (Checkpoints, error) {
	if missing, ok := cp.MissingFor(c); ok {
		return cp, dErrors.New(dErrors.CodeInvariantViolation,
			"cannot clear "+c.String()+" before "+missing.String())
	}
	switch c {
	case CheckpointSecurity:
		cp.Security = true
	case CheckpointImmigration:
		cp.Immigration = true
	case CheckpointBoarding:
		cp.Boarding = true
	default:
		return cp, dErrors.New(dErrors.CodeValidation, "unknown checkpoint "+c.String())
	}
	return cp, nil
}

// Consistent reports whether the precedence invariant holds.
func (cp Checkpoints) Consistent() bool {
	if cp.Immigration && !cp.Security {
		return false
	}
	if cp.Boarding && !(cp.Security && cp.Immigration) {
		return false
	}
	return true
}
