package booking

import "errors"

var (
	// ErrNotFound covers both absent appointments and appointments owned
	// by someone else; callers cannot tell the two apart.
	ErrNotFound = errors.New("appointment not found")

	// ErrSlotTaken is returned by the repository when the store's
	// uniqueness constraint rejects a write. Losers of a booking race get
	// the same rejection as callers caught by the pre-check.
	ErrSlotTaken = errors.New("slot not available")
)

// ValidationError reports missing or malformed request fields.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// RuleError reports a violated booking rule. Every rule carries its own
// user-facing message so rejections are precise and enumerable.
type RuleError struct {
	Message string
}

func (e *RuleError) Error() string { return e.Message }
