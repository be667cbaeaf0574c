package engine

import (
	"errors"
	"fmt"
)

// Reason is a machine-readable code explaining why a move was rejected.
type Reason string

const (
	ReasonIllegalRank   Reason = "illegal_rank"
	ReasonWrongSuit     Reason = "wrong_suit"
	ReasonNotTopOfPile  Reason = "not_top_of_pile"
	ReasonSamePile      Reason = "same_pile_noop"
	ReasonEmptySource   Reason = "empty_source"
	ReasonFaceDown      Reason = "face_down"
	ReasonInvalidIndex  Reason = "invalid_index"
	ReasonNothingToUndo Reason = "nothing_to_undo"
	ReasonNotApplicable Reason = "not_applicable"
)

// RejectedError reports a move the engine refused. The state it was applied to
// is returned unchanged alongside it.
type RejectedError struct {
	Reason Reason
	Move   Move
	Detail string
}

func (e *RejectedError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("move %s rejected: %s: %s", e.Move, e.Reason, e.Detail)
	}
	return fmt.Sprintf("move %s rejected: %s", e.Move, e.Reason)
}

// Is matches any RejectedError carrying the same reason, so the Err* values
// below work with errors.Is.
func (e *RejectedError) Is(target error) bool {
	t, ok := target.(*RejectedError)
	if !ok {
		return false
	}
	return t.Reason == e.Reason
}

var (
	ErrIllegalRank   = &RejectedError{Reason: ReasonIllegalRank}
	ErrWrongSuit     = &RejectedError{Reason: ReasonWrongSuit}
	ErrNotTopOfPile  = &RejectedError{Reason: ReasonNotTopOfPile}
	ErrSamePile      = &RejectedError{Reason: ReasonSamePile}
	ErrEmptySource   = &RejectedError{Reason: ReasonEmptySource}
	ErrFaceDown      = &RejectedError{Reason: ReasonFaceDown}
	ErrInvalidIndex  = &RejectedError{Reason: ReasonInvalidIndex}
	ErrNothingToUndo = &RejectedError{Reason: ReasonNothingToUndo}
	ErrNotApplicable = &RejectedError{Reason: ReasonNotApplicable}
)

func reject(m Move, reason Reason, format string, args ...any) *RejectedError {
	return &RejectedError{Reason: reason, Move: m, Detail: fmt.Sprintf(format, args...)}
}

// RejectionReason extracts the reason from err, if err is a rejection.
func RejectionReason(err error) (Reason, bool) {
	var re *RejectedError
	if !errors.As(err, &re) {
		return "", false
	}
	return re.Reason, true
}
