// Booking status state machine. Statuses only move forward:
// pending -> confirmed, pending|confirmed -> cancelled. Cancelled is
// terminal.
package booking

import (
	"time"

	"voom/model"
)

type Action string

const (
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
)

// Transition returns the status that applying action to current
// yields, or a coded error when the transition is illegal. A second
// cancel of an already cancelled booking reports ALREADY_CANCELLED so
// callers can surface a no-op notice instead of re-applying it.
func Transition(current model.BookingStatus, action Action) (model.BookingStatus, error) {
	switch action {
	case ActionConfirm:
		if current == model.BookingPending {
			return model.BookingConfirmed, nil
		}
		return current, makeErr(ErrBadTransition)
	case ActionCancel:
		switch current {
		case model.BookingPending, model.BookingConfirmed:
			return model.BookingCancelled, nil
		case model.BookingCancelled:
			return current, makeErr(ErrAlreadyCancelled)
		}
	}
	return current, makeErr(ErrBadTransition)
}

type RefundLevel string

const (
	RefundFull    RefundLevel = "full"
	RefundPartial RefundLevel = "partial"
)

const freeCancellationWindow = 24 * time.Hour

// RefundEligibility implements the cancellation policy: cancelling 24
// hours or more before pickup is fully refundable, later cancellations
// are refunded at 50%. Refund processing itself happens elsewhere;
// this only flags eligibility.
func RefundEligibility(start, now time.Time) RefundLevel {
	if start.Sub(now) >= freeCancellationWindow {
		return RefundFull
	}
	return RefundPartial
}
