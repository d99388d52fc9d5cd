package booking

import "errors"

// errors used by controllers

type ErrCode string

const (
	ErrCarNotFound          ErrCode = "CAR_NOT_FOUND"
	ErrCarUnavailable       ErrCode = "CAR_UNAVAILABLE"
	ErrBookingNotFound      ErrCode = "BOOKING_NOT_FOUND"
	ErrNotOwner             ErrCode = "NOT_OWNER"
	ErrUserNotFound         ErrCode = "USER_NOT_FOUND"
	ErrInvalidDates         ErrCode = "INVALID_DATES"
	ErrInvalidLocation      ErrCode = "INVALID_LOCATION"
	ErrInvalidPayment       ErrCode = "INVALID_PAYMENT_METHOD"
	ErrVerificationRequired ErrCode = "VERIFICATION_REQUIRED"
	ErrAlreadyCancelled     ErrCode = "ALREADY_CANCELLED"
	ErrBadTransition        ErrCode = "BAD_TRANSITION"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts the error code, or "" for uncoded errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}
