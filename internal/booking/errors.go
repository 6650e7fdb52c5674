package booking

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUserInput       Kind = "user_input"
	KindValidation      Kind = "validation"
	KindRemoteRejection Kind = "remote_rejection"
	KindTransport       Kind = "transport"
	KindProgrammer      Kind = "programmer"
)

// Code identifies a failure for the presentation layer to translate.
type Code string

const (
	CodeNoPackage             Code = "NO_PACKAGE"
	CodeUnknownLine           Code = "UNKNOWN_LINE"
	CodeQuantityInvalid       Code = "QUANTITY_INVALID"
	CodeQuantityTooHigh       Code = "QUANTITY_TOO_HIGH"
	CodeDateInvalid           Code = "DATE_INVALID"
	CodeDateUnavailable       Code = "DATE_UNAVAILABLE"
	CodeTimeInvalid           Code = "TIME_INVALID"
	CodePaymentMethodInvalid  Code = "PAYMENT_METHOD_INVALID"
	CodeDiscountEmpty         Code = "DISCOUNT_EMPTY"
	CodeDiscountInvalid       Code = "DISCOUNT_INVALID"
	CodeVoucherEmpty          Code = "VOUCHER_EMPTY"
	CodeVoucherAlreadyApplied Code = "VOUCHER_ALREADY_APPLIED"
	CodeVoucherInvalid        Code = "VOUCHER_INVALID"
	CodeNoProducts            Code = "NO_PRODUCTS"
	CodeBusy                  Code = "BUSY"
	CodeTransport             Code = "TRANSPORT_FAILED"
	CodeSubmitBlocked         Code = "SUBMIT_BLOCKED"
)

// Error is returned by every Session operation that fails.
type Error struct {
	Kind Kind
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same code, so the sentinels below work
// with errors.Is regardless of the wrapped cause.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrNoPackage             = &Error{Kind: KindUserInput, Code: CodeNoPackage}
	ErrUnknownLine           = &Error{Kind: KindUserInput, Code: CodeUnknownLine}
	ErrQuantityInvalid       = &Error{Kind: KindUserInput, Code: CodeQuantityInvalid}
	ErrQuantityTooHigh       = &Error{Kind: KindUserInput, Code: CodeQuantityTooHigh}
	ErrDateInvalid           = &Error{Kind: KindUserInput, Code: CodeDateInvalid}
	ErrDateUnavailable       = &Error{Kind: KindUserInput, Code: CodeDateUnavailable}
	ErrTimeInvalid           = &Error{Kind: KindUserInput, Code: CodeTimeInvalid}
	ErrPaymentMethodInvalid  = &Error{Kind: KindUserInput, Code: CodePaymentMethodInvalid}
	ErrDiscountEmpty         = &Error{Kind: KindUserInput, Code: CodeDiscountEmpty}
	ErrDiscountInvalid       = &Error{Kind: KindRemoteRejection, Code: CodeDiscountInvalid}
	ErrVoucherEmpty          = &Error{Kind: KindUserInput, Code: CodeVoucherEmpty}
	ErrVoucherAlreadyApplied = &Error{Kind: KindUserInput, Code: CodeVoucherAlreadyApplied}
	ErrVoucherInvalid        = &Error{Kind: KindRemoteRejection, Code: CodeVoucherInvalid}
	ErrNoProducts            = &Error{Kind: KindValidation, Code: CodeNoProducts}
	ErrBusy                  = &Error{Kind: KindUserInput, Code: CodeBusy}
	ErrTransport             = &Error{Kind: KindTransport, Code: CodeTransport}
	ErrSubmitBlocked         = &Error{Kind: KindProgrammer, Code: CodeSubmitBlocked}
)

func transportError(op string, err error) error {
	return &Error{Kind: KindTransport, Code: CodeTransport, Err: fmt.Errorf("%s: %w", op, err)}
}

// KindOf returns the kind of a booking error, or "" for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// CodeOf returns the code of a booking error, or "" for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
