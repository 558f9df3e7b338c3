package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/scorecard"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("resource not found")
	ErrConflict            = errors.New("conflict")
	ErrValidation          = errors.New("validation failed")
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrDataShapeUnrecognized matches every scorecard decode shape error.
	ErrDataShapeUnrecognized = scorecard.ErrUnrecognizedShape
)

// ValidationReason is the machine-readable cause of a rejected submission.
type ValidationReason string

const (
	ReasonSquadSize       ValidationReason = "squad_size"
	ReasonDuplicatePlayer ValidationReason = "duplicate_player"
	ReasonLockoutWindow   ValidationReason = "lockout_window"
	ReasonMatchStarted    ValidationReason = "match_started"
	ReasonUnknownPlayer   ValidationReason = "unknown_player"
	ReasonCaptaincy       ValidationReason = "captaincy"
	ReasonSuperSub        ValidationReason = "super_sub"
	ReasonBudget          ValidationReason = "budget"
	ReasonCountryCap      ValidationReason = "country_cap"
	ReasonRoleBand        ValidationReason = "role_band"
	ReasonTransferLimit   ValidationReason = "transfer_limit"
	ReasonRoundOrder      ValidationReason = "round_order"
)

type ValidationError struct {
	Reason  ValidationReason
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Reason, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(reason ValidationReason, format string, args ...any) error {
	return &ValidationError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// ValidationReasonOf extracts the reason from a wrapped ValidationError.
func ValidationReasonOf(err error) (ValidationReason, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Reason, true
	}
	return "", false
}
