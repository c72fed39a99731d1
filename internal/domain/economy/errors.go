package economy

import (
	"errors"
	"fmt"
)

var (
	ErrMarketSaturated    = errors.New("market saturated")
	ErrInsufficientMarket = errors.New("insufficient market share remaining")
	ErrPersonNotFound     = errors.New("person not found")
	ErrBusinessNotFound   = errors.New("business not found")
	ErrUnknownRule        = errors.New("unknown rule")
)

type Severity int

const (
	SeverityWarning Severity = iota
	SeverityDanger
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityDanger:
		return "danger"
	default:
		return "fatal"
	}
}

// SimError is a runtime condition raised while ticking or handling a
// command. Warning and Danger let the loop continue, Fatal stops it.
type SimError struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"error"`
	Err      error    `json:"-"`
}

func (e *SimError) Error() string {
	return e.Message
}

func (e *SimError) Unwrap() error {
	return e.Err
}

func Warningf(format string, args ...any) error {
	return newSimError(SeverityWarning, format, args...)
}

func Dangerf(format string, args ...any) error {
	return newSimError(SeverityDanger, format, args...)
}

func Fatalf(format string, args ...any) error {
	return newSimError(SeverityFatal, format, args...)
}

func newSimError(sev Severity, format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	return &SimError{Severity: sev, Message: err.Error(), Err: errors.Unwrap(err)}
}

// SeverityOf classifies err; anything that is not a SimError is Fatal.
func SeverityOf(err error) Severity {
	var se *SimError
	if errors.As(err, &se) {
		return se.Severity
	}
	return SeverityFatal
}

func IsFatal(err error) bool {
	return err != nil && SeverityOf(err) == SeverityFatal
}
