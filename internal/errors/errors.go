package errors

import stderrors "errors"

// Error kinds surfaced by the dashboards. Adapters wrap the underlying cause with
// one of these so callers can branch with errors.Is.
var (
	ErrSourceUnavailable    = stderrors.New("listings source unavailable")
	ErrStoreUnavailable     = stderrors.New("ledger store unavailable")
	ErrInvalidSortKey       = stderrors.New("invalid sort key")
	ErrInvalidCurrency      = stderrors.New("invalid currency")
	ErrAuthenticationFailed = stderrors.New("incorrect username & password")
)

type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Field + ": " + e.Message
}

// IsValidation reports whether err carries an *ErrValidation or one of the
// enum rejection kinds, all of which are caller mistakes.
func IsValidation(err error) bool {
	var v *ErrValidation
	if stderrors.As(err, &v) {
		return true
	}
	return stderrors.Is(err, ErrInvalidSortKey) || stderrors.Is(err, ErrInvalidCurrency)
}
