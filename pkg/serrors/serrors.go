package serrors

import "fmt"

// Base is a machine-readable error carried across service boundaries. Code is
// stable and safe to expose in API envelopes; Message is a human fallback.
type Base struct {
	Code    string
	Message string
	Details string
}

func (e *Base) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
}

func NewError(code, message, details string) *Base {
	return &Base{Code: code, Message: message, Details: details}
}

// WithDetails returns a copy carrying request-specific details. The copy still
// matches the original via errors.Is.
func (e *Base) WithDetails(format string, args ...any) *Base {
	return &Base{Code: e.Code, Message: e.Message, Details: fmt.Sprintf(format, args...)}
}

func (e *Base) Is(target error) bool {
	t, ok := target.(*Base)
	if !ok {
		return false
	}
	return t.Code == e.Code
}
