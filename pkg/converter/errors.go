package converter

import (
	"errors"
	"fmt"

	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/freetrade"
)

var (
	// ErrMissingField matches every *MissingFieldError.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidCombination matches every *InvalidCombinationError.
	ErrInvalidCombination = errors.New("invalid field combination")
)

// MissingFieldError reports a field required by the record's kind that is absent.
type MissingFieldError struct {
	Kind  freetrade.Kind
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s record: %v: %s", e.Kind, ErrMissingField, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// InvalidCombinationError reports a record whose fields contradict its kind,
// such as an order without a direction or a kind outside the known set.
type InvalidCombinationError struct {
	Kind   freetrade.Kind
	Field  string // may be empty
	Reason string
}

func (e *InvalidCombinationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s record: %v: %s", e.Kind, ErrInvalidCombination, e.Reason)
	}
	return fmt.Sprintf("%s record: %v: %s: %s", e.Kind, ErrInvalidCombination, e.Field, e.Reason)
}

func (e *InvalidCombinationError) Unwrap() error { return ErrInvalidCombination }
