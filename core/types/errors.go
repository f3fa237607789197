package types

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds returned by the normalizer, planner, aggregator and encoders.
// Match them with errors.Is; use errors.As with *OrderError for the offending index.
var (
	ErrMalformedOrder        = errors.New("malformed order")
	ErrUnsupportedOrderShape = errors.New("unsupported order shape")
	ErrValueOverflow         = errors.New("value overflow")
	ErrEncodingMismatch      = errors.New("encoding mismatch")
	ErrEmptyBatch            = errors.New("empty batch")
	ErrInvalidParams         = errors.New("invalid batch parameters")
)

// NoIndex marks an OrderError that concerns the batch as a whole
const NoIndex = -1

// OrderError reports which order of a batch caused a failure
type OrderError struct {
	Kind      error
	Index     int
	OrderHash string
	Field     string
	Reason    string
}

func (e *OrderError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Index != NoIndex {
		fmt.Fprintf(&b, " at index %d", e.Index)
	}
	if e.OrderHash != "" {
		fmt.Fprintf(&b, " (order %s)", e.OrderHash)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %s", e.Field)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

func (e *OrderError) Unwrap() error {
	return e.Kind
}

// FieldError is returned by the Validate methods of order data.
// Field uses the wire (json) name of the offending field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("field %s is required", e.Field)
	}
	return fmt.Sprintf("field %s: %s", e.Field, e.Reason)
}

func MalformedOrder(index int, orderHash, field, reason string) *OrderError {
	return &OrderError{Kind: ErrMalformedOrder, Index: index, OrderHash: orderHash, Field: field, Reason: reason}
}

// MalformedOrderFrom converts a validation error into a MalformedOrder for the given index
func MalformedOrderFrom(index int, orderHash string, err error) *OrderError {
	var fe *FieldError
	if errors.As(err, &fe) {
		return MalformedOrder(index, orderHash, fe.Field, fe.Reason)
	}
	return MalformedOrder(index, orderHash, "", err.Error())
}

func UnsupportedShape(index int, orderHash, format string, args ...any) *OrderError {
	return &OrderError{Kind: ErrUnsupportedOrderShape, Index: index, OrderHash: orderHash, Reason: fmt.Sprintf(format, args...)}
}

func EncodingMismatch(index int, orderHash, format string, args ...any) *OrderError {
	return &OrderError{Kind: ErrEncodingMismatch, Index: index, OrderHash: orderHash, Reason: fmt.Sprintf(format, args...)}
}

func ValueOverflow(index int, orderHash, format string, args ...any) *OrderError {
	return &OrderError{Kind: ErrValueOverflow, Index: index, OrderHash: orderHash, Reason: fmt.Sprintf(format, args...)}
}
