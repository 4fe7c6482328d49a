package core

import (
	"errors"
	"fmt"
)

var (
	ErrMissingToken  = errors.New("telegram bot token is not set")
	ErrMissingChatID = errors.New("telegram chat id is not set")
)

// NetworkError wraps a transport failure while talking to the listing
// source. Transient: the tick is skipped and the loop retries on the
// next timer fire.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError indicates the listing source answered with a shape we do
// not recognize. The parser fails closed rather than guessing.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected response from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DeliveryError wraps a failed message send. The message is dropped,
// not retried, to avoid duplicate floods.
type DeliveryError struct {
	Boost Boost
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failed for %s: %v", e.Boost.TokenAddress, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
