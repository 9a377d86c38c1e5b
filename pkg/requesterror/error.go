package requesterror

import (
	"fmt"
)

type FetchError struct {
	URL string
	Err error
}

type ProcessError struct {
	Command string
	Stderr  string
}

type ParseError struct {
	Field string
}

// PriceRejectedError is internal to the negotiator: it drives the price
// retry loop and is never surfaced to a caller.
type PriceRejectedError struct {
	AskingPrice uint64
	Diagnostic  string
}

type DealError struct {
	Diagnostic string
}

type RetriesExhaustedError struct {
	Attempts       int
	LastDiagnostic string
}

func (e FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %s", e.URL, e.Err)
}

func (e FetchError) Unwrap() error {
	return e.Err
}

func (e ProcessError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Command, e.Stderr)
}

func (e ParseError) Error() string {
	return fmt.Sprintf("failed to resolve %s", e.Field)
}

func (e PriceRejectedError) Error() string {
	return fmt.Sprintf("offered price rejected, provider asking %d", e.AskingPrice)
}

func (e DealError) Error() string {
	return e.Diagnostic
}

func (e RetriesExhaustedError) Error() string {
	return fmt.Sprintf("no deal after %d attempts: %s", e.Attempts, e.LastDiagnostic)
}
