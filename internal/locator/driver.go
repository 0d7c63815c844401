package locator

import (
	"context"
	"errors"
)

var (
	// ErrTimeout is returned by a Driver when a bounded wait expires.
	ErrTimeout = errors.New("locator: timed out waiting for element")
	// ErrNoElement is returned by a Driver when a lookup that does not poll
	// finds no match for its selector.
	ErrNoElement = errors.New("locator: element not found")
)

// Driver is the slice of browser automation the locator needs. Lookups
// that wait (WaitPresent, Fill, Click, OuterHTML) are bounded by the
// driver's own element timeout and report expiry as ErrTimeout.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	WaitPresent(ctx context.Context, selector string) error
	// Fill clears the element's current value and types text into it.
	Fill(ctx context.Context, selector, text string) error
	Click(ctx context.Context, selector string) error
	OuterHTML(ctx context.Context, selector string) (string, error)
}
