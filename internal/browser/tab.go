package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/suaplinks/internal/locator"
)

// Tab wraps the Rod page all lookups run in and implements locator.Driver.
// Each call gets its own deadline; expiry is reported as locator.ErrTimeout.
// Click and OuterHTML act on elements already rendered with the page and
// do not poll: a miss is reported as locator.ErrNoElement.
type Tab struct {
	page       *rod.Page
	elementTTL time.Duration
	navTTL     time.Duration
	logger     *slog.Logger
}

var _ locator.Driver = (*Tab)(nil)

// Navigate loads url and waits for the load event.
func (t *Tab) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, t.navTTL)
	defer cancel()

	p := t.page.Context(navCtx)
	if err := p.Navigate(url); err != nil {
		return translate(ctx, fmt.Errorf("browser: navigate %s: %w", url, err))
	}
	if err := p.WaitLoad(); err != nil {
		return translate(ctx, fmt.Errorf("browser: wait load %s: %w", url, err))
	}
	return nil
}

// WaitPresent waits until selector matches an element.
func (t *Tab) WaitPresent(ctx context.Context, selector string) error {
	return t.withElement(ctx, selector, true, nil)
}

// Fill empties the element's value and types text into it.
func (t *Tab) Fill(ctx context.Context, selector, text string) error {
	return t.withElement(ctx, selector, true, func(el *rod.Element) error {
		if _, err := el.Eval(`function () { this.value = '' }`); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
		if text == "" {
			return nil
		}
		return el.Input(text)
	})
}

// Click left-clicks the element once.
func (t *Tab) Click(ctx context.Context, selector string) error {
	return t.withElement(ctx, selector, false, func(el *rod.Element) error {
		return el.Click(proto.InputMouseButtonLeft, 1)
	})
}

// OuterHTML returns the serialised element, itself included.
func (t *Tab) OuterHTML(ctx context.Context, selector string) (string, error) {
	var out string
	err := t.withElement(ctx, selector, false, func(el *rod.Element) error {
		h, err := el.HTML()
		out = h
		return err
	})
	return out, err
}

func (t *Tab) withElement(ctx context.Context, selector string, wait bool, fn func(*rod.Element) error) error {
	elCtx, cancel := context.WithTimeout(ctx, t.elementTTL)
	defer cancel()

	p := t.page.Context(elCtx)
	if !wait {
		p = p.Sleeper(rod.NotFoundSleeper)
	}
	el, err := p.Element(selector)
	if err != nil {
		return translate(ctx, fmt.Errorf("browser: element %s: %w", selector, err))
	}
	if fn == nil {
		return nil
	}
	if err := fn(el); err != nil {
		return translate(ctx, fmt.Errorf("browser: element %s: %w", selector, err))
	}
	return nil
}

func (t *Tab) close() {
	if t.page == nil {
		return
	}
	if err := t.page.Close(); err != nil {
		t.logger.Debug("browser: close tab", "error", err)
	}
	t.page = nil
}

// translate maps an expired per-call deadline to locator.ErrTimeout and a
// non-polling miss to locator.ErrNoElement. When the caller's own context
// is done its error is kept so cancellation is not mistaken for a missing
// record.
func translate(parent context.Context, err error) error {
	if parent.Err() != nil {
		return err
	}
	var notFound *rod.ElementNotFoundError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", locator.ErrTimeout, err)
	case errors.As(err, &notFound):
		return fmt.Errorf("%w: %v", locator.ErrNoElement, err)
	}
	return err
}
