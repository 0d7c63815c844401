// Package console implements the blocking operator acknowledgment used
// while a human logs into the portal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrClosed is returned when input ends before the operator answers.
var ErrClosed = errors.New("console: input closed")

// Prompt writes a banner to Out and waits for a line on In.
type Prompt struct {
	In  io.Reader
	Out io.Writer
}

// NewPrompt returns a Prompt on the process's stdin and stdout.
func NewPrompt() *Prompt {
	return &Prompt{In: os.Stdin, Out: os.Stdout}
}

// Acknowledge prints banner and blocks until the operator presses Enter.
// There is no timeout; only ctx cancellation ends the wait early. The
// reader goroutine is left blocked on In in that case, which is fine for
// a process that is about to exit.
func (p *Prompt) Acknowledge(ctx context.Context, banner string) error {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(p.Out, "\n%s\n%s\n%s\n", rule, banner, rule)
	fmt.Fprint(p.Out, "Pressione ENTER após fazer o login: ")

	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(p.In).ReadString('\n')
		if errors.Is(err, io.EOF) {
			err = ErrClosed
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
