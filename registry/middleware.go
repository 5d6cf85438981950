package registry

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dzonerzy/go-clasp/clasp"
)

// Middleware wraps a handler with cross-cutting behavior.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain is an ordered middleware list.
type Chain []Middleware

// Apply wraps a handler with the chain, first middleware outermost.
func (c Chain) Apply(h HandlerFunc) HandlerFunc {
	for i := len(c) - 1; i >= 0; i-- {
		h = c[i](h)
	}
	return h
}

// Use returns a new chain with the middleware appended.
func (c Chain) Use(mw ...Middleware) Chain {
	return append(c, mw...)
}

// Logger writes one line per dispatched command with its duration and
// outcome.
func Logger(w io.Writer) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, res *clasp.ResolvedValues) error {
			start := time.Now()
			err := next(ctx, res)
			status := "ok"
			if err != nil {
				status = "error: " + err.Error()
			}
			fmt.Fprintf(w, "%s %s (%s)\n", strings.Join(res.Path(), " "), status, time.Since(start).Round(time.Microsecond))
			return err
		}
	}
}

// PanicError carries a recovered handler panic.
type PanicError struct {
	Command string
	Value   any
	Stack   []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("command %q panicked: %v", e.Command, e.Value)
}

// Recovery converts handler panics into *PanicError so one plugin cannot
// take down the host.
func Recovery() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, res *clasp.ResolvedValues) (err error) {
			defer func() {
				if v := recover(); v != nil {
					err = &PanicError{Command: res.Command(), Value: v, Stack: debug.Stack()}
				}
			}()
			return next(ctx, res)
		}
	}
}

// Timeout cancels the handler's context after d.
func Timeout(d time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, res *clasp.ResolvedValues) error {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, res)
		}
	}
}
