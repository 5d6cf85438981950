package registry

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dzonerzy/go-clasp/clasp"
)

func greetPlugin(calls *[]string) *Plugin {
	return &Plugin{
		Name:        "greet",
		Version:     "1.0.0",
		Description: "Prints greetings",
		Mount: func(b *clasp.CommandBuilder) {
			b.Command("greet", "Prints greetings").
				StringFlag("name").Default("world").Back()
		},
		Run: func(ctx context.Context, res *clasp.ResolvedValues) error {
			*calls = append(*calls, "greet "+res.GetString("name"))
			return nil
		},
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := New()
	var calls []string
	require.NoError(t, r.Register(greetPlugin(&calls)))
	assert.Error(t, r.Register(greetPlugin(&calls)))
}

func TestRegisterRejectsIncomplete(t *testing.T) {
	r := New()
	assert.Error(t, r.Register(&Plugin{Name: "broken"}))
	assert.Error(t, r.Register(&Plugin{Mount: func(*clasp.CommandBuilder) {}, Run: nil}))
}

func TestMountAndDispatch(t *testing.T) {
	r := New()
	var calls []string
	require.NoError(t, r.Register(greetPlugin(&calls)))

	b := clasp.New("host", "Plugin host")
	r.MountAll(b)
	schema, err := b.Build()
	require.NoError(t, err)

	res, err := schema.Parse([]string{"greet", "--name", "gopher"}, clasp.WithEnv(nil))
	require.NoError(t, err)

	require.NoError(t, r.Dispatch(context.Background(), res))
	assert.Equal(t, []string{"greet gopher"}, calls)
}

func TestDispatchUnknownCommand(t *testing.T) {
	r := New()
	schema, err := clasp.New("host", "").Command("orphan", "").Back().Build()
	require.NoError(t, err)

	res, err := schema.Parse([]string{"orphan"}, clasp.WithEnv(nil))
	require.NoError(t, err)

	assert.Error(t, r.Dispatch(context.Background(), res))
}

func TestPluginsKeepRegistrationOrder(t *testing.T) {
	r := New()
	noop := func(b *clasp.CommandBuilder) {}
	run := func(ctx context.Context, res *clasp.ResolvedValues) error { return nil }
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Register(&Plugin{Name: name, Mount: noop, Run: run}))
	}

	var got []string
	for _, p := range r.Plugins() {
		got = append(got, p.Name)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, got)
}

func TestMiddlewareOrderAndLogger(t *testing.T) {
	r := New()
	var calls []string
	require.NoError(t, r.Register(greetPlugin(&calls)))

	var buf bytes.Buffer
	var order []string
	tag := func(name string) Middleware {
		return func(next HandlerFunc) HandlerFunc {
			return func(ctx context.Context, res *clasp.ResolvedValues) error {
				order = append(order, name)
				return next(ctx, res)
			}
		}
	}
	r.Use(tag("outer"), Logger(&buf), tag("inner"))

	b := clasp.New("host", "")
	r.MountAll(b)
	schema, err := b.Build()
	require.NoError(t, err)
	res, err := schema.Parse([]string{"greet"}, clasp.WithEnv(nil))
	require.NoError(t, err)

	require.NoError(t, r.Dispatch(context.Background(), res))
	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Contains(t, buf.String(), "host greet ok")
}

func TestRecoveryConvertsPanics(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(&Plugin{
		Name: "boom",
		Mount: func(b *clasp.CommandBuilder) {
			b.Command("boom", "").Back()
		},
		Run: func(ctx context.Context, res *clasp.ResolvedValues) error {
			panic("kaboom")
		},
	}))
	r.Use(Recovery())

	b := clasp.New("host", "")
	r.MountAll(b)
	schema, err := b.Build()
	require.NoError(t, err)
	res, err := schema.Parse([]string{"boom"}, clasp.WithEnv(nil))
	require.NoError(t, err)

	err = r.Dispatch(context.Background(), res)
	var perr *PanicError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "boom", perr.Command)
	assert.Equal(t, "kaboom", perr.Value)
	assert.NotEmpty(t, perr.Stack)
}

func TestTimeoutCancelsContext(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(&Plugin{
		Name: "slow",
		Mount: func(b *clasp.CommandBuilder) {
			b.Command("slow", "").Back()
		},
		Run: func(ctx context.Context, res *clasp.ResolvedValues) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(5 * time.Second):
				return nil
			}
		},
	}))
	r.Use(Timeout(10 * time.Millisecond))

	b := clasp.New("host", "")
	r.MountAll(b)
	schema, err := b.Build()
	require.NoError(t, err)
	res, err := schema.Parse([]string{"slow"}, clasp.WithEnv(nil))
	require.NoError(t, err)

	err = r.Dispatch(context.Background(), res)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}