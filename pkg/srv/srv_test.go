package srv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name  string
	order *[]string
	err   error
	live  bool
}

func (r *recorder) Start(ctx context.Context) error {
	return nil
}

func (r *recorder) Shutdown(ctx context.Context) error {
	r.live = ctx.Err() == nil
	*r.order = append(*r.order, r.name)
	return r.err
}

func TestShutdownServices_ReverseOrder(t *testing.T) {
	t.Parallel()

	var order []string
	first := &recorder{name: "first", order: &order}
	second := &recorder{name: "second", order: &order, err: errors.New("boom")}
	cleanup := NewCleanup(func() error {
		order = append(order, "cleanup")
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ShutdownServices(ctx, []Service{first, second, cleanup})

	assert.Equal(t, []string{"cleanup", "second", "first"}, order)
	assert.True(t, first.live, "shutdown context must not inherit cancellation")
}
