package invocation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReceiver struct {
	got []Message
}

func (r *countingReceiver) Receive(msg Message) (Ack, error) {
	r.got = append(r.got, msg)
	return Ack{Status: StatusSuccess}, nil
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("non-target page", func(t *testing.T) {
		r := &countingReceiver{}
		_, err := Dispatch(ctx, Tab{URL: "https://example.com/watch?v=1"}, r, nil)
		assert.ErrorIs(t, err, ErrNotTargetSite)
		assert.Empty(t, r.got)
	})

	t.Run("not loaded", func(t *testing.T) {
		_, err := Dispatch(ctx, Tab{URL: watchURL}, nil, nil)
		assert.ErrorIs(t, err, ErrNotLoaded)

		var h *Handler
		_, err = Dispatch(ctx, Tab{URL: watchURL}, h, nil)
		assert.ErrorIs(t, err, ErrNotLoaded)
	})

	t.Run("delivered", func(t *testing.T) {
		r := &countingReceiver{}
		ack, err := Dispatch(ctx, Tab{URL: channelURL}, r, nil)
		require.NoError(t, err)
		assert.Equal(t, StatusSuccess, ack.Status)
		assert.Equal(t, []Message{{Action: ActionCopyRSS}}, r.got)
	})

	t.Run("canceled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		r := &countingReceiver{}
		_, err := Dispatch(cctx, Tab{URL: channelURL}, r, nil)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, r.got)
	})
}
