package player

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/fourinaline/internal/apperror"
)

type request struct {
	cancel context.CancelFunc
}

// requestSlot holds the single outstanding move request of a player.
type requestSlot struct {
	mu      sync.Mutex
	current *request
}

func (that *requestSlot) begin(ctx context.Context) (context.Context, *request, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	if that.current != nil {
		return nil, nil, apperror.ErrRequestPending
	}

	requestCtx, cancel := context.WithCancel(ctx)
	that.current = &request{cancel: cancel}

	return requestCtx, that.current, nil
}

// finish releases req without touching a request begun after it.
func (that *requestSlot) finish(req *request) {
	that.mu.Lock()
	if that.current == req {
		that.current = nil
	}
	that.mu.Unlock()

	req.cancel()
}

func (that *requestSlot) abort() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.current != nil {
		that.current.cancel()
		that.current = nil
	}
}

func (that *requestSlot) pending() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.current != nil
}
