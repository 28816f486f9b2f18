package player

import (
	"context"
	"errors"
	"sync"

	"github.com/rocketscienceinc/fourinaline/internal/entity"
)

var (
	ErrPeerClosed = errors.New("peer closed")
	ErrPeerBusy   = errors.New("peer has an unread move")
)

// pipeEnd is one side of an in-process connection between two Peers.
type pipeEnd struct {
	inbox  chan int
	remote *pipeEnd

	once   sync.Once
	closed chan struct{}
}

// NewPipe returns two connected peers: a move sent on one is received on the other.
func NewPipe() (Peer, Peer) {
	left := &pipeEnd{inbox: make(chan int, 1), closed: make(chan struct{})}
	right := &pipeEnd{inbox: make(chan int, 1), closed: make(chan struct{})}
	left.remote = right
	right.remote = left

	return left, right
}

func (that *pipeEnd) ReceiveMove(ctx context.Context) (int, error) {
	select {
	case <-ctx.Done():
		return -1, ctx.Err()
	case <-that.closed:
		return -1, ErrPeerClosed
	case column := <-that.inbox:
		return column, nil
	}
}

func (that *pipeEnd) SendMove(move entity.Move) error {
	select {
	case <-that.remote.closed:
		return ErrPeerClosed
	default:
	}

	select {
	case that.remote.inbox <- move.Column:
		return nil
	default:
		return ErrPeerBusy
	}
}

// Close disconnects both ends.
func (that *pipeEnd) Close() error {
	that.once.Do(func() { close(that.closed) })
	that.remote.once.Do(func() { close(that.remote.closed) })

	return nil
}
