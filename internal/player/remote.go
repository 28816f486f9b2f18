package player

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/fourinaline/internal/entity"
)

// Peer is the boundary to the transport connecting both ends of a network game.
// SendMove must not block.
type Peer interface {
	ReceiveMove(ctx context.Context) (int, error)
	SendMove(move entity.Move) error
}

// Remote is the player on the other end of a Peer. It forwards the local side's
// moves to the peer and waits for the peer's answer on its own turn.
type Remote struct {
	logger *slog.Logger
	info   entity.PlayerInfo
	peer   Peer

	request requestSlot

	mu       sync.Mutex
	lastSent int
}

func NewRemote(logger *slog.Logger, info entity.PlayerInfo, peer Peer) *Remote {
	info.Kind = entity.KindNetwork

	return &Remote{
		logger: logger.With("component", "remote player", "player", info.ID.String()),
		info:   info,
		peer:   peer,
	}
}

func (that *Remote) Info() entity.PlayerInfo {
	return that.info
}

func (that *Remote) ProduceMove(ctx context.Context, _ *entity.Match) (int, error) {
	receiveCtx, req, err := that.request.begin(ctx)
	if err != nil {
		return -1, err
	}
	defer that.request.finish(req)

	column, err := that.peer.ReceiveMove(receiveCtx)
	if err != nil {
		return -1, fmt.Errorf("failed to receive move: %w", err)
	}

	return column, nil
}

// NotifyTurnStart forwards the move that handed the turn to the peer.
func (that *Remote) NotifyTurnStart(match *entity.Match) {
	that.forwardLastMove(match)
}

// NotifyTurnEnd forwards a game-ending move, after which no turn of the peer starts.
func (that *Remote) NotifyTurnEnd(match *entity.Match) {
	if match.IsOver() {
		that.forwardLastMove(match)
	}
}

func (that *Remote) Cancel() {
	that.request.abort()
}

func (that *Remote) forwardLastMove(match *entity.Match) {
	move, ok := match.LastMove()
	if !ok || move.Player == that.info.ID {
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if move.SequenceNumber <= that.lastSent {
		return
	}

	if err := that.peer.SendMove(move); err != nil {
		that.logger.Error("failed to send move", "column", move.Column, "error", err)
		return
	}

	that.lastSent = move.SequenceNumber
}
