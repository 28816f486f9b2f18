package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/rocketscienceinc/fourinaline/internal/apperror"
	"github.com/rocketscienceinc/fourinaline/internal/entity"
)

var ErrNoMatch = errors.New("match is required")

type hintSuggester interface {
	SuggestMove(ctx context.Context, match *entity.Match) (int, error)
}

type PlayerCopier interface {
	CreateCopy(player entity.Player) (entity.Player, error)
}

type GameOverAction string

const (
	ActionNewGame    GameOverAction = "new game"
	ActionPlayAgain  GameOverAction = "play again"
	ActionSaveReplay GameOverAction = "save replay"
	ActionUndo       GameOverAction = "undo last move"
)

type Options struct {
	// TimerTick is the period of remaining time notifications while a turn is timed.
	TimerTick   time.Duration
	ColumnHints bool
}

// turn is the outstanding move request of the player to move.
type turn struct {
	token    uint64
	player   entity.Player
	ctx      context.Context
	cancel   context.CancelFunc
	deadline time.Time
	timer    *clock.Timer
	ticker   *clock.Ticker
	stop     chan struct{}
}

// SessionController owns the active match and drives its turns. Every state change
// is announced to the subscribed observers before the causing call returns.
type SessionController struct {
	logger  *slog.Logger
	clock   clock.Clock
	hints   hintSuggester
	options Options

	mu        sync.Mutex
	match     *entity.Match
	last      *entity.Match
	token     uint64
	turn      *turn
	observers observers
}

func NewSessionController(logger *slog.Logger, clk clock.Clock, hints hintSuggester, options Options) *SessionController {
	return &SessionController{
		logger:  logger.With("component", "session"),
		clock:   clk,
		hints:   hints,
		options: options,
	}
}

func (that *SessionController) Subscribe(observer Observer) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.observers = append(that.observers, observer)
}

// StartGame ends the active match and adopts match. A match in progress continues
// with the turn of its current player.
func (that *SessionController) StartGame(match *entity.Match) error {
	if match == nil {
		return ErrNoMatch
	}

	if match.IsEnded() {
		return apperror.ErrGameEnded
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.match == match {
		return nil
	}

	if that.match != nil {
		that.endLocked()
	}

	that.token++
	that.match = match
	that.last = match

	that.logger.Info("game started",
		"match", match.ID(),
		"first", match.FirstPlayer().Info().Name,
		"second", match.SecondPlayer().Info().Name,
		"moves", match.MoveCount(),
	)

	that.observers.emit(Event{Kind: EventGameStarted})

	for _, move := range match.History() {
		that.emitSetCell(move)
	}

	if match.IsInProgress() {
		that.beginTurnLocked()
		return nil
	}

	that.emitGameOverLocked(true)

	return nil
}

// EndGame aborts the active match. It does nothing when there is none.
func (that *SessionController) EndGame() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.match == nil {
		return
	}

	that.endLocked()
}

// SubmitMoveInput applies column for the human player to move.
func (that *SessionController) SubmitMoveInput(column int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "SubmitMoveInput", "column", column)

	if that.match == nil {
		return apperror.ErrNoActiveGame
	}

	if !that.match.IsInProgress() {
		return apperror.ErrGameFinished
	}

	if that.turn == nil || that.turn.player.Info().Kind != entity.KindHuman {
		return apperror.ErrNotYourTurn
	}

	if err := that.applyMoveLocked(column); err != nil {
		log.Debug("move input rejected", "error", err)
		return err
	}

	return nil
}

// UndoLastMove takes back the last move and restarts the turn of the player who made it.
func (that *SessionController) UndoLastMove() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.match == nil {
		return apperror.ErrNoActiveGame
	}

	if err := that.checkUndoLocked(); err != nil {
		return err
	}

	wasOver := that.match.IsOver()
	interrupted := that.stopTurnLocked()

	move, err := that.match.Undo()
	if err != nil {
		return fmt.Errorf("failed to undo move: %w", err)
	}

	that.logger.Debug("move undone", "column", move.Column, "row", move.Row, "sequence", move.SequenceNumber)

	that.observers.emit(Event{Kind: EventRemoveCell, Column: move.Column, Row: move.Row})

	if interrupted != nil {
		that.emitEndTurn(interrupted.Info())
		interrupted.NotifyTurnEnd(that.match.Clone())
	}

	if wasOver {
		that.observers.emit(Event{Kind: EventGameNotOverAnymore})
	}

	that.beginTurnLocked()

	return nil
}

// ShowHint asks the hint collaborator for a column for the human player to move.
func (that *SessionController) ShowHint(ctx context.Context) (int, error) {
	that.mu.Lock()
	if !that.isShowHintPossibleLocked() {
		that.mu.Unlock()
		return -1, apperror.ErrHintNotAllowed
	}

	snapshot := that.match.Clone()
	that.mu.Unlock()

	column, err := that.hints.SuggestMove(ctx, snapshot)
	if err != nil {
		return -1, fmt.Errorf("failed to suggest move: %w", err)
	}

	return column, nil
}

// PlayAgain starts a new match with the settings of the current or last match and
// fresh copies of its players.
func (that *SessionController) PlayAgain(factory PlayerCopier) error {
	that.mu.Lock()
	source := that.last
	that.mu.Unlock()

	if source == nil {
		return apperror.ErrNoActiveGame
	}

	first, err := factory.CreateCopy(source.FirstPlayer())
	if err != nil {
		return fmt.Errorf("failed to copy first player: %w", err)
	}

	second, err := factory.CreateCopy(source.SecondPlayer())
	if err != nil {
		return fmt.Errorf("failed to copy second player: %w", err)
	}

	match, err := source.Rematch(first, second)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}

	return that.StartGame(match)
}

// GameOverActions lists what a game over prompt offers for the active match.
func (that *SessionController) GameOverActions() []GameOverAction {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.gameOverActionsLocked()
}

// IsActive reports whether a match is in progress.
func (that *SessionController) IsActive() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.match != nil && that.match.IsInProgress()
}

// HasGame reports whether a match has been adopted, including a finished one.
func (that *SessionController) HasGame() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.match != nil
}

func (that *SessionController) IsUndoPossible() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.match != nil && that.checkUndoLocked() == nil
}

func (that *SessionController) IsShowHintPossible() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.isShowHintPossibleLocked()
}

// Snapshot returns a copy of the active match, or nil.
func (that *SessionController) Snapshot() *entity.Match {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.match == nil {
		return nil
	}

	return that.match.Clone()
}

func (that *SessionController) gameOverActionsLocked() []GameOverAction {
	actions := []GameOverAction{ActionNewGame, ActionPlayAgain, ActionSaveReplay}
	if that.match != nil && that.checkUndoLocked() == nil {
		actions = append(actions, ActionUndo)
	}

	return actions
}

func (that *SessionController) checkUndoLocked() error {
	switch {
	case that.match.IsEnded():
		return apperror.ErrGameEnded
	case that.match.Settings().NetworkGame || !that.match.Settings().UndoAllowed:
		return apperror.ErrUndoNotAllowed
	case that.match.MoveCount() == 0:
		return apperror.ErrNothingToUndo
	default:
		return nil
	}
}

func (that *SessionController) isShowHintPossibleLocked() bool {
	return that.hints != nil &&
		that.match != nil &&
		that.match.IsInProgress() &&
		that.match.Settings().HintAllowed &&
		that.match.CurrentPlayer().Info().Kind == entity.KindHuman
}

func (that *SessionController) endLocked() {
	interrupted := that.stopTurnLocked()

	that.match.End()
	that.logger.Info("game ended", "match", that.match.ID(), "moves", that.match.MoveCount())
	snapshot := that.match.Clone()
	that.match = nil

	if interrupted != nil {
		that.emitEndTurn(interrupted.Info())
		interrupted.NotifyTurnEnd(snapshot)
	}

	that.observers.emit(Event{Kind: EventGameEnded})
}

// beginTurnLocked requests a move from the player to move and arms the turn timer.
func (that *SessionController) beginTurnLocked() {
	that.token++

	player := that.match.CurrentPlayer()
	info := player.Info()
	ctx, cancel := context.WithCancel(context.Background())

	current := &turn{
		token:  that.token,
		player: player,
		ctx:    ctx,
		cancel: cancel,
		stop:   make(chan struct{}),
	}
	that.turn = current

	that.match.ResetRemainingTime()

	that.logger.Debug("turn started", "player", info.Name, "kind", info.Kind, "token", current.token)

	that.observers.emit(Event{Kind: EventStartPlayerTurn, Player: info})

	settings := that.match.Settings()
	if settings.HasTimeLimit() {
		that.observers.emit(Event{Kind: EventRemainingTimeChanged, Remaining: settings.TimeLimit})
		that.armTimerLocked(current, settings.TimeLimit)
	}

	if that.options.ColumnHints && info.Kind == entity.KindHuman {
		that.observers.emit(Event{Kind: EventShowColumnHints, Columns: that.match.PlayableColumns()})
	}

	player.NotifyTurnStart(that.match.Clone())

	go that.request(ctx, current.token, player, that.match.Clone())
}

func (that *SessionController) armTimerLocked(current *turn, limit time.Duration) {
	token := current.token

	current.deadline = that.clock.Now().Add(limit)
	current.timer = that.clock.AfterFunc(limit, func() {
		that.expire(token)
	})

	if that.options.TimerTick <= 0 {
		return
	}

	current.ticker = that.clock.Ticker(that.options.TimerTick)
	go that.tick(token, current.ticker, current.stop)
}

// stopTurnLocked cancels the timer and then the outstanding request, in that order.
// It returns the player whose turn was stopped, or nil.
func (that *SessionController) stopTurnLocked() entity.Player {
	current := that.turn
	if current == nil {
		return nil
	}

	that.turn = nil
	that.token++

	if current.timer != nil {
		current.timer.Stop()
	}

	if current.ticker != nil {
		current.ticker.Stop()
	}

	close(current.stop)

	current.cancel()
	current.player.Cancel()

	return current.player
}

func (that *SessionController) request(ctx context.Context, token uint64, player entity.Player, snapshot *entity.Match) {
	column, err := player.ProduceMove(ctx, snapshot)
	that.deliver(token, column, err)
}

// deliver applies a produced move unless its turn is over.
func (that *SessionController) deliver(token uint64, column int, err error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "deliver", "token", token)

	if !that.isCurrentLocked(token) {
		log.Debug("stale move ignored", "column", column)
		return
	}

	current := that.turn
	info := current.player.Info()

	if err != nil {
		log.Error("player failed to produce a move", "player", info.Name, "kind", info.Kind, "error", err)
		that.endLocked()

		return
	}

	if err = that.applyMoveLocked(column); err != nil {
		if !errors.Is(err, apperror.ErrInvalidMove) {
			log.Error("failed to apply move", "player", info.Name, "error", err)
			that.endLocked()

			return
		}

		log.Warn("player produced an invalid move", "player", info.Name, "kind", info.Kind, "column", column, "error", err)
		go that.request(current.ctx, token, current.player, that.match.Clone())
	}
}

// expire ends a turn whose time limit elapsed as a timeout draw.
func (that *SessionController) expire(token uint64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.isCurrentLocked(token) {
		return
	}

	interrupted := that.stopTurnLocked().Info()

	if err := that.match.ApplyTimeout(); err != nil {
		that.logger.Error("failed to apply timeout", "error", err)
		return
	}

	that.logger.Info("turn timed out", "match", that.match.ID(), "player", interrupted.Name)

	snapshot := that.match.Clone()
	that.emitEndTurn(interrupted)
	that.match.FirstPlayer().NotifyTurnEnd(snapshot)
	that.match.SecondPlayer().NotifyTurnEnd(snapshot)
	that.emitGameOverLocked(false)
}

func (that *SessionController) tick(token uint64, ticker *clock.Ticker, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !that.emitRemaining(token) {
				return
			}
		}
	}
}

func (that *SessionController) emitRemaining(token uint64) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.isCurrentLocked(token) {
		return false
	}

	remaining := that.turn.deadline.Sub(that.clock.Now())
	if remaining <= 0 {
		return true
	}

	that.match.SetRemainingTime(remaining)
	that.observers.emit(Event{Kind: EventRemainingTimeChanged, Remaining: that.match.RemainingTime()})

	return true
}

// applyMoveLocked plays column for the player to move and continues with the next turn
// or announces the result. An invalid move leaves the turn running.
func (that *SessionController) applyMoveLocked(column int) error {
	if _, err := that.match.Clone().ApplyMove(column); err != nil {
		return fmt.Errorf("failed to apply move: %w", err)
	}

	// callers hold an active turn
	mover := that.stopTurnLocked().Info()

	move, err := that.match.ApplyMove(column)
	if err != nil {
		panic(fmt.Sprintf("move %d accepted by a copy of match %s but not by the match: %v", column, that.match.ID(), err))
	}

	snapshot := that.match.Clone()
	that.emitSetCell(move)
	that.emitEndTurn(mover)
	that.match.Player(move.Player).NotifyTurnEnd(snapshot)

	if that.match.IsInProgress() {
		that.beginTurnLocked()
		return nil
	}

	that.match.Player(move.Player.Opponent()).NotifyTurnEnd(snapshot)

	result := that.match.Result()
	that.logger.Info("game over", "match", that.match.ID(), "status", result.Status.String(), "moves", result.Moves)
	that.emitGameOverLocked(false)

	return nil
}

func (that *SessionController) isCurrentLocked(token uint64) bool {
	return that.match != nil && that.turn != nil && that.turn.token == token
}

func (that *SessionController) emitSetCell(move entity.Move) {
	that.observers.emit(Event{
		Kind:   EventSetCell,
		Column: move.Column,
		Row:    move.Row,
		Player: that.match.Player(move.Player).Info(),
	})
}

func (that *SessionController) emitGameOverLocked(restored bool) {
	that.observers.emit(Event{
		Kind:     EventGameOver,
		Result:   that.match.Result(),
		Actions:  that.gameOverActionsLocked(),
		Restored: restored,
	})
}

func (that *SessionController) emitEndTurn(player entity.PlayerInfo) {
	that.observers.emit(Event{Kind: EventEndPlayerTurn, Player: player})

	if that.options.ColumnHints && player.Kind == entity.KindHuman {
		that.observers.emit(Event{Kind: EventShowColumnHints, Columns: []int{}})
	}
}
