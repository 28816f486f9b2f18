package savegame

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rocketscienceinc/fourinaline/internal/entity"
	"github.com/rocketscienceinc/fourinaline/internal/player"
)

// Decode reads a savegame or a replay. A match is returned only for a fully valid
// document; every move is replayed to derive the status. Its players are placeholders
// holding the stored configuration, replays get "Player 1" and "Player 2".
func (that *Serializer) Decode(data []byte) (*entity.Match, error) {
	reader := &reader{
		decoder:  xml.NewDecoder(bytes.NewReader(data)),
		evaluate: that.evaluate,
	}

	return reader.read()
}

type reader struct {
	decoder  *xml.Decoder
	evaluate entity.Evaluator

	// position of the token read last
	line   int
	column int

	board         *xmlBoard
	configuration *xmlConfiguration
	timeLimit     time.Duration
	match         *entity.Match
	movesRead     bool
}

func (that *reader) read() (*entity.Match, error) {
	root, err := that.nextStart()
	if err != nil {
		return nil, err
	}

	if root.Name.Local != "game" {
		return nil, that.fail(fmt.Sprintf("unexpected root element <%s>", root.Name.Local), nil)
	}

	if err = that.readVersion(root); err != nil {
		return nil, err
	}

	for {
		token, err := that.next()
		if err != nil {
			return nil, err
		}

		switch element := token.(type) {
		case xml.StartElement:
			if err = that.readChild(element); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return that.finish()
		}
	}
}

func (that *reader) readVersion(root xml.StartElement) error {
	value, ok := attribute(root, "version")
	if !ok {
		return that.fail("missing format version", nil)
	}

	version, err := strconv.Atoi(value)
	if err != nil || version < 1 {
		return that.fail(fmt.Sprintf("invalid format version %q", value), nil)
	}

	if version > Version {
		return that.fail(fmt.Sprintf("unsupported format version %d", version), nil)
	}

	return nil
}

func (that *reader) readChild(element xml.StartElement) error {
	switch element.Name.Local {
	case "board":
		return that.readBoard(element)
	case "configuration":
		return that.readConfiguration(element)
	case "moves":
		return that.readMoves()
	case "timeout":
		return that.readTimeout(element)
	default:
		return that.skip()
	}
}

func (that *reader) readBoard(element xml.StartElement) error {
	if that.board != nil {
		return that.fail("duplicate board element", nil)
	}

	board := &xmlBoard{}
	if err := that.decoder.DecodeElement(board, &element); err != nil {
		return that.malformed("board", err)
	}

	if err := entity.ValidateBoardSize(board.Columns, board.Rows); err != nil {
		return that.fail("invalid board dimensions", err)
	}

	that.board = board

	return nil
}

func (that *reader) readConfiguration(element xml.StartElement) error {
	if that.configuration != nil {
		return that.fail("duplicate configuration element", nil)
	}

	if that.match != nil {
		return that.fail("configuration after moves", nil)
	}

	configuration := &xmlConfiguration{}
	if err := that.decoder.DecodeElement(configuration, &element); err != nil {
		return that.malformed("configuration", err)
	}

	timeLimit, err := parseTimeLimit(configuration.TimeLimit)
	if err != nil {
		return that.fail(fmt.Sprintf("invalid time limit %q", configuration.TimeLimit), err)
	}

	if len(configuration.Players) != 2 {
		return that.fail(fmt.Sprintf("expected 2 players, got %d", len(configuration.Players)), nil)
	}

	seen := make(map[entity.PlayerID]bool, 2)
	for _, configured := range configuration.Players {
		if !configured.ID.Valid() || seen[configured.ID] {
			return that.fail(fmt.Sprintf("invalid or duplicate player id %d", configured.ID), nil)
		}

		seen[configured.ID] = true

		if _, err := entity.ParseKind(string(configured.Kind)); err != nil {
			return that.fail("invalid player kind", err)
		}
	}

	that.configuration = configuration
	that.timeLimit = timeLimit

	return nil
}

func (that *reader) readMoves() error {
	if that.movesRead {
		return that.fail("duplicate moves element", nil)
	}

	that.movesRead = true

	if err := that.ensureMatch(); err != nil {
		return err
	}

	for {
		token, err := that.next()
		if err != nil {
			return err
		}

		switch element := token.(type) {
		case xml.StartElement:
			if element.Name.Local != "move" {
				if err = that.skip(); err != nil {
					return err
				}

				continue
			}

			if err = that.readMove(element); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (that *reader) readMove(element xml.StartElement) error {
	move := &xmlMove{}
	if err := that.decoder.DecodeElement(move, &element); err != nil {
		return that.malformed("move", err)
	}

	if !that.match.IsInProgress() {
		return that.fail(fmt.Sprintf("move %d after the game is over", that.match.MoveCount()+1), nil)
	}

	if move.Player != that.match.CurrentTurn() {
		return that.fail(fmt.Sprintf("move %d by %s player out of turn", that.match.MoveCount()+1, move.Player), nil)
	}

	if _, err := that.match.ApplyMove(move.Column); err != nil {
		return that.fail(fmt.Sprintf("illegal move %d", that.match.MoveCount()+1), err)
	}

	return nil
}

func (that *reader) readTimeout(element xml.StartElement) error {
	if err := that.ensureMatch(); err != nil {
		return err
	}

	timeout := &xmlTimeout{}
	if err := that.decoder.DecodeElement(timeout, &element); err != nil {
		return that.malformed("timeout", err)
	}

	if !that.match.IsInProgress() || timeout.Player != that.match.CurrentTurn() {
		return that.fail(fmt.Sprintf("timeout of %s player does not fit the moves", timeout.Player), nil)
	}

	if err := that.match.ApplyTimeout(); err != nil {
		return that.fail("invalid timeout", err)
	}

	return nil
}

func (that *reader) finish() (*entity.Match, error) {
	if err := that.ensureMatch(); err != nil {
		return nil, err
	}

	for {
		token, err := that.decoder.Token()
		if errors.Is(err, io.EOF) {
			return that.match, nil
		}

		if err != nil {
			return nil, that.malformed("document", err)
		}

		if _, ok := token.(xml.StartElement); ok {
			return nil, that.fail("content after the game element", nil)
		}
	}
}

// ensureMatch creates the match the moves are replayed on.
func (that *reader) ensureMatch() error {
	if that.match != nil {
		return nil
	}

	if that.board == nil {
		return that.fail("missing board element", nil)
	}

	settings := entity.DefaultSettings()
	settings.Columns = that.board.Columns
	settings.Rows = that.board.Rows

	first := entity.PlayerInfo{ID: entity.First, Name: "Player 1", Kind: entity.KindHuman}
	second := entity.PlayerInfo{ID: entity.Second, Name: "Player 2", Kind: entity.KindHuman}

	if that.configuration != nil {
		settings.UndoAllowed = that.configuration.UndoAllowed
		settings.HintAllowed = that.configuration.HintAllowed
		settings.NetworkGame = that.configuration.NetworkGame
		settings.TimeLimit = that.timeLimit

		for _, configured := range that.configuration.Players {
			info := entity.PlayerInfo{
				ID:         configured.ID,
				Name:       configured.Name,
				Kind:       configured.Kind,
				Difficulty: configured.Difficulty,
			}

			if configured.ID == entity.First {
				first = info
			} else {
				second = info
			}
		}
	}

	match, err := entity.NewMatch(settings, player.NewPlaceholder(first), player.NewPlaceholder(second), that.evaluate)
	if err != nil {
		return that.fail("invalid match", err)
	}

	that.match = match

	return nil
}

func (that *reader) next() (xml.Token, error) {
	that.line, that.column = that.decoder.InputPos()

	token, err := that.decoder.Token()
	if errors.Is(err, io.EOF) {
		return nil, that.fail("unexpected end of document", nil)
	}

	if err != nil {
		return nil, that.malformed("document", err)
	}

	return token, nil
}

func (that *reader) nextStart() (xml.StartElement, error) {
	for {
		token, err := that.next()
		if err != nil {
			return xml.StartElement{}, err
		}

		if element, ok := token.(xml.StartElement); ok {
			return element, nil
		}
	}
}

func (that *reader) skip() error {
	if err := that.decoder.Skip(); err != nil {
		return that.malformed("document", err)
	}

	return nil
}

func (that *reader) fail(reason string, err error) *ParseError {
	return &ParseError{Reason: reason, Line: that.line, Column: that.column, Err: err}
}

func (that *reader) malformed(element string, err error) *ParseError {
	parseErr := that.fail("malformed "+element, err)

	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		parseErr.Line = syntaxErr.Line
		_, parseErr.Column = that.decoder.InputPos()
	}

	return parseErr
}

func attribute(element xml.StartElement, name string) (string, bool) {
	for _, attr := range element.Attr {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}

	return "", false
}
