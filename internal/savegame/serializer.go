package savegame

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/rocketscienceinc/fourinaline/internal/entity"
)

// Serializer converts matches to savegames and replays and back.
type Serializer struct {
	evaluate entity.Evaluator
}

func NewSerializer(evaluate entity.Evaluator) *Serializer {
	return &Serializer{evaluate: evaluate}
}

// Encode writes match as a savegame, or as a replay when withConfiguration is false.
func (that *Serializer) Encode(match *entity.Match, withConfiguration bool) ([]byte, error) {
	settings := match.Settings()

	document := xmlGame{
		Version: Version,
		Board:   xmlBoard{Columns: settings.Columns, Rows: settings.Rows},
	}

	if withConfiguration {
		document.Configuration = &xmlConfiguration{
			UndoAllowed: settings.UndoAllowed,
			HintAllowed: settings.HintAllowed,
			NetworkGame: settings.NetworkGame,
			TimeLimit:   formatTimeLimit(settings.TimeLimit),
			Players: []xmlPlayer{
				playerElement(match.FirstPlayer().Info()),
				playerElement(match.SecondPlayer().Info()),
			},
		}
	}

	for _, move := range match.History() {
		document.Moves = append(document.Moves, xmlMove{Column: move.Column, Player: move.Player})
	}

	status := match.Status()
	if withConfiguration && status.Kind == entity.StatusDraw && status.Reason == entity.DrawTimeout {
		document.Timeout = &xmlTimeout{Player: status.TimedOut}
	}

	var buffer bytes.Buffer
	buffer.WriteString(xml.Header)

	encoder := xml.NewEncoder(&buffer)
	encoder.Indent("", "  ")

	if err := encoder.Encode(document); err != nil {
		return nil, fmt.Errorf("failed to encode match: %w", err)
	}

	buffer.WriteByte('\n')

	return buffer.Bytes(), nil
}

func playerElement(info entity.PlayerInfo) xmlPlayer {
	element := xmlPlayer{
		ID:   info.ID,
		Kind: info.Kind,
		Name: info.Name,
	}

	if info.Kind == entity.KindAI {
		element.Difficulty = info.Difficulty
	}

	return element
}
