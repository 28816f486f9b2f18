package savegame

import (
	"encoding/xml"
	"errors"
	"strconv"
	"time"

	"github.com/rocketscienceinc/fourinaline/internal/entity"
)

// Version is the format version written by this package. Older versions are read.
const Version = 1

// Document layout:
//
//	<game version="1">
//	  <board columns="7" rows="6"/>
//	  <configuration undo-allowed="true" hint-allowed="true" network-game="false" time-limit="30">
//	    <player id="1" kind="human" name="Alice"/>
//	    <player id="2" kind="ai" name="Computer" difficulty="3"/>
//	  </configuration>
//	  <moves>
//	    <move column="3" player="1"/>
//	  </moves>
//	  <timeout player="2"/>
//	</game>
//
// A replay has no configuration element and no timeout element. The time limit is
// a number of seconds, or a duration such as "1.5s" when it is not whole seconds.
type xmlGame struct {
	XMLName       xml.Name          `xml:"game"`
	Version       int               `xml:"version,attr"`
	Board         xmlBoard          `xml:"board"`
	Configuration *xmlConfiguration `xml:"configuration,omitempty"`
	Moves         []xmlMove         `xml:"moves>move"`
	Timeout       *xmlTimeout       `xml:"timeout,omitempty"`
}

type xmlBoard struct {
	Columns int `xml:"columns,attr"`
	Rows    int `xml:"rows,attr"`
}

type xmlConfiguration struct {
	UndoAllowed bool        `xml:"undo-allowed,attr"`
	HintAllowed bool        `xml:"hint-allowed,attr"`
	NetworkGame bool        `xml:"network-game,attr"`
	TimeLimit   string      `xml:"time-limit,attr,omitempty"`
	Players     []xmlPlayer `xml:"player"`
}

type xmlPlayer struct {
	ID         entity.PlayerID `xml:"id,attr"`
	Kind       entity.Kind     `xml:"kind,attr"`
	Name       string          `xml:"name,attr"`
	Difficulty int             `xml:"difficulty,attr,omitempty"`
}

type xmlMove struct {
	Column int             `xml:"column,attr"`
	Player entity.PlayerID `xml:"player,attr"`
}

type xmlTimeout struct {
	Player entity.PlayerID `xml:"player,attr"`
}

var errNegativeTimeLimit = errors.New("negative time limit")

func formatTimeLimit(limit time.Duration) string {
	switch {
	case limit <= 0:
		return ""
	case limit%time.Second == 0:
		return strconv.FormatInt(int64(limit/time.Second), 10)
	default:
		return limit.String()
	}
}

func parseTimeLimit(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}

	// plain numbers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, errNegativeTimeLimit
		}

		return time.Duration(seconds) * time.Second, nil
	}

	limit, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}

	if limit < 0 {
		return 0, errNegativeTimeLimit
	}

	return limit, nil
}
