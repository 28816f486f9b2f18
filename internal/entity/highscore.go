package entity

type Highscore struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}
