package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config of the game. The boolean switches carry no defaults since a default would
// overwrite an explicit false.
type Config struct {
	LogLevel      string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Board         Board         `yaml:"board"`
	TurnTimeLimit time.Duration `yaml:"turn-time-limit" env:"TURN_TIME_LIMIT" env-default:"0s"`
	TimerTick     time.Duration `yaml:"timer-tick" env-default:"1s"`
	UndoAllowed   bool          `yaml:"undo-allowed" env:"UNDO_ALLOWED"`
	HintAllowed   bool          `yaml:"hint-allowed" env:"HINT_ALLOWED"`
	ColumnHints   bool          `yaml:"column-hints" env:"COLUMN_HINTS"`
	HintDepth     int           `yaml:"hint-depth" env-default:"5"`
	FirstPlayer   Player        `yaml:"first-player" env-prefix:"FIRST_PLAYER_"`
	SecondPlayer  Player        `yaml:"second-player" env-prefix:"SECOND_PLAYER_"`
	Highscores    Highscores    `yaml:"highscores"`
	Savegames     Savegames     `yaml:"savegames"`
	Redis         Redis         `yaml:"redis"`
}

type Board struct {
	Columns int `yaml:"columns" env-default:"7"`
	Rows    int `yaml:"rows" env-default:"6"`
}

type Player struct {
	Name       string `yaml:"name" env:"NAME"`
	Kind       string `yaml:"kind" env:"KIND" env-default:"human"`
	Difficulty int    `yaml:"difficulty" env:"DIFFICULTY" env-default:"3"`
}

type Highscores struct {
	Enabled bool `yaml:"enabled" env:"HIGHSCORES_ENABLED" env-default:"false"`
	Limit   int  `yaml:"limit" env-default:"10"`
}

const (
	StorageFile  = "file"
	StorageRedis = "redis"
)

type Savegames struct {
	// Storage is file or redis.
	Storage string `yaml:"storage" env:"SAVEGAME_STORAGE" env-default:"file"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Load reads the configuration file at path, applying environment overrides and defaults.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

// UsesRedis reports whether any component needs the redis connection.
func (that *Config) UsesRedis() bool {
	return that.Highscores.Enabled || that.Savegames.Storage == StorageRedis
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
