package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/they4kman/minefield/catalog"
	"github.com/they4kman/minefield/game"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Difficulty is a catalog id or name; Rows, Cols and Mines override it
	// with a custom board when Rows is set
	Difficulty string `yaml:"difficulty"`
	Rows       int    `yaml:"rows"`
	Cols       int    `yaml:"cols"`
	Mines      int    `yaml:"mines"`

	// Seed for mine placement; 0 picks one from the clock
	Seed int64 `yaml:"seed"`

	// YAML file replacing the built-in difficulty presets
	DifficultiesFile string `yaml:"difficulties_file"`

	// Snapshot to load board configuration from
	SnapshotFile string `yaml:"snapshot"`
	// Whether to set all cells as unrevealed when loading the snapshot
	LoadSnapshotFresh bool `yaml:"fresh"`
	// Path to directory where final snapshots of boards should be saved
	SavedSnapshotsDir string `yaml:"snapshots_dir"`

	Director      string        `yaml:"director"`
	DirectorDelay time.Duration `yaml:"director_delay"`
	Color         bool          `yaml:"color"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func NewConfig() Config {
	return Config{
		Difficulty:        "1",
		LoadSnapshotFresh: true,
		Director:          directorNone,
		DirectorDelay:     500 * time.Millisecond,
		LogLevel:          "warn",
		Addr:              ":8080",
		AllowedOrigins:    []string{"*"},
	}
}

func loadConfigFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read config: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, config); err != nil {
		return fmt.Errorf("unable to parse config %s: %w", path, err)
	}
	return nil
}

// seed returns the configured seed, or one taken from the clock when unset
func (config Config) seed() int64 {
	if config.Seed != 0 {
		return config.Seed
	}
	return time.Now().UnixNano()
}

func (config Config) catalog() (*catalog.Catalog, error) {
	if config.DifficultiesFile == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(config.DifficultiesFile)
}

func (config Config) difficulty(presets *catalog.Catalog) (game.Difficulty, error) {
	if config.Rows != 0 {
		return game.Difficulty{
			Name:      "Custom",
			Rows:      config.Rows,
			Cols:      config.Cols,
			MineCount: config.Mines,
		}, nil
	}

	if id, err := strconv.Atoi(config.Difficulty); err == nil {
		if difficulty, ok := presets.Lookup(id); ok {
			return difficulty, nil
		}
	} else if difficulty, ok := presets.ByName(config.Difficulty); ok {
		return difficulty, nil
	}

	return game.Difficulty{}, fmt.Errorf("unknown difficulty %q", config.Difficulty)
}

// boardFactory returns a constructor producing a new board on every call.
// Snapshot-based games replay the snapshot's layout; generated games draw a
// fresh seed from the configured one each time.
func (config Config) boardFactory() (func() (*game.Board, error), error) {
	var create func() (*game.Board, error)

	if config.SnapshotFile != "" {
		data, err := os.ReadFile(config.SnapshotFile)
		if err != nil {
			return nil, fmt.Errorf("unable to read snapshot: %w", err)
		}
		snapshot, err := game.LoadSnapshot(string(data))
		if err != nil {
			return nil, err
		}
		create = func() (*game.Board, error) {
			return snapshot.CreateBoard(config.LoadSnapshotFresh)
		}
	} else {
		presets, err := config.catalog()
		if err != nil {
			return nil, err
		}
		difficulty, err := config.difficulty(presets)
		if err != nil {
			return nil, err
		}

		seed := config.seed()
		seeds := game.NewRand(seed)
		next := seed

		create = func() (*game.Board, error) {
			board, err := game.NewSeededBoard(difficulty, next)
			next = seeds.Int64()
			return board, err
		}
	}

	return func() (*game.Board, error) {
		board, err := create()
		if err != nil {
			return nil, err
		}
		board.OnGameEnd(config.onGameEnd)
		return board, nil
	}, nil
}

func (config Config) onGameEnd(board *game.Board) {
	config.saveSnapshot(board, time.Now())
}

func (config Config) saveSnapshot(board *game.Board, t time.Time) {
	if config.SavedSnapshotsDir == "" {
		return
	}

	logger := log.WithField("dir", config.SavedSnapshotsDir)

	stat, err := os.Stat(config.SavedSnapshotsDir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.WithError(err).Error("cannot stat snapshots directory")
			return
		}
		if err := os.MkdirAll(config.SavedSnapshotsDir, 0o777); err != nil {
			logger.WithError(err).Error("cannot create snapshots directory")
			return
		}
	} else if !stat.Mode().IsDir() {
		logger.Error("not a directory; cannot save snapshots to it")
		return
	}

	serialized, err := board.Snapshot().Serialize()
	if err != nil {
		logger.WithError(err).Error("cannot serialize snapshot")
		return
	}

	path := filepath.Join(config.SavedSnapshotsDir, generateReplayFilename(board, t))
	if err := os.WriteFile(path, []byte(serialized), 0o644); err != nil {
		logger.WithError(err).Error("cannot write snapshot")
		return
	}

	logger.WithField("path", path).Info("saved snapshot")
}

func generateReplayFilename(board *game.Board, t time.Time) string {
	filenameBuilder := strings.Builder{}

	filenameBuilder.WriteString(t.Format("20060102_150405_"))

	var stateStr string
	switch board.Status() {
	case game.Won:
		stateStr = "win"
	case game.Lost:
		stateStr = "loss"
	default:
		stateStr = "other"
	}
	filenameBuilder.WriteString(stateStr)

	filenameBuilder.WriteString(".yaml")

	return filenameBuilder.String()
}
