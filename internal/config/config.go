// Package config loads and validates the TOML configuration file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Tools locates the external binaries the pipeline shells out to.
type Tools struct {
	FFmpegPath   string `toml:"ffmpeg_path"`
	FFprobePath  string `toml:"ffprobe_path"`
	WhisperBin   string `toml:"whisper_bin"`
	WhisperModel string `toml:"whisper_model"`
}

// Filter tunes detection and merging.
type Filter struct {
	// LexiconPath points at a word list file; empty uses the built-in list.
	LexiconPath string `toml:"lexicon_path"`
	// PaddingSeconds is applied symmetrically around each detection.
	PaddingSeconds float64 `toml:"padding_seconds"`
	// MergeGapSeconds joins removal intervals separated by at most this gap.
	MergeGapSeconds float64 `toml:"merge_gap_seconds"`
	// PhraseGapSeconds is the max silence inside a multi-word phrase match.
	PhraseGapSeconds float64 `toml:"phrase_gap_seconds"`
}

// Logging mirrors the slog handler setup.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the root configuration.
type Config struct {
	CacheDir  string  `toml:"cache_dir"`
	HistoryDB string  `toml:"history_db"`
	Tools     Tools   `toml:"tools"`
	Filter    Filter  `toml:"filter"`
	Logging   Logging `toml:"logging"`
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		CacheDir:  defaultCacheDir,
		HistoryDB: defaultHistoryDB,
		Tools: Tools{
			FFmpegPath:   "ffmpeg",
			FFprobePath:  "ffprobe",
			WhisperBin:   defaultWhisperBin,
			WhisperModel: defaultWhisperModel,
		},
		Filter: Filter{
			PaddingSeconds:   defaultPadding,
			MergeGapSeconds:  defaultMergeGap,
			PhraseGapSeconds: defaultPhraseGap,
		},
		Logging: Logging{Level: defaultLogLevel, Format: defaultLogFormat},
	}
}

// Load reads the config file at path. An empty path checks the standard
// location and falls back to defaults when nothing is there; a path the
// caller named explicitly must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	b, err := os.ReadFile(expandHome(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			cfg.normalize()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath is the standard config file location.
func DefaultPath() string {
	return filepath.Join("~", ".config", "scrub", "config.toml")
}

// Validate rejects configurations that would corrupt a run. Called before
// any processing begins.
func (c *Config) Validate() error {
	if c.Filter.PaddingSeconds < 0 {
		return fmt.Errorf("config: padding_seconds must be >= 0, got %g", c.Filter.PaddingSeconds)
	}
	if c.Filter.MergeGapSeconds < 0 {
		return fmt.Errorf("config: merge_gap_seconds must be >= 0, got %g", c.Filter.MergeGapSeconds)
	}
	if c.Filter.PhraseGapSeconds <= 0 {
		return fmt.Errorf("config: phrase_gap_seconds must be > 0, got %g", c.Filter.PhraseGapSeconds)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: logging format %q unsupported", c.Logging.Format)
	}
	return nil
}

// WriteSample writes the embedded sample config to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	path = expandHome(path)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

func (c *Config) normalize() {
	c.CacheDir = expandHome(strings.TrimSpace(c.CacheDir))
	c.HistoryDB = expandHome(strings.TrimSpace(c.HistoryDB))
	c.Filter.LexiconPath = expandHome(strings.TrimSpace(c.Filter.LexiconPath))
	c.Tools.WhisperBin = expandHome(c.Tools.WhisperBin)
	c.Tools.WhisperModel = expandHome(c.Tools.WhisperModel)
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
