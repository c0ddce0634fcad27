package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v2"
)

// Config is the YAML configuration of topmovies.
type Config struct {
	DataFolderPath string        `yaml:"data_folder_path"`
	Movies         string        `yaml:"movies"`
	Ratings        string        `yaml:"ratings"`
	Delimiter      string        `yaml:"delimiter"`
	Logging        LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the log file.
// Level is INFO or DEBUG; DEBUG also logs each stage of the query.
// Filemode "w" truncates the file and "a" appends to it. An empty Filename disables logging.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Filename string `yaml:"filename"`
	Filemode string `yaml:"filemode"`
}

func defaultConfig() Config {
	return Config{
		DataFolderPath: filepath.Join("data", "ml-latest-small"),
		Movies:         "movies.csv",
		Ratings:        "ratings.csv",
		Delimiter:      ",",
		Logging: LoggingConfig{
			Level:    "INFO",
			Filemode: "w",
		},
	}
}

// loadConfig reads the YAML file at `path` over the default config.
// If `path` is empty, the default config is returned.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig(): %w", err)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("loadConfig(): %s: %w", path, err)
	}
	if _, err := cfg.delimiter(); err != nil {
		return Config{}, fmt.Errorf("loadConfig(): %s: %w", path, err)
	}
	switch strings.ToUpper(cfg.Logging.Level) {
	case "INFO", "DEBUG":
	default:
		return Config{}, fmt.Errorf("loadConfig(): %s: unsupported logging level: %s", path, cfg.Logging.Level)
	}
	switch cfg.Logging.Filemode {
	case "w", "a":
	default:
		return Config{}, fmt.Errorf("loadConfig(): %s: unsupported logging filemode: %s", path, cfg.Logging.Filemode)
	}
	return cfg, nil
}

func (c Config) moviesPath() string {
	return filepath.Join(c.DataFolderPath, c.Movies)
}

func (c Config) ratingsPath() string {
	return filepath.Join(c.DataFolderPath, c.Ratings)
}

func (c Config) delimiter() (rune, error) {
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character: %q", c.Delimiter)
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r, nil
}

// loggers holds the log destinations configured by LoggingConfig.
// debug is nil unless the level is DEBUG.
type loggers struct {
	info  *log.Logger
	debug *log.Logger
	file  io.Closer
}

func (l *loggers) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// openLoggers opens the log file and returns loggers that write lines formatted as "15:04:05 - LEVEL - message".
func openLoggers(cfg LoggingConfig) (*loggers, error) {
	var w io.Writer = io.Discard
	ret := &loggers{}
	if cfg.Filename != "" {
		flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		if cfg.Filemode == "a" {
			flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		}
		if dir := filepath.Dir(cfg.Filename); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("openLoggers(): %w", err)
			}
		}
		f, err := os.OpenFile(cfg.Filename, flags, 0644)
		if err != nil {
			return nil, fmt.Errorf("openLoggers(): %w", err)
		}
		w = f
		ret.file = f
	}
	ret.info = log.New(w, "- INFO - ", log.Ltime|log.Lmsgprefix)
	if strings.ToUpper(cfg.Level) == "DEBUG" {
		ret.debug = log.New(w, "- DEBUG - ", log.Ltime|log.Lmsgprefix)
	}
	return ret, nil
}
