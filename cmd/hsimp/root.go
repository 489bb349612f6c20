package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/forest6511/hsimp/pkg/config"
)

// Setting keys shared by flags, HSIMP_* environment variables and the
// settings file.
const (
	keyConfig    = "config"
	keyOutput    = "output"
	keyLogLevel  = "log-level"
	keyLogFormat = "log-format"
	keyNoColor   = "no-color"
	keyEnvFile   = "env-file"
)

// settingsFileName is read from the config directory for CLI defaults.
const settingsFileName = "settings"

var (
	settings  = viper.New()
	logger    = zap.NewNop().Sugar()
	overrides *config.Partial
)

var rootCmd = &cobra.Command{
	Use:   "hsimp",
	Short: "How secure is my password?",
	Long: `hsimp estimates how long a password would take to crack by brute force
and flags common weaknesses such as short length, a single character class,
dates, keyboard runs and well-known passwords.

The built-in configuration can be overridden with a YAML, TOML or JSON file
passed via --config or found at $XDG_CONFIG_HOME/hsimp/config.{yaml,toml,json}.`,
	SilenceUsage: true,
	// PersistentPreRunE runs before every subcommand. It resolves settings,
	// initializes logging and loads the engine overrides.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnvFile(settings.GetString(keyEnvFile)); err != nil {
			return err
		}
		if err := loadSettings(); err != nil {
			return err
		}

		l, err := newLogger(settings.GetString(keyLogLevel), settings.GetString(keyLogFormat))
		if err != nil {
			return err
		}
		logger = l

		if settings.GetBool(keyNoColor) {
			color.NoColor = true
		}

		p, path, err := loadOverrides(settings.GetString(keyConfig))
		if err != nil {
			return err
		}
		overrides = p
		if path != "" {
			logger.Debugw("loaded configuration overrides", "path", path)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String(keyConfig, "", "engine configuration file (default $XDG_CONFIG_HOME/hsimp/config.yaml)")
	pf.StringP(keyOutput, "o", "text", "output format: text, json or yaml")
	pf.String(keyLogLevel, "warn", "log level: debug, info, warn or error")
	pf.String(keyLogFormat, "console", "log format: console or json")
	pf.Bool(keyNoColor, false, "disable colored output")
	pf.String(keyEnvFile, ".env", "dotenv file with HSIMP_* variables, ignored when missing")

	for _, key := range []string{keyConfig, keyOutput, keyLogLevel, keyLogFormat, keyNoColor, keyEnvFile} {
		_ = settings.BindPFlag(key, pf.Lookup(key))
	}

	settings.SetEnvPrefix("HSIMP")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
}

// loadEnvFile loads HSIMP_* variables from a dotenv file. Variables already
// present in the environment win.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// loadSettings reads CLI defaults from settings.{yaml,toml,json} in the
// config directory. A missing file is not an error.
func loadSettings() error {
	settings.SetConfigName(settingsFileName)
	settings.AddConfigPath(config.DefaultConfigDir())
	if err := settings.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read settings: %w", err)
	}
	return nil
}

// loadOverrides reads the engine configuration from path, or from the first
// config file in the config directory when path is empty.
func loadOverrides(path string) (*config.Partial, string, error) {
	if path == "" {
		path = config.FindConfigFile(config.DefaultConfigDir())
		if path == "" {
			return nil, "", nil
		}
	}
	p, err := config.LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	return p, path, nil
}

// newLogger builds a logger writing to stderr; stdout carries command output
// and the MCP protocol.
func newLogger(level, format string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
		cfg.Development = false
		cfg.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("invalid log format %q (expected console or json)", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return l.Sugar(), nil
}
