package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/forest6511/hsimp/pkg/config"
	"github.com/forest6511/hsimp/pkg/strength"
)

var configShowWithDictionary bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configPathCmd)

	configShowCmd.Flags().BoolVar(&configShowWithDictionary, "with-dictionary", false, "include the full dictionary")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and validate the engine configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the built-in configuration merged with the overrides file.

The output format follows --output; text prints YAML. TOML is also accepted.
The dictionary is summarized unless --with-dictionary is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := settings.GetString(keyOutput)
		if format == formatText {
			format = formatYAML
		}
		if err := validateFormat(format, formatYAML, formatJSON, formatTOML); err != nil {
			return err
		}
		return showConfig(cmd.OutOrStdout(), config.Merge(config.Default(), overrides), format)
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check that an overrides file builds a working engine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateConfigFile(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", args[0])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print where configuration files are looked up",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		dir := config.DefaultConfigDir()
		fmt.Fprintf(w, "directory: %s\n", dir)
		if path := config.FindConfigFile(dir); path != "" {
			fmt.Fprintf(w, "config:    %s\n", path)
		} else {
			fmt.Fprintln(w, "config:    (none, built-in defaults)")
		}
		if used := settings.ConfigFileUsed(); used != "" {
			fmt.Fprintf(w, "settings:  %s\n", used)
		}
		return nil
	},
}

// shownConfig replaces the dictionary with its size unless it is requested.
type shownConfig struct {
	Calculation strength.Calculation `json:"calculation" yaml:"calculation" toml:"calculation"`
	Time        strength.Time        `json:"time" yaml:"time" toml:"time"`
	Checks      shownChecks          `json:"checks" yaml:"checks" toml:"checks"`
}

type shownChecks struct {
	DictionarySize int                     `json:"dictionarySize" yaml:"dictionarySize" toml:"dictionarySize"`
	Dictionary     []string                `json:"dictionary,omitempty" yaml:"dictionary,omitempty" toml:"dictionary,omitempty"`
	DictionaryMode strength.DictionaryMode `json:"dictionaryMode" yaml:"dictionaryMode" toml:"dictionaryMode"`
	Patterns       []strength.Pattern      `json:"patterns" yaml:"patterns" toml:"patterns"`
	Messages       []strength.Message      `json:"messages" yaml:"messages" toml:"messages"`
}

func showConfig(w io.Writer, cfg strength.Config, format string) error {
	shown := shownConfig{
		Calculation: cfg.Calculation,
		Time:        cfg.Time,
		Checks: shownChecks{
			DictionarySize: len(cfg.Checks.Dictionary),
			DictionaryMode: cfg.Checks.DictionaryMode,
			Patterns:       cfg.Checks.Patterns,
			Messages:       cfg.Checks.Messages,
		},
	}
	if configShowWithDictionary {
		shown.Checks.Dictionary = cfg.Checks.Dictionary
	}
	return writeStructured(w, format, shown)
}

// validateConfigFile loads path, merges it over the defaults and compiles
// the result.
func validateConfigFile(path string) error {
	p, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	if _, err := config.Build(p); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logger.Debugw("configuration is valid", "path", path)
	return nil
}
