package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/forest6511/hsimp/internal/cli"
	"github.com/forest6511/hsimp/pkg/config"
	"github.com/forest6511/hsimp/pkg/security"
	"github.com/forest6511/hsimp/pkg/strength"
)

// Check command flags
var (
	checkCalcs          float64
	checkAverageCase    bool
	checkDictionary     string
	checkDictionaryMode string
	checkSkip           []string
	checkVerbose        bool
	checkNormalize      bool
	checkUserInputs     []string
)

func init() {
	rootCmd.AddCommand(checkCmd)
	addCheckFlags(checkCmd.Flags())

	_ = checkCmd.RegisterFlagCompletionFunc("dictionary-mode", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(strength.DictionaryAugment), string(strength.DictionarySuppress)}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = checkCmd.RegisterFlagCompletionFunc("skip", completePatternIDs)
}

// addCheckFlags binds the check flags to their package variables.
func addCheckFlags(fs *pflag.FlagSet) {
	fs.Float64Var(&checkCalcs, "calcs", 0, "guesses per second assumed for the attacker (default from config)")
	fs.BoolVar(&checkAverageCase, "average-case", false, "assume the password is found half way through the keyspace")
	fs.StringVar(&checkDictionary, "dictionary", "", "file with one common password per line, replaces the built-in list")
	fs.StringVar(&checkDictionaryMode, "dictionary-mode", "", "augment or suppress pattern checks for dictionary hits")
	fs.StringArrayVar(&checkSkip, "skip", nil, "skip pattern checks whose id matches the glob (repeatable)")
	fs.BoolVarP(&checkVerbose, "verbose", "v", false, "show the analysis and a second-opinion score")
	fs.BoolVar(&checkNormalize, "normalize", true, "normalize the password to Unicode NFC before checking")
	fs.StringSliceVar(&checkUserInputs, "user-input", nil, "words the second opinion should penalize, such as a user name")
}

var checkCmd = &cobra.Command{
	Use:   "check [password]",
	Short: "Estimate how long a password takes to crack",
	Long: `Estimate how long a password would take to crack by brute force and list
the weaknesses it shows.

When no password argument is given it is read from a hidden prompt, or from the
first line of standard input when input is not a terminal. Passing the password
as an argument leaves it in your shell history.

Examples:
  # Prompt for the password
  hsimp check

  # Read from a pipe and print JSON
  echo 'monkey12' | hsimp check -o json

  # Assume a slower attacker and skip the telephone/date check
  hsimp check --calcs 1e6 --skip 'telephone-*'

  # Skip every length check
  hsimp check --skip 'length-*'`,
	Args: cobra.MaximumNArgs(1),
	RunE: executeCheck,
}

func executeCheck(cmd *cobra.Command, args []string) error {
	format := settings.GetString(keyOutput)
	if err := validateFormat(format, formatText, formatJSON, formatYAML); err != nil {
		return err
	}

	engine, err := buildCheckEngine(cmd.Flags())
	if err != nil {
		return err
	}

	var password []byte
	if len(args) == 1 {
		password = []byte(args[0])
	} else {
		password, err = cli.ReadPassword(os.Stdin, os.Stderr)
		if err != nil {
			return err
		}
	}
	defer cli.SecureWipe(password)

	return runCheck(cmd.OutOrStdout(), engine, string(password), format)
}

// runCheck evaluates password and writes the report in format.
func runCheck(w io.Writer, engine *strength.Engine, password, format string) error {
	if checkNormalize {
		password = config.NormalizePassword(password)
	}

	a := engine.Analyze(password)
	logger.Debugw("evaluated password", "level", a.Result.Level, "checks", len(a.Result.Checks))

	report := &checkReport{Result: a.Result}
	if checkVerbose {
		report.Analysis = newAnalysisReport(a)
		report.Assessment = security.Score(password, a.Result, a.InDictionary, checkUserInputs)
	}

	if format == formatText {
		writeCheckText(w, report)
		return nil
	}
	return writeStructured(w, format, report)
}

// buildCheckEngine merges the built-in configuration, the config file
// overrides and the command flags, in that order.
func buildCheckEngine(fs *pflag.FlagSet) (*strength.Engine, error) {
	flags, err := checkFlagOverrides(fs)
	if err != nil {
		return nil, err
	}
	cfg := config.Overlay(config.Default(), overrides, flags)

	if len(checkSkip) > 0 {
		patterns, err := cli.SkipPatterns(cfg.Checks.Patterns, checkSkip)
		if err != nil {
			return nil, err
		}
		logger.Debugw("skipping checks", "before", len(cfg.Checks.Patterns), "after", len(patterns))
		cfg.Checks.Patterns = patterns
	}

	engine, err := strength.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return engine, nil
}

// checkFlagOverrides turns the explicitly set flags into a Partial.
func checkFlagOverrides(fs *pflag.FlagSet) (*config.Partial, error) {
	p := &config.Partial{
		Calculation: &config.PartialCalculation{},
		Checks:      &config.PartialChecks{},
	}
	if fs.Changed("calcs") {
		p.Calculation.Calcs = config.Ptr(checkCalcs)
	}
	if fs.Changed("average-case") {
		p.Calculation.AverageCase = config.Ptr(checkAverageCase)
	}
	if checkDictionary != "" {
		words, err := config.LoadDictionary(checkDictionary)
		if err != nil {
			return nil, err
		}
		p.Checks.Dictionary = words
	}
	if checkDictionaryMode != "" {
		p.Checks.DictionaryMode = config.Ptr(strength.DictionaryMode(checkDictionaryMode))
	}
	return p, nil
}

// completePatternIDs completes --skip with the default check ids.
func completePatternIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return cli.SortKeys(cli.PatternIDs(config.DefaultPatterns())), cobra.ShellCompDirectiveNoFileComp
}
