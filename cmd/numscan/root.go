package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/az-ai-labs/numscan/extract"
	"github.com/az-ai-labs/numscan/internal/config"
	"github.com/az-ai-labs/numscan/internal/logging"
	"github.com/az-ai-labs/numscan/lexicon"
)

// maxStdinBytes bounds what a command reads from standard input.
const maxStdinBytes = 1 << 20

var errNoInput = errors.New("no input")

// app carries the state built once per invocation by the root command.
type app struct {
	v          *viper.Viper
	configPath string

	cfg    config.Config
	logger *zap.Logger
	lex    *lexicon.Lexicon
	engine *extract.Engine
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "numscan",
		Short:         "Find numbers in English text and convert number words to values",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	config.RegisterFlags(pf)

	root.AddCommand(
		newParseCmd(a),
		newConvertCmd(a),
		newNormalizeCmd(a),
		newTokenizeCmd(),
		newEntitiesCmd(a),
		newSpellCmd(),
		newScanCmd(a),
	)
	return root
}

// setup loads the configuration and builds the logger and engine.
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.BindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	lex, err := lexicon.New(cfg.Lexicon)
	if err != nil {
		return fmt.Errorf("lexicon: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	a.lex = lex
	a.engine = extract.New(lex, extract.WithLogger(logger), extract.WithWorkers(cfg.Workers))
	logger.Debug("configured",
		zap.String("command", cmd.Name()),
		zap.String("config", a.configPath),
		zap.Int("workers", cfg.Workers),
		zap.Bool("signs", cfg.Lexicon.SignsAllowed),
		zap.Bool("mixed", cfg.Lexicon.MixedNums))
	return nil
}

// readInput joins args with spaces, or reads standard input when there are
// none.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxStdinBytes+1))
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if len(data) > maxStdinBytes {
		return "", fmt.Errorf("stdin exceeds %d bytes", maxStdinBytes)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return "", errNoInput
	}
	return string(data), nil
}
