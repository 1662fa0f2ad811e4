package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	stringprocessor "github.com/baditaflorin/go_string_processor"
	"github.com/baditaflorin/go_string_processor/internal/adapters/logger"
	"github.com/baditaflorin/go_string_processor/internal/config"
	"github.com/baditaflorin/go_string_processor/internal/ports"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

// cli carries flag state for one command tree.
type cli struct {
	v          *viper.Viper
	configPath string
	verbose    bool
	inputFile  string
}

func newRootCmd() *cobra.Command {
	c := &cli{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "strproc",
		Short: "Reverse, uppercase and strip spaces from text",
		Long: `strproc applies simple text transformations.

Input is taken from the positional arguments (joined by single spaces),
from --file, or from standard input when neither is given. One trailing
"\n" or "\r\n" is dropped from file and stdin input.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("strproc version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "Config file (default: ./strproc.yaml if present)")
	pf.String("reverse-unit", "runes", "Reverse by: runes, bytes or graphemes")
	pf.String("case-mapping", "simple", "Uppercase table: simple, ascii or full")
	pf.String("space-class", "space", "Characters to remove: space, ascii-whitespace or unicode-whitespace")
	pf.Bool("log-json", false, "Write JSON log records")
	pf.String("log-file", "", "Append log records to this file")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "Log processing details to stderr")

	for key, flag := range map[string]string{
		"processor.reverse_unit": "reverse-unit",
		"processor.case_mapping": "case-mapping",
		"processor.space_class":  "space-class",
		"logging.json":           "log-json",
		"logging.file":           "log-file",
	} {
		// Lookup cannot fail for flags registered above.
		_ = c.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		c.newOperationCmd("reverse", "Reverse text", stringprocessor.OpReverse, "rev"),
		c.newOperationCmd("upper", "Uppercase text", stringprocessor.OpToUpper, "to-upper"),
		c.newOperationCmd("remove-spaces", "Remove spaces from text", stringprocessor.OpRemoveSpaces, "nospace"),
		c.newApplyCmd(),
		c.newConfigCmd(),
	)
	return root
}

// setup loads configuration and builds the logger and processor for a run.
func (c *cli) setup(cmd *cobra.Command) (*stringprocessor.StringProcessor, ports.Logger, error) {
	loaded, err := config.Load(c.v, c.configPath)
	if err != nil {
		return nil, nil, err
	}
	cfg := loaded.Config

	log := logger.NewNopLogger()
	if c.verbose || cfg.Logging.File != "" {
		log, err = logger.NewStdLogger(logger.Options{
			JSON:   cfg.Logging.JSON,
			File:   cfg.Logging.File,
			Output: cmd.ErrOrStderr(),
		})
		if err != nil {
			return nil, nil, err
		}
	}

	opts, err := cfg.Processor.Options()
	if err != nil {
		log.Close()
		return nil, nil, err
	}
	sp, err := stringprocessor.New(append(opts, stringprocessor.WithLogger(log))...)
	if err != nil {
		log.Close()
		return nil, nil, err
	}

	log.Debug("Configuration loaded",
		"config_file", loaded.ConfigFile,
		"used_defaults", loaded.UsedDefaults,
	)
	return sp, log, nil
}

// readInput resolves the text to transform.
func (c *cli) readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		if c.inputFile != "" {
			return "", fmt.Errorf("use either positional text or --file, not both")
		}
		return strings.Join(args, " "), nil
	}

	var data []byte
	var err error
	if c.inputFile != "" {
		data, err = os.ReadFile(c.inputFile)
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	text := string(data)
	if strings.HasSuffix(text, "\n") {
		text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")
	}
	return text, nil
}

func (c *cli) run(cmd *cobra.Command, args []string, ops []stringprocessor.Operation) error {
	input, err := c.readInput(cmd, args)
	if err != nil {
		return err
	}

	sp, log, err := c.setup(cmd)
	if err != nil {
		return err
	}
	defer log.Close()

	out, err := sp.Apply(input, ops...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
