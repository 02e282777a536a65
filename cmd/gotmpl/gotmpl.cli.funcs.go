package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-gotmpl"
)

// funcsConfig holds parsed funcs command configuration
type funcsConfig struct {
	format string
}

// funcsOutput represents JSON output for funcs
type funcsOutput struct {
	Count int      `json:"count"`
	Names []string `json:"names"`
}

func runFuncs(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFuncsFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFormat, err)
		return ExitCodeUsageError
	}

	registry := gotmpl.DefaultRegistry()

	if cfg.format == OutputFormatJSON {
		output := funcsOutput{
			Count: registry.Count(),
			Names: registry.Names(),
		}
		jsonBytes, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	for _, name := range registry.Names() {
		fmt.Fprintln(stdout, name)
	}
	return ExitCodeSuccess
}

func parseFuncsFlags(args []string) (*funcsConfig, error) {
	fs := flag.NewFlagSet(CmdNameFuncs, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &funcsConfig{}
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}
