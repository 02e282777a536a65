package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-gotmpl"
)

// analyzeConfig holds parsed analyze command configuration
type analyzeConfig struct {
	templatePath string
	format       string
}

func runAnalyze(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseAnalyzeFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingTemplate, err)
		return ExitCodeUsageError
	}

	templateSource, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	engine := gotmpl.MustNew()
	analysis, err := engine.Analyze(string(templateSource))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgAnalyzeFailed, err)
		return ExitCodeError
	}

	if cfg.format == OutputFormatJSON {
		return outputAnalyzeJSON(analysis, stdout)
	}
	return outputAnalyzeText(analysis, stdout)
}

func parseAnalyzeFlags(args []string) (*analyzeConfig, error) {
	fs := flag.NewFlagSet(CmdNameAnalyze, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &analyzeConfig{}

	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}

	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

func outputAnalyzeText(analysis *gotmpl.Analysis, stdout io.Writer) int {
	if len(analysis.Functions) > 0 {
		fmt.Fprintln(stdout, AnalyzeTextFunctions)
		for _, call := range analysis.Functions {
			fmt.Fprintf(stdout, AnalyzeTextFuncLine+FmtNewline,
				call.Name, call.Position.Line, call.Position.Column)
		}
	}

	if len(analysis.Variables) > 0 {
		fmt.Fprintln(stdout, AnalyzeTextVariables)
		for _, access := range analysis.Variables {
			fmt.Fprintf(stdout, AnalyzeTextVarLine+FmtNewline,
				access.Path, access.Kind, access.Certainty,
				access.Position.Line, access.Position.Column)
		}
	}

	if len(analysis.Controls) > 0 {
		fmt.Fprintln(stdout, AnalyzeTextControls)
		for _, control := range analysis.Controls {
			fmt.Fprintf(stdout, AnalyzeTextCtrlLine+FmtNewline,
				control.Keyword, control.Position.Line, control.Position.Column,
				control.HasElse)
		}
	}

	return ExitCodeSuccess
}

func outputAnalyzeJSON(analysis *gotmpl.Analysis, stdout io.Writer) int {
	jsonBytes, _ := json.MarshalIndent(analysis, "", "  ")
	fmt.Fprintln(stdout, string(jsonBytes))
	return ExitCodeSuccess
}
