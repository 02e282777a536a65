package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-gotmpl"
)

// lintConfig holds parsed lint command configuration
type lintConfig struct {
	templatePath string
	format       string
	strict       bool
}

// lintIssue represents a single lint finding
type lintIssue struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Name     string `json:"name,omitempty"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// lintOutput represents JSON output for lint
type lintOutput struct {
	Valid  bool        `json:"valid"`
	Error  string      `json:"error,omitempty"`
	Issues []lintIssue `json:"issues,omitempty"`
}

func runLint(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseLintFlags(args)
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
	tmpl, parseErr := engine.Parse("", string(templateSource))

	var issues []lintIssue
	if parseErr == nil {
		analysis := tmpl.Analyze(nil)
		for _, issue := range analysis.Issues {
			issues = append(issues, lintIssue{
				Severity: issue.Severity,
				Message:  issue.Message,
				Name:     issue.Name,
				Line:     issue.Position.Line,
				Column:   issue.Position.Column,
			})
		}
	}

	if cfg.format == OutputFormatJSON {
		return outputLintJSON(parseErr, issues, cfg.strict, stdout)
	}
	return outputLintText(parseErr, issues, cfg.strict, stdout)
}

func parseLintFlags(args []string) (*lintConfig, error) {
	fs := flag.NewFlagSet(CmdNameLint, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &lintConfig{}

	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.BoolVar(&cfg.strict, FlagStrict, false, "")

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

// hasWarning reports whether any finding is warning severity.
func hasWarning(issues []lintIssue) bool {
	for _, issue := range issues {
		if issue.Severity == gotmpl.SeverityWarning {
			return true
		}
	}
	return false
}

func outputLintText(parseErr error, issues []lintIssue, strict bool, stdout io.Writer) int {
	if parseErr != nil {
		fmt.Fprintf(stdout, FmtErrorWithCause, LintTextParseError, parseErr)
		return ExitCodeLintError
	}

	if len(issues) == 0 {
		fmt.Fprintln(stdout, LintTextValid)
		return ExitCodeSuccess
	}

	fmt.Fprintln(stdout, LintTextIssueHeader)
	for _, issue := range issues {
		fmt.Fprintf(stdout, LintTextIssueFormat+FmtNewline,
			issue.Severity, issue.Message, issue.Name, issue.Line, issue.Column)
	}
	fmt.Fprintf(stdout, LintTextIssueSummary+FmtNewline, len(issues))

	if strict && hasWarning(issues) {
		return ExitCodeLintError
	}
	return ExitCodeSuccess
}

func outputLintJSON(parseErr error, issues []lintIssue, strict bool, stdout io.Writer) int {
	output := lintOutput{
		Valid:  parseErr == nil && (!strict || !hasWarning(issues)),
		Issues: issues,
	}
	if parseErr != nil {
		output.Error = parseErr.Error()
	}

	jsonBytes, _ := json.MarshalIndent(output, "", "  ")
	fmt.Fprintln(stdout, string(jsonBytes))

	if !output.Valid {
		return ExitCodeLintError
	}
	return ExitCodeSuccess
}
