package main

// Command names
const (
	CmdNameRender  = "render"
	CmdNameLint    = "lint"
	CmdNameAnalyze = "analyze"
	CmdNameFuncs   = "funcs"
	CmdNameVersion = "version"
	CmdNameHelp    = "help"
)

// Flag names - long form
const (
	FlagTemplate = "template"
	FlagData     = "data"
	FlagDataFile = "data-file"
	FlagOutput   = "output"
	FlagFormat   = "format"
	FlagStrict   = "strict"
)

// Flag names - short form
const (
	FlagTemplateShort = "t"
	FlagDataShort     = "d"
	FlagDataFileShort = "f"
	FlagOutputShort   = "o"
	FlagFormatShort   = "F"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess    = 0
	ExitCodeError      = 1
	ExitCodeUsageError = 2
	ExitCodeLintError  = 3
	ExitCodeInputError = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Data file extensions parsed as YAML
const (
	DataFileExtYAML = ".yaml"
	DataFileExtYML  = ".yml"
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand    = "unknown command"
	ErrMsgMissingTemplate   = "template source required"
	ErrMsgInvalidData       = "invalid data"
	ErrMsgReadFileFailed    = "failed to read file"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgRenderFailed      = "template rendering failed"
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgAnalyzeFailed     = "template analysis failed"
)

// Help text templates
const (
	HelpMainUsage = `gotmpl - template rendering and analysis CLI

Usage:
    gotmpl <command> [options]

Commands:
    render      Render a template with data
    lint        Parse-check a template without rendering
    analyze     Show a template's static inventory
    funcs       List registered helper functions
    version     Show version information
    help        Show help for a command

Use "gotmpl help <command>" for more information about a command.`

	HelpRenderUsage = `Render a template with data

Usage:
    gotmpl render [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -d, --data <json>       Inline JSON data string
    -f, --data-file <file>  Data file (.json, .yaml, .yml)
    -o, --output <file>     Output file (default: stdout)

Examples:
    gotmpl render -t greeting.tmpl -d '{"name": "Alice"}'
    gotmpl render -t greeting.tmpl -f data.yaml
    cat greeting.tmpl | gotmpl render -t - -d '{"name": "Bob"}'`

	HelpLintUsage = `Parse-check a template without rendering

Usage:
    gotmpl lint [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -F, --format <format>   Output format: text, json (default: text)
    --strict                Treat analysis warnings as errors

Examples:
    gotmpl lint -t greeting.tmpl
    gotmpl lint -t greeting.tmpl --strict
    cat greeting.tmpl | gotmpl lint -t -`

	HelpAnalyzeUsage = `Show a template's static inventory

Usage:
    gotmpl analyze [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -F, --format <format>   Output format: text, json (default: text)

Examples:
    gotmpl analyze -t greeting.tmpl
    gotmpl analyze -t greeting.tmpl -F json`

	HelpFuncsUsage = `List registered helper functions

Usage:
    gotmpl funcs [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpVersionUsage = `Show version information

Usage:
    gotmpl version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    gotmpl help [command]

Commands:
    render      Show help for render command
    lint        Show help for lint command
    analyze     Show help for analyze command
    funcs       Show help for funcs command
    version     Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate = "gotmpl version %s\nGo: %s"
)

// Lint output format templates
const (
	LintTextValid        = "Template is valid"
	LintTextParseError   = "Parse error"
	LintTextIssueHeader  = "Issues:"
	LintTextIssueFormat  = "  [%s] %s: %s (line %d, column %d)"
	LintTextIssueSummary = "%d issue(s)"
)

// Analyze output format templates
const (
	AnalyzeTextFunctions = "Functions:"
	AnalyzeTextVariables = "Variables:"
	AnalyzeTextControls  = "Controls:"
	AnalyzeTextFuncLine  = "  %s (line %d, column %d)"
	AnalyzeTextVarLine   = "  %s [%s, %s] (line %d, column %d)"
	AnalyzeTextCtrlLine  = "  %s (line %d, column %d, else=%t)"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
)
