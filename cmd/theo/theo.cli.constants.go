package main

// Command names
const (
	CmdNameCompile = "compile"
	CmdNameBuild   = "build"
	CmdNameCheck   = "check"
	CmdNameVersion = "version"
	CmdNameHelp    = "help"
)

// Flag names - long form
const (
	FlagTemplate = "template"
	FlagOutput   = "output"
	FlagConfig   = "config"
	FlagVerbose  = "verbose"
	FlagQuiet    = "quiet"
	FlagFormat   = "format"
)

// Flag names - short form
const (
	FlagTemplateShort = "t"
	FlagOutputShort   = "o"
	FlagConfigShort   = "c"
	FlagVerboseShort  = "v"
	FlagQuietShort    = "q"
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
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Build discovery
const (
	TemplateExt            = ".theo"
	DefaultBuildPattern    = "./..."
	RecursivePatternSuffix = "..."
	DefaultConfigFile      = "theo.yaml"
)

// skippedDirs are never descended into by recursive build patterns
var skippedDirs = map[string]struct{}{
	"vendor":       {},
	"node_modules": {},
}

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand    = "unknown command"
	ErrMsgMissingTemplate   = "template source required"
	ErrMsgReadFileFailed    = "failed to read file"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgCompileFailed     = "template compilation failed"
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgInvalidFlags      = "invalid flags"
	ErrMsgConfigFailed      = "failed to load configuration"
	ErrMsgEngineFailed      = "failed to create engine"
	ErrMsgCacheFailed       = "failed to open compile cache"
	ErrMsgCollectFailed     = "failed to collect templates"
	ErrMsgNotATemplate      = "not a .theo file"
	ErrMsgNoTemplates       = "no .theo files found"
	ErrMsgWorkingDirFailed  = "failed to determine working directory"
)

// Help text templates
const (
	HelpMainUsage = `go-theo - Theo to ERB template preprocessor

Usage:
    theo <command> [options]

Commands:
    compile     Compile one template to ERB
    build       Compile every .theo file under the given paths
    check       Check a template for errors without writing output
    version     Show version information
    help        Show help for a command

Use "theo help <command>" for more information about a command.`

	HelpCompileUsage = `Compile one template to ERB

Usage:
    theo compile [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -o, --output <file>     Output file (default: stdout)
    -c, --config <file>     Config file (default: theo.yaml if present)
    -v, --verbose           Log processing details to stderr

Examples:
    theo compile -t show.html.erb.theo
    theo compile -t show.html.erb.theo -o show.html.erb
    cat card.theo | theo compile -t -`

	HelpBuildUsage = `Compile every .theo file under the given paths

Each file is written next to its source without the .theo extension:
show.html.erb.theo becomes show.html.erb.

Usage:
    theo build [options] [paths...]

Paths:
    ./...           recurse from the current directory (default)
    ./dir           .theo files directly in dir
    ./dir/...       recurse from dir
    ./file.theo     a single file

Options:
    -c, --config <file>     Config file (default: theo.yaml if present)
    -q, --quiet             Suppress per-file output
    -v, --verbose           Log processing details to stderr

Examples:
    theo build
    theo build ./app/views/...
    theo build -c theo.yaml ./app/views/users`

	HelpCheckUsage = `Check a template for errors without writing output

Usage:
    theo check [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -c, --config <file>     Config file (default: theo.yaml if present)
    -F, --format <format>   Output format: text, json (default: text)

Examples:
    theo check -t show.html.erb.theo
    theo check -t show.html.erb.theo -F json`

	HelpVersionUsage = `Show version information

Usage:
    theo version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    theo help [command]

Commands:
    compile     Show help for compile command
    build       Show help for build command
    check       Show help for check command
    version     Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate = "go-theo version %s\nGo: %s"
)

// Check output format templates
const (
	CheckTextSuccess     = "Template is valid"
	CheckTextErrorFormat = "[%s] %s at line %s, column %s"
)

// Build output format templates
const (
	BuildTextWrote   = "wrote %s"
	BuildTextFailed  = "%s: %v"
	BuildTextSummary = "%d file(s) compiled, %d failed"
)

// CLI metadata
const (
	CLIName        = "theo"
	CLIDescription = "Theo to ERB template preprocessor"
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
	FmtPathDetail      = "%s: %s"
)
