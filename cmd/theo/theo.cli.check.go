package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-theo"
)

// checkConfig holds parsed check command configuration
type checkConfig struct {
	templatePath string
	configPath   string
	format       string
}

// checkOutput represents JSON output for check
type checkOutput struct {
	Valid bool              `json:"valid"`
	Error *checkErrorOutput `json:"error,omitempty"`
}

type checkErrorOutput struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Tag       string `json:"tag,omitempty"`
	Attribute string `json:"attribute,omitempty"`
}

func runCheck(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseCheckFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	source, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	config, err := loadConfig(cfg.configPath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgConfigFailed, err)
		return ExitCodeInputError
	}

	engine, err := config.NewEngine(nil)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEngineFailed, err)
		return ExitCodeError
	}

	_, processErr := engine.ProcessFile(templateName(cfg.templatePath), string(source))
	report := newCheckOutput(processErr)

	if cfg.format == OutputFormatJSON {
		jsonBytes, _ := json.MarshalIndent(report, "", "  ")
		fmt.Fprintln(stdout, string(jsonBytes))
	} else {
		outputCheckText(report, stdout)
	}

	if processErr != nil {
		return exitCodeFor(processErr)
	}
	return ExitCodeSuccess
}

func parseCheckFlags(args []string) (*checkConfig, error) {
	fs := flag.NewFlagSet(CmdNameCheck, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &checkConfig{}

	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.configPath, FlagConfig, "", "")
	fs.StringVar(&cfg.configPath, FlagConfigShort, "", "")
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

// newCheckOutput describes a processing result, reading position and tag from error metadata
func newCheckOutput(err error) checkOutput {
	if err == nil {
		return checkOutput{Valid: true}
	}

	out := &checkErrorOutput{
		Code:    theo.ErrorCode(err),
		Message: err.Error(),
	}

	var customErr *cuserr.CustomError
	if errors.As(err, &customErr) {
		out.Line = metadataInt(customErr, theo.MetaKeyLine)
		out.Column = metadataInt(customErr, theo.MetaKeyColumn)
		out.Tag, _ = customErr.GetMetadata(theo.MetaKeyTag)
		out.Attribute, _ = customErr.GetMetadata(theo.MetaKeyAttribute)
	}

	return checkOutput{Valid: false, Error: out}
}

func metadataInt(err *cuserr.CustomError, key string) int {
	value, ok := err.GetMetadata(key)
	if !ok {
		return 0
	}
	n, _ := strconv.Atoi(value)
	return n
}

func outputCheckText(report checkOutput, stdout io.Writer) {
	if report.Valid {
		fmt.Fprintln(stdout, CheckTextSuccess)
		return
	}
	fmt.Fprintf(stdout, CheckTextErrorFormat+FmtNewline,
		report.Error.Code, report.Error.Message,
		strconv.Itoa(report.Error.Line), strconv.Itoa(report.Error.Column))
}
