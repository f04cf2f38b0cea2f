package theo

import (
	"errors"
	"strconv"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-theo/internal"
)

// Error message constants
const (
	ErrMsgProcessFailed       = "template processing failed"
	ErrMsgLiteralYields       = "yields must be written as %yields=\"name\" on partial and component tags"
	ErrMsgDepthExceeded       = "maximum dialect nesting depth exceeded"
	ErrMsgNoPartialMarker     = "at least one of partial prefix and partial suffix must be set"
	ErrMsgNegativeMaxDepth    = "max depth cannot be negative"
	ErrMsgInvalidMarker       = "partial marker cannot contain whitespace or tag delimiters"
	ErrMsgEmptyComponentName  = "component name cannot be empty"
	ErrMsgComponentExists     = "component already registered"
	ErrMsgRegistryParseFailed = "failed to parse component manifest"
	ErrMsgConfigReadFailed    = "failed to read config file"
	ErrMsgConfigParseFailed   = "failed to parse config file"
	ErrMsgCacheDriverUnknown  = "unknown compile cache driver"
	ErrMsgNilCacheDriver      = "cache driver cannot be nil"
	ErrMsgCacheDriverExists   = "cache driver already registered"
	ErrMsgCacheClosed         = "compile cache is closed"
	ErrMsgCacheEmptyDigest    = "cache digest cannot be empty"
	ErrMsgPostgresEmptyDSN    = "postgres connection string cannot be empty"
	ErrMsgPostgresConnect     = "postgres connection failed"
	ErrMsgPostgresQuery       = "postgres query failed"
	ErrMsgPostgresMigrate     = "postgres migration failed"
)

// Error code constants for categorization
const (
	ErrCodeParse    = "THEO_PARSE"
	ErrCodeUsage    = "THEO_USAGE"
	ErrCodeDepth    = "THEO_DEPTH"
	ErrCodeConfig   = "THEO_CONFIG"
	ErrCodeRegistry = "THEO_REGISTRY"
)

// Position represents a location in the source template
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

func positionOf(p internal.Position) Position {
	return Position{Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func withPosition(err *cuserr.CustomError, pos Position) *cuserr.CustomError {
	return err.
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
}

// NewParseError creates a parse error with position context
func NewParseError(msg string, pos Position, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeParse, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeParse, msg)
	}
	return withPosition(err.WithMetadata(MetaKeyErrorCode, ErrCodeParse), pos)
}

// NewUsageError creates an error for dialect markup that cannot be rewritten,
// such as a literal yields attribute on a partial tag
func NewUsageError(msg, tagName, attrName string, pos Position) error {
	err := cuserr.NewValidationError(ErrCodeUsage, msg).
		WithMetadata(MetaKeyErrorCode, ErrCodeUsage).
		WithMetadata(MetaKeyTag, tagName).
		WithMetadata(MetaKeyAttribute, attrName)
	return withPosition(err, pos)
}

// NewDepthError creates an error for dialect nesting beyond the configured limit
func NewDepthError(tagName string, depth, maxDepth int, pos Position) error {
	err := cuserr.NewValidationError(ErrCodeDepth, ErrMsgDepthExceeded).
		WithMetadata(MetaKeyErrorCode, ErrCodeDepth).
		WithMetadata(MetaKeyTag, tagName).
		WithMetadata(MetaKeyCurrentDepth, strconv.Itoa(depth)).
		WithMetadata(MetaKeyMaxDepth, strconv.Itoa(maxDepth))
	return withPosition(err, pos)
}

// NewConfigError creates a configuration error
func NewConfigError(msg string, cause error) error {
	if cause != nil {
		return cuserr.WrapStdError(cause, ErrCodeConfig, msg).
			WithMetadata(MetaKeyErrorCode, ErrCodeConfig)
	}
	return cuserr.NewValidationError(ErrCodeConfig, msg).
		WithMetadata(MetaKeyErrorCode, ErrCodeConfig)
}

// NewComponentExistsError creates a registry collision error
func NewComponentExistsError(name string) error {
	return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgComponentExists).
		WithMetadata(MetaKeyErrorCode, ErrCodeRegistry).
		WithMetadata(MetaKeyComponent, name)
}

// ErrorCode returns the THEO_* code of an error created by this package, or ""
func ErrorCode(err error) string {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return ""
	}
	code, _ := customErr.GetMetadata(MetaKeyErrorCode)
	return code
}

// IsUsageError reports whether err is a dialect usage violation
func IsUsageError(err error) bool {
	return ErrorCode(err) == ErrCodeUsage
}

// IsDepthError reports whether err is a nesting depth violation
func IsDepthError(err error) bool {
	return ErrorCode(err) == ErrCodeDepth
}

// translateError maps pipeline errors to package errors and attaches the template name
func translateError(err error, templateName string) error {
	var (
		usageErr  *internal.UsageError
		depthErr  *internal.DepthError
		parserErr *internal.ParserError
		result    error
	)
	switch {
	case errors.As(err, &usageErr):
		msg := usageErr.Message
		if usageErr.Attribute == internal.SpecialAttrYields {
			msg = ErrMsgLiteralYields
		}
		result = NewUsageError(msg, usageErr.TagName, usageErr.Attribute, positionOf(usageErr.Position))
	case errors.As(err, &depthErr):
		result = NewDepthError(depthErr.TagName, depthErr.Depth, depthErr.MaxDepth, positionOf(depthErr.Position))
	case errors.As(err, &parserErr):
		result = NewParseError(ErrMsgProcessFailed, positionOf(parserErr.Position), err)
	default:
		result = NewParseError(ErrMsgProcessFailed, Position{}, err)
	}

	var customErr *cuserr.CustomError
	if templateName != "" && errors.As(result, &customErr) {
		return customErr.WithMetadata(MetaKeyTemplateName, templateName)
	}
	return result
}
