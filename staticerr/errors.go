// Package staticerr defines the error types reported by staticify.
package staticerr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType defines the category of the error.
type ErrorType string

const (
	TypeSyntax   ErrorType = "SyntaxError"
	TypeSemantic ErrorType = "SemanticError"
	TypeConfig   ErrorType = "ConfigError"
)

// StaticifyError is the interface for all staticify errors.
type StaticifyError interface {
	error
	Type() ErrorType
}

// BaseError provides common fields for staticify errors.
type BaseError struct {
	Msg     string
	ErrType ErrorType
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("[%s] %s", e.ErrType, e.Msg)
}

func (e *BaseError) Type() ErrorType {
	return e.ErrType
}

// SyntaxError is reported by the Java parser.
type SyntaxError struct {
	BaseError
	Line     int
	Column   int
	FilePath string
}

func (e *SyntaxError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("[%s] %s:%d:%d %s", e.ErrType, e.FilePath, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("[%s] line %d:%d %s", e.ErrType, e.Line, e.Column, e.Msg)
}

// InFile returns a copy of e that reports filePath.
func (e *SyntaxError) InFile(filePath string) *SyntaxError {
	c := *e
	c.FilePath = filePath
	return &c
}

// SemanticError represents a failure to set up a recipe, such as an unknown
// recipe name or a missing option.
type SemanticError struct {
	BaseError
}

// ConfigError is reported while loading a declarative recipe file.
type ConfigError struct {
	BaseError
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] ", e.ErrType))
	if e.Path != "" {
		sb.WriteString(e.Path + ": ")
	}
	sb.WriteString(e.Msg)
	if e.Err != nil {
		sb.WriteString(": " + e.Err.Error())
	}
	return sb.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// MultiError collects multiple staticify errors.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d error(s) occurred:\n", len(m.Errors)))
	for _, err := range m.Errors {
		sb.WriteString(fmt.Sprintf("- %v\n", err))
	}
	return sb.String()
}

func (m *MultiError) Type() ErrorType {
	if len(m.Errors) > 0 {
		var se StaticifyError
		if errors.As(m.Errors[0], &se) {
			return se.Type()
		}
	}
	return "MultiError"
}

func (m *MultiError) Unwrap() []error { return m.Errors }

// ErrOrNil returns nil when no errors were collected.
func (m *MultiError) ErrOrNil() error {
	if m == nil || len(m.Errors) == 0 {
		return nil
	}
	return m
}

// NewSyntaxError creates a new SyntaxError.
func NewSyntaxError(line, column int, msg string) *SyntaxError {
	return &SyntaxError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeSyntax,
		},
		Line:   line,
		Column: column,
	}
}

// NewSemanticError creates a new SemanticError.
func NewSemanticError(msg string) *SemanticError {
	return &SemanticError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeSemantic,
		},
	}
}

// NewConfigError creates a ConfigError wrapping err.
func NewConfigError(path, msg string, err error) *ConfigError {
	return &ConfigError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeConfig,
		},
		Path: path,
		Err:  err,
	}
}
