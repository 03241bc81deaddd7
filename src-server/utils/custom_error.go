package utils

import (
	"fmt"
	"sort"
	"strings"
)

// Error carrying a message and the values that explain it, e.g. the line
// number a parser failed on.
type CustomError struct {
	msg  string
	args map[string]any
}

// Create a new custom error
func NewCustomError(msg string, args map[string]any) *CustomError {
	if args == nil {
		args = make(map[string]any)
	}
	return &CustomError{
		msg:  msg,
		args: args,
	}
}

// Get the error message, args sorted by key
func (e CustomError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.msg)
	if len(e.args) == 0 {
		return sb.String()
	}
	sb.WriteString(" |")
	keys := make([]string, 0, len(e.args))
	for key := range e.args {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		sb.WriteString(fmt.Sprintf(" %s: %v", key, e.args[key]))
	}
	return sb.String()
}

func (e CustomError) Message() string {
	return e.msg
}

// Get one of the values, nil when missing
func (e CustomError) Arg(key string) any {
	return e.args[key]
}

// Expose a wrapped "err" arg to errors.Is / errors.As
func (e CustomError) Unwrap() error {
	err, _ := e.args["err"].(error)
	return err
}
