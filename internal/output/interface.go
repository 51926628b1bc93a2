package output

import (
	"fmt"
	"io"

	v1 "github.com/OriD-19/fpsmeter/api/v1"
)

type ParameterOutputFunc func(v1.Parameter, io.Writer) error

func (fn ParameterOutputFunc) OutputParam(par v1.Parameter, w io.Writer) error {
	return fn(par, w)
}

// ParameterOutput writes one record in some format.
type ParameterOutput interface {
	OutputParam(v1.Parameter, io.Writer) error
}

// ForFormat returns the printer for "text" or "json".
func ForFormat(format string, pretty bool) (ParameterOutput, error) {
	switch format {
	case "text", "":
		return &TextOutput{}, nil
	case "json":
		return &JsonOutput{Pretty: pretty}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %v", format)
	}
}
