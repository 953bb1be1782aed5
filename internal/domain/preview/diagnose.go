package preview

import (
	"errors"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/filetype"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
	"github.com/dop251/goja/parser"
)

// Diagnostic is one syntax problem in a script.
type Diagnostic struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// Diagnose parses a JS file and reports syntax errors. The script is never
// executed. Other kinds have nothing to report.
func Diagnose(f *workspace.File) []Diagnostic {
	if f == nil || f.Kind != filetype.JS {
		return nil
	}
	return DiagnoseScript(f.Name, f.Content)
}

// DiagnoseScript parses src as a script named name.
func DiagnoseScript(name, src string) []Diagnostic {
	_, err := parser.ParseFile(nil, name, src, 0)
	if err == nil {
		return nil
	}

	var list parser.ErrorList
	if errors.As(err, &list) {
		out := make([]Diagnostic, 0, len(list))
		for _, e := range list {
			out = append(out, Diagnostic{
				Line:    e.Position.Line,
				Column:  e.Position.Column,
				Message: e.Message,
			})
		}
		return out
	}
	return []Diagnostic{{Message: err.Error()}}
}
