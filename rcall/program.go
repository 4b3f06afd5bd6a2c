package rcall

import (
	"strings"
)

// ResultName is the variable a Program's result is bound to when rendered.
const ResultName = ".rf_result"

// Assign binds the value of an expression to a variable.
type Assign struct {
	Name  string
	Value Value
}

// Program is a short sequence of assignments followed by a result expression. Every call to
// the forecasting library is expressed as a Program so that engines only need to evaluate
// source and export a single value.
type Program struct {
	Steps  []Assign
	Result Value
}

// NewProgram returns a program producing result.
func NewProgram(result Value) *Program {
	return &Program{Result: result}
}

// Let adds an assignment evaluated before the result expression.
func (p *Program) Let(name string, v Value) *Program {
	p.Steps = append(p.Steps, Assign{Name: name, Value: v})
	return p
}

// String renders the program, one statement per line, binding the result to ResultName.
func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.Steps {
		sb.WriteString(QuoteName(s.Name))
		sb.WriteString(" <- ")
		renderValue(&sb, s.Value)
		sb.WriteString("\n")
	}
	sb.WriteString(ResultName)
	sb.WriteString(" <- ")
	renderValue(&sb, p.Result)
	sb.WriteString("\n")
	return sb.String()
}

// Lookup returns the value assigned to name, if any.
func (p *Program) Lookup(name string) (Value, bool) {
	for _, s := range p.Steps {
		if s.Name == name {
			return s.Value, true
		}
	}
	return nil, false
}
