package rcall

import (
	"strings"
)

// Arg is a single argument of an R call. Arguments without a name are positional.
type Arg struct {
	Name  string
	Value Value
}

// Pos returns a positional argument.
func Pos(v Value) Arg {
	return Arg{Value: v}
}

// Named returns a named argument.
func Named(name string, v Value) Arg {
	return Arg{Name: name, Value: v}
}

// Call is an R function call. Fn may be namespace qualified, e.g. forecast::meanf.
type Call struct {
	Fn   string
	Args []Arg
}

// NewCall creates a call to fn with the provided arguments.
func NewCall(fn string, args ...Arg) *Call {
	return &Call{Fn: fn, Args: args}
}

// With appends arguments to the call and returns it.
func (c *Call) With(args ...Arg) *Call {
	c.Args = append(c.Args, args...)
	return c
}

// Arg returns the value of the named argument and whether it is present.
func (c *Call) Arg(name string) (Value, bool) {
	for _, a := range c.Args {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

func (c *Call) render(sb *strings.Builder) {
	sb.WriteString(c.Fn)
	sb.WriteString("(")
	for i, a := range c.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		if a.Name != "" {
			sb.WriteString(QuoteName(a.Name))
			sb.WriteString(" = ")
		}
		renderValue(sb, a.Value)
	}
	sb.WriteString(")")
}

// String returns the R source of the call.
func (c *Call) String() string {
	return Render(c)
}
