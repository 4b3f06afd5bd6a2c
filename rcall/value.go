// Package rcall renders Go values as R source. It is the argument translation layer between
// Go option structs and the call conventions of R functions: vectors become c(...), unset
// options become NULL or NA, and snake_case option names become R's dotted names.
package rcall

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Value is anything that can be rendered as an R expression.
type Value interface {
	render(sb *strings.Builder)
}

// Render returns the R source for v. A nil Value renders as NULL.
func Render(v Value) string {
	var sb strings.Builder
	renderValue(&sb, v)
	return sb.String()
}

func renderValue(sb *strings.Builder, v Value) {
	if v == nil {
		sb.WriteString("NULL")
		return
	}
	v.render(sb)
}

type nullValue struct{}

func (nullValue) render(sb *strings.Builder) { sb.WriteString("NULL") }

type naValue struct{}

func (naValue) render(sb *strings.Builder) { sb.WriteString("NA") }

var (
	// Null is R's NULL, used for options left for R to decide.
	Null Value = nullValue{}

	// NA is R's missing value marker.
	NA Value = naValue{}
)

// Bool is an R logical scalar.
type Bool bool

func (b Bool) render(sb *strings.Builder) {
	if b {
		sb.WriteString("TRUE")
		return
	}
	sb.WriteString("FALSE")
}

// Num is an R double scalar. NaN is passed as NA.
type Num float64

func (n Num) render(sb *strings.Builder) { sb.WriteString(formatFloat(float64(n))) }

// Int is an R numeric scalar holding an integral value.
type Int int

func (i Int) render(sb *strings.Builder) { sb.WriteString(strconv.Itoa(int(i))) }

// Str is an R character scalar.
type Str string

func (s Str) render(sb *strings.Builder) { sb.WriteString(strconv.Quote(string(s))) }

// Nums is an R double vector. NaN elements are passed as NA.
type Nums []float64

func (n Nums) render(sb *strings.Builder) {
	if len(n) == 0 {
		sb.WriteString("numeric(0)")
		return
	}
	sb.WriteString("c(")
	for i, v := range n {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(formatFloat(v))
	}
	sb.WriteString(")")
}

// Ints is an R numeric vector of integral values.
type Ints []int

func (n Ints) render(sb *strings.Builder) {
	if len(n) == 0 {
		sb.WriteString("numeric(0)")
		return
	}
	sb.WriteString("c(")
	for i, v := range n {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(v))
	}
	sb.WriteString(")")
}

// Strs is an R character vector.
type Strs []string

func (s Strs) render(sb *strings.Builder) {
	if len(s) == 0 {
		sb.WriteString("character(0)")
		return
	}
	sb.WriteString("c(")
	for i, v := range s {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(v))
	}
	sb.WriteString(")")
}

// Symbol references an R variable by name.
type Symbol string

func (s Symbol) render(sb *strings.Builder) { sb.WriteString(QuoteName(string(s))) }

// Matrix is a numeric R matrix built column by column from a gonum matrix. A nil matrix
// renders as NULL.
type Matrix struct {
	M mat.Matrix
}

func (m Matrix) render(sb *strings.Builder) {
	if m.M == nil {
		sb.WriteString("NULL")
		return
	}
	r, c := m.M.Dims()
	data := make([]float64, 0, r*c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			data = append(data, m.M.At(i, j))
		}
	}
	sb.WriteString("matrix(")
	Nums(data).render(sb)
	sb.WriteString(", nrow = ")
	sb.WriteString(strconv.Itoa(r))
	sb.WriteString(", ncol = ")
	sb.WriteString(strconv.Itoa(c))
	sb.WriteString(")")
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NA"
	case math.IsInf(v, 1):
		return "Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// DotName converts a snake_case option name to the dotted form R functions use, e.g.
// additive_only becomes additive.only.
func DotName(name string) string {
	return strings.ReplaceAll(name, "_", ".")
}

var syntacticName = regexp.MustCompile(`^((\pL|\.[\pL._])[\pL\pN._]*|\.)$`)

var reservedWords = map[string]struct{}{
	"if": {}, "else": {}, "repeat": {}, "while": {}, "function": {}, "for": {}, "next": {},
	"break": {}, "TRUE": {}, "FALSE": {}, "NULL": {}, "Inf": {}, "NaN": {}, "NA": {},
	"NA_integer_": {}, "NA_real_": {}, "NA_character_": {}, "in": {},
}

// QuoteName returns name unchanged when it is a syntactic R name, otherwise it is wrapped
// in backquotes.
func QuoteName(name string) string {
	if _, reserved := reservedWords[name]; !reserved && syntacticName.MatchString(name) {
		return name
	}
	return "`" + strings.ReplaceAll(name, "`", "\\`") + "`"
}
