// Package robject decodes R values exported by the engine prelude into Go. An Object is an
// opaque handle on an R value: callers reach into it by slot name and convert the slots they
// need into slices or gonum matrices.
package robject

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/goccy/go-json"
	"gonum.org/v1/gonum/mat"
)

const (
	TypeDouble    = "double"
	TypeCharacter = "character"
	TypeList      = "list"
	TypeOpaque    = "opaque"
)

var (
	ErrMissingField = errors.New("missing field")
	ErrNotNumeric   = errors.New("value is not numeric")
	ErrNotMatrix    = errors.New("value is not a matrix")
	ErrColumnRange  = errors.New("column index out of range")
)

// Object is a decoded R value. Atomic vectors populate Values or Strings, lists populate
// Fields keyed by slot name. Dim, Tsp and ColNames mirror the R attributes of the same name.
type Object struct {
	Type     string             `json:"type"`
	Class    []string           `json:"class,omitempty"`
	Values   Doubles            `json:"values,omitempty"`
	Strings  []string           `json:"strings,omitempty"`
	Dim      []int              `json:"dim,omitempty"`
	Tsp      []float64          `json:"tsp,omitempty"`
	ColNames []string           `json:"colnames,omitempty"`
	Fields   map[string]*Object `json:"fields,omitempty"`
}

// Doubles is a numeric vector where R's missing values are carried as NaN. On the wire
// NA, NaN and infinite values are encoded as null.
type Doubles []float64

func (d *Doubles) UnmarshalJSON(b []byte) error {
	var raw []*float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	*d = out
	return nil
}

func (d Doubles) MarshalJSON() ([]byte, error) {
	raw := make([]*float64, len(d))
	for i := range d {
		if math.IsNaN(d[i]) || math.IsInf(d[i], 0) {
			continue
		}
		raw[i] = &d[i]
	}
	return json.Marshal(raw)
}

// Decode parses a JSON encoded R value.
func Decode(b []byte) (*Object, error) {
	var o Object
	if err := json.Unmarshal(b, &o); err != nil {
		return nil, fmt.Errorf("unable to decode r object, %w", err)
	}
	return &o, nil
}

// NewDoubles returns a numeric vector object.
func NewDoubles(values []float64, class ...string) *Object {
	return &Object{Type: TypeDouble, Class: class, Values: values}
}

// NewStrings returns a character vector object.
func NewStrings(values ...string) *Object {
	return &Object{Type: TypeCharacter, Class: []string{"character"}, Strings: values}
}

// NewMatrix returns a numeric matrix object holding m in column-major order like R does.
func NewMatrix(m mat.Matrix) *Object {
	r, c := m.Dims()
	values := make([]float64, 0, r*c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			values = append(values, m.At(i, j))
		}
	}
	return &Object{Type: TypeDouble, Class: []string{"matrix", "array"}, Values: values, Dim: []int{r, c}}
}

// NewList returns a list object with the provided class and slots.
func NewList(fields map[string]*Object, class ...string) *Object {
	return &Object{Type: TypeList, Class: class, Fields: fields}
}

// Is reports whether class is one of the object's classes.
func (o *Object) Is(class string) bool {
	if o == nil {
		return false
	}
	return slices.Contains(o.Class, class)
}

// FirstClass returns the leading class, which is what R dispatches on. Empty if unknown.
func (o *Object) FirstClass() string {
	if o == nil || len(o.Class) == 0 {
		return ""
	}
	return o.Class[0]
}

// Field returns the named slot of a list.
func (o *Object) Field(name string) (*Object, error) {
	if o == nil || o.Fields == nil {
		return nil, fmt.Errorf("%s, %w", name, ErrMissingField)
	}
	f, exists := o.Fields[name]
	if !exists || f == nil {
		return nil, fmt.Errorf("%s, %w", name, ErrMissingField)
	}
	return f, nil
}

// Len returns the number of elements of an atomic vector or the number of slots of a list.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	switch o.Type {
	case TypeList:
		return len(o.Fields)
	case TypeCharacter, TypeOpaque:
		return len(o.Strings)
	}
	return len(o.Values)
}

// Vector returns a copy of the numeric values.
func (o *Object) Vector() ([]float64, error) {
	if o == nil || o.Type != TypeDouble {
		return nil, ErrNotNumeric
	}
	out := make([]float64, len(o.Values))
	copy(out, o.Values)
	return out, nil
}

// Scalar returns the first numeric value.
func (o *Object) Scalar() (float64, error) {
	if o == nil || o.Type != TypeDouble || len(o.Values) == 0 {
		return 0, ErrNotNumeric
	}
	return o.Values[0], nil
}

// String returns the first element of a character vector, or an empty string.
func (o *Object) String() string {
	if o == nil || len(o.Strings) == 0 {
		return ""
	}
	return o.Strings[0]
}

// Rows returns the row count of a matrix, or the length of a plain vector.
func (o *Object) Rows() int {
	if o == nil {
		return 0
	}
	if len(o.Dim) == 2 {
		return o.Dim[0]
	}
	return len(o.Values)
}

// Cols returns the column count of a matrix, 1 for a plain vector.
func (o *Object) Cols() int {
	if o == nil {
		return 0
	}
	if len(o.Dim) == 2 {
		return o.Dim[1]
	}
	return 1
}

// Matrix returns the numeric values as a gonum matrix. R stores matrices column-major and
// the dim attribute is required to agree with the number of values. Plain vectors are
// returned as a single column.
func (o *Object) Matrix() (*mat.Dense, error) {
	if o == nil || o.Type != TypeDouble {
		return nil, ErrNotNumeric
	}
	r, c := o.Rows(), o.Cols()
	if len(o.Dim) != 0 && len(o.Dim) != 2 {
		return nil, fmt.Errorf("dim has %d entries, %w", len(o.Dim), ErrNotMatrix)
	}
	if r*c != len(o.Values) {
		return nil, fmt.Errorf("dim %dx%d does not match %d values, %w", r, c, len(o.Values), ErrNotMatrix)
	}
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("empty matrix, %w", ErrNotMatrix)
	}
	m := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			m.Set(i, j, o.Values[j*r+i])
		}
	}
	return m, nil
}

// Column returns the j-th (0-based) column of a matrix or of a plain vector treated as a
// single column.
func (o *Object) Column(j int) ([]float64, error) {
	if o == nil || o.Type != TypeDouble {
		return nil, ErrNotNumeric
	}
	r, c := o.Rows(), o.Cols()
	if r*c != len(o.Values) {
		return nil, fmt.Errorf("dim %dx%d does not match %d values, %w", r, c, len(o.Values), ErrNotMatrix)
	}
	if j < 0 || j >= c {
		return nil, fmt.Errorf("column %d of %d, %w", j, c, ErrColumnRange)
	}
	out := make([]float64, r)
	copy(out, o.Values[j*r:(j+1)*r])
	return out, nil
}

// Times returns the time index of a ts object derived from its tsp attribute, start + i/frequency.
// Objects without a tsp attribute have no time index and return nil.
func (o *Object) Times() []float64 {
	if o == nil || len(o.Tsp) != 3 || o.Tsp[2] <= 0 {
		return nil
	}
	n := o.Rows()
	t := make([]float64, n)
	for i := range n {
		t[i] = o.Tsp[0] + float64(i)/o.Tsp[2]
	}
	return t
}
