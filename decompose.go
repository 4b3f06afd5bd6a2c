package rforecast

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aouyang1/go-rforecast/rcall"
	"github.com/aouyang1/go-rforecast/robject"
)

// R classes of the two decomposition shapes.
const (
	ClassSTL          = "stl"
	ClassDecomposedTS = "decomposed.ts"
)

// Decomposed is the opaque result of a seasonal decomposition, either from STL or from a
// classical decomposition. Decomposition flattens it into a table.
type Decomposed struct {
	obj *robject.Object
}

// NewDecomposed wraps an R decomposition object. The shape is checked when it is extracted.
func NewDecomposed(obj *robject.Object) *Decomposed {
	return &Decomposed{obj: obj}
}

// Object returns the underlying R object.
func (d *Decomposed) Object() *robject.Object {
	return d.obj
}

// Kind returns the R class tag used to tell the decomposition shapes apart.
func (d *Decomposed) Kind() string {
	return d.obj.FirstClass()
}

// STL decomposes a periodic series into seasonal, trend and remainder with loess.
func (c *Client) STL(ctx context.Context, x *Series, opt *STLOptions) (*Decomposed, error) {
	if opt == nil {
		opt = NewDefaultSTLOptions()
	}
	p, err := c.program(x, rcall.NewCall("stats::stl",
		rcall.Pos(rcall.Symbol(seriesVar)),
		named("s_window", sWindow(opt.SWindow)),
		named("robust", rcall.Bool(opt.Robust)),
	))
	if err != nil {
		return nil, err
	}
	obj, err := c.eng.Eval(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("unable to compute stl decomposition, %w", err)
	}
	return NewDecomposed(obj), nil
}

// Decompose splits a periodic series with moving averages.
func (c *Client) Decompose(ctx context.Context, x *Series, opt *DecomposeOptions) (*Decomposed, error) {
	if opt == nil {
		opt = NewDefaultDecomposeOptions()
	}
	p, err := c.program(x, rcall.NewCall("stats::decompose",
		rcall.Pos(rcall.Symbol(seriesVar)),
		named("type", rcall.Str(opt.Type)),
	))
	if err != nil {
		return nil, err
	}
	obj, err := c.eng.Eval(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("unable to compute classical decomposition, %w", err)
	}
	return NewDecomposed(obj), nil
}

// sWindow passes numeric windows as numbers and anything else, such as "periodic", as a string.
func sWindow(w string) rcall.Value {
	if n, err := strconv.Atoi(w); err == nil {
		return rcall.Int(n)
	}
	return rcall.Str(w)
}
