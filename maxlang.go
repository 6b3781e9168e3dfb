// Package maxlang provides the top-level API for compiling and evaluating
// maxlang source code. The pipeline underneath is parser -> compiler -> vm;
// this package just wires the stages together for embedders.
package maxlang

import (
	"context"
	"io"

	"github.com/maxlang/maxlang/compiler"
	"github.com/maxlang/maxlang/object"
	"github.com/maxlang/maxlang/parser"
	"github.com/maxlang/maxlang/vm"
)

type config struct {
	filename string
	vmOpts   []vm.Option
}

// Option configures Compile and Eval.
type Option func(*config)

// WithFilename sets the filename reported in error locations.
func WithFilename(name string) Option {
	return func(c *config) {
		c.filename = name
	}
}

// WithOutput directs the print native's output to w.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.vmOpts = append(c.vmOpts, vm.WithOutput(w))
	}
}

// WithObserver registers a vm.Observer on the machine Eval creates.
func WithObserver(o vm.Observer) Option {
	return func(c *config) {
		c.vmOpts = append(c.vmOpts, vm.WithObserver(o))
	}
}

// Compile parses and compiles source, returning the runnable main function.
func Compile(ctx context.Context, source string, opts ...Option) (*object.Function, error) {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	var parseOpts []parser.Option
	if c.filename != "" {
		parseOpts = append(parseOpts, parser.WithFilename(c.filename))
	}
	expr, err := parser.Parse(ctx, source, parseOpts...)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(expr)
}

// Eval compiles and runs source, returning the program's value.
func Eval(ctx context.Context, source string, opts ...Option) (object.Object, error) {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	fn, err := Compile(ctx, source, opts...)
	if err != nil {
		return nil, err
	}
	return vm.New(fn, c.vmOpts...).Run(ctx)
}
