package object

import (
	"context"
	"io"
	"os"
)

type contextKey string

const printWriterKey = contextKey("maxlang:print-writer")

// WithPrintWriter adds a writer to the context for the print native to
// write to.
func WithPrintWriter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, printWriterKey, w)
}

// PrintWriter returns the writer the print native should use. Defaults to
// stdout.
func PrintWriter(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(printWriterKey).(io.Writer); ok && w != nil {
		return w
	}
	return os.Stdout
}
