// Package natives implements the flat native-function table and the
// output stream that every built-in function writes through. Each Table
// holds its own output stream; redirecting one Table's output does not
// affect any other Table. Registration is idempotent by name: registering
// the same name twice keeps only the last registrant.
package natives

import (
	"io"
	"os"

	"github.com/ppyne/lx/env"
	"github.com/ppyne/lx/value"
)

// Func is the shape of a native function: given the calling environment
// and the evaluated argument list, it returns a result value. Natives
// validate their own arguments; malformed calls generally yield a
// neutral zero/empty/Undefined value rather than a diagnostic, except
// where the language core calls for one explicitly (handled by the
// native itself via the diag package).
type Func func(e *env.Environment, args []value.Value) value.Value

// Table is the flat name-to-function registry.
type Table struct {
	fns    map[string]Func
	output io.Writer
}

// NewTable returns a Table with every core native registered and output
// routed to os.Stdout.
func NewTable() *Table {
	t := &Table{fns: make(map[string]Func), output: os.Stdout}
	registerCore(t)
	return t
}

// Register installs fn under name, overwriting whatever was registered
// under that name before (last writer wins).
func (t *Table) Register(name string, fn Func) { t.fns[name] = fn }

// Lookup returns the native registered under name, or nil if none.
func (t *Table) Lookup(name string) (Func, bool) {
	fn, ok := t.fns[name]
	return fn, ok
}

// SetOutput redirects the table's output stream, e.g. so a templating
// host can capture a script's printed body before emitting headers.
func (t *Table) SetOutput(w io.Writer) { t.output = w }

// Output returns the current output stream.
func (t *Table) Output() io.Writer { return t.output }
