// Package extmodules defines the registration contract for Lx's external
// collaborators — the filesystem, JSON, hex, serializer, crypto, time,
// environment, UTF-8, SQLite, exec, CLI-shell-FS, and CGI modules that sit
// outside the interpreter core. Each is expected to expose a single
// register_* entry point and record its own name; this package exercises
// that shape without building the modules themselves.
package extmodules

import "github.com/ppyne/lx/natives"

// Registrar is satisfied by any external collaborator module: it installs
// its natives into t and returns the name it registered under, so a host
// can log or verify what was wired in.
type Registrar interface {
	Register(t *natives.Table) string
}

// NopModule is a no-op Registrar used to exercise the registration shape
// end-to-end (cmd/lx's --ext flag, tests) without a real external
// collaborator behind it.
type NopModule struct {
	Name string
}

// Register installs nothing and returns m.Name.
func (m NopModule) Register(t *natives.Table) string { return m.Name }

var builtin = map[string]Registrar{
	"nop": NopModule{Name: "nop"},
}

// Lookup returns the Registrar registered under name, if any.
func Lookup(name string) (Registrar, bool) {
	r, ok := builtin[name]
	return r, ok
}
