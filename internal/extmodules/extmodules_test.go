package extmodules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppyne/lx/natives"
)

func TestNopModuleRegistersUnderItsOwnName(t *testing.T) {
	tbl := natives.NewTable()
	got := NopModule{Name: "nop"}.Register(tbl)
	assert.Equal(t, "nop", got)
}

func TestLookupFindsBuiltinRegistrars(t *testing.T) {
	reg, ok := Lookup("nop")
	assert.True(t, ok)
	assert.Equal(t, "nop", reg.Register(natives.NewTable()))

	_, ok = Lookup("does-not-exist")
	assert.False(t, ok)
}
