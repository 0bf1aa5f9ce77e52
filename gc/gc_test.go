package gc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppyne/lx/env"
	"github.com/ppyne/lx/value"
)

func TestCollectFreesUnreachableArrays(t *testing.T) {
	root := env.New(nil)
	reachable := value.New()
	root.Set("kept", value.ArrayVal(reachable))

	before := value.RegistryCount()
	_ = value.New() // unreachable: not bound anywhere
	assert.Equal(t, before+1, value.RegistryCount())

	c := New()
	c.Collect(root)

	live := value.RegistryCount()
	reachableFromRoot := 0
	root.Visit(func(v value.Value) {
		if v.Kind == value.KindArray {
			reachableFromRoot++
		}
	})
	require.Equal(t, reachableFromRoot, live)
}

func TestThresholdDoublesOrFloors(t *testing.T) {
	root := env.New(nil)
	c := New()
	c.Collect(root)
	assert.GreaterOrEqual(t, c.Threshold(), FloorThreshold)
}
