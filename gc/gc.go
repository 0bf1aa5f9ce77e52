// Package gc implements the mark-and-sweep collector that runs over the
// live array graph. It is a separate package from value (which owns the
// array registry) because marking needs to walk an environment's binding
// chain, and env depends on value — gc sits above both to avoid a cycle.
package gc

import (
	"github.com/ppyne/lx/env"
	"github.com/ppyne/lx/value"
)

// FloorThreshold is the minimum live-array threshold the collector will
// ever run with, even right after a collection that frees almost
// everything.
const FloorThreshold = 1024

// Collector tracks the adaptive threshold that governs how often a
// collection runs.
type Collector struct {
	threshold int
}

// New returns a Collector with the initial threshold.
func New() *Collector {
	return &Collector{threshold: FloorThreshold}
}

// Collect runs one full mark-and-sweep pass rooted at root: every array
// reachable from root's bindings (including its parent frames) survives;
// everything else is unlinked from the GC list and released. The
// threshold is then updated to max(floor, 2*live_count).
func (c *Collector) Collect(root *env.Environment) {
	value.ClearMarks()
	root.Visit(func(v value.Value) {
		if v.Kind == value.KindArray {
			value.MarkTransitive(v.Arr)
		}
	})
	value.SweepUnmarked()

	live := value.RegistryCount()
	next := live * 2
	if next < FloorThreshold {
		next = FloorThreshold
	}
	c.threshold = next
}

// MaybeCollect runs a collection only if the live array count has
// exceeded the current threshold. The evaluator calls this at every
// block-item boundary.
func (c *Collector) MaybeCollect(root *env.Environment) {
	if value.RegistryCount() > c.threshold {
		c.Collect(root)
	}
}

// Threshold returns the collector's current trigger threshold, exposed
// for the GC-threshold property test.
func (c *Collector) Threshold() int { return c.threshold }
