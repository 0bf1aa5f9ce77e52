package value

import "github.com/ppyne/lx/diag"

// KeyKind discriminates an array Key.
type KeyKind int

const (
	KeyInt KeyKind = iota
	KeyString
)

// Key is an array key: either an integer or a byte-exact string.
type Key struct {
	Kind KeyKind
	I    int64
	S    string
}

func IntKey(i int64) Key    { return Key{Kind: KeyInt, I: i} }
func StringKey(s string) Key { return Key{Kind: KeyString, S: s} }

func (k Key) Equal(o Key) bool {
	if k.Kind != o.Kind {
		return false
	}
	if k.Kind == KeyInt {
		return k.I == o.I
	}
	return k.S == o.S
}

// String renders the key the way array keys print in print_r/var_dump.
func (k Key) String() string {
	if k.Kind == KeyInt {
		return IntToString(k.I)
	}
	return k.S
}

func IntToString(i int64) string { return ToString(IntVal(i)) }

type entry struct {
	key Key
	val Value
}

// Array is an ordered associative container: insertion order survives
// iteration and serialization, entries are refcounted as a unit, and the
// array links into the process-wide GC list via gcNext/gcMark.
type Array struct {
	entries  []entry
	index    map[Key]int
	refcount int

	gcMark bool
	gcNext *Array
	gcPrev *Array
}

// registry is the process-wide linked list of every live array, mirroring
// the reference implementation's global GC list.
var registryHead *Array
var registryCount int

// New returns an empty array with refcount 1, registered with the GC list.
func New() *Array {
	a := &Array{index: make(map[Key]int)}
	a.refcount = 1
	registerArray(a)
	return a
}

func registerArray(a *Array) {
	a.gcNext = registryHead
	if registryHead != nil {
		registryHead.gcPrev = a
	}
	registryHead = a
	registryCount++
}

func unregisterArray(a *Array) {
	if a.gcPrev != nil {
		a.gcPrev.gcNext = a.gcNext
	} else if registryHead == a {
		registryHead = a.gcNext
	}
	if a.gcNext != nil {
		a.gcNext.gcPrev = a.gcPrev
	}
	a.gcNext, a.gcPrev = nil, nil
	registryCount--
}

// Retain increments a's reference count.
func (a *Array) Retain() {
	if a != nil {
		a.refcount++
	}
}

// Free decrements a's reference count; at zero it unlinks from the GC
// list and releases every entry (deeply, via Release).
func (a *Array) Free() {
	if a == nil {
		return
	}
	a.refcount--
	if a.refcount > 0 {
		return
	}
	unregisterArray(a)
	for _, e := range a.entries {
		Release(e.val)
	}
	a.entries = nil
	a.index = nil
}

// Len returns the number of live entries.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.entries)
}

// Get returns a copy of the value stored under k, or Undefined if absent.
func (a *Array) Get(k Key) Value {
	if a == nil {
		return Undefined()
	}
	if i, ok := a.index[k]; ok {
		return a.entries[i].val
	}
	return Undefined()
}

// GetRef returns a pointer to the mutable slot for k, creating an
// Undefined-valued entry (appended, advancing insertion order) if absent.
func (a *Array) GetRef(k Key) *Value {
	if i, ok := a.index[k]; ok {
		return &a.entries[i].val
	}
	a.entries = append(a.entries, entry{key: k, val: Undefined()})
	a.index[k] = len(a.entries) - 1
	return &a.entries[len(a.entries)-1].val
}

// Set stores v under k, replacing an existing entry in place (preserving
// position) or appending a new one. If v is an array that transitively
// contains a (including a itself), the cycle is rejected, a is left
// unchanged, and the cyclic-array diagnostic is set.
func (a *Array) Set(k Key, v Value) {
	if v.Kind == KindArray && v.Arr != nil && (v.Arr == a || containsArray(v.Arr, a)) {
		diag.Set(diag.CyclicArray, 0, 0, "assignment would introduce a cycle")
		return
	}
	if i, ok := a.index[k]; ok {
		old := a.entries[i].val
		Release(old)
		a.entries[i].val = Retain(v)
		return
	}
	a.entries = append(a.entries, entry{key: k, val: Retain(v)})
	a.index[k] = len(a.entries) - 1
}

// Unset removes the entry for k, if present, shifting later entries down
// so insertion order of the survivors is unaffected.
func (a *Array) Unset(k Key) {
	i, ok := a.index[k]
	if !ok {
		return
	}
	Release(a.entries[i].val)
	a.entries = append(a.entries[:i], a.entries[i+1:]...)
	delete(a.index, k)
	for j := i; j < len(a.entries); j++ {
		a.index[a.entries[j].key] = j
	}
}

// Copy returns a shallow clone: entries are copied, nested array/blob
// handles are retained rather than deep-cloned.
func (a *Array) Copy() *Array {
	n := New()
	for _, e := range a.entries {
		n.Set(e.key, e.val)
	}
	return n
}

// NextIndex is the auto-index cursor used by unkeyed inserts: one past the
// largest integer key present, or 0 if there are none.
func (a *Array) NextIndex() int64 {
	max := int64(-1)
	for _, e := range a.entries {
		if e.key.Kind == KeyInt && e.key.I > max {
			max = e.key.I
		}
	}
	return max + 1
}

// Keys returns every key in insertion order.
func (a *Array) Keys() []Key {
	keys := make([]Key, len(a.entries))
	for i, e := range a.entries {
		keys[i] = e.key
	}
	return keys
}

// Entries exposes the (key, value) pairs in insertion order. The slice
// must be treated as read-only by callers outside this package.
func (a *Array) Entries() []struct {
	Key Key
	Val Value
} {
	out := make([]struct {
		Key Key
		Val Value
	}, len(a.entries))
	for i, e := range a.entries {
		out[i].Key = e.key
		out[i].Val = e.val
	}
	return out
}

// ReplaceWith atomically swaps a's contents for src's entries: src's
// values are retained into a in src's order and a's previous entries are
// released. Natives that reshape an array (sort, splice, shift, ...)
// build the desired result in a scratch array and swap it in here rather
// than mutating entries directly, keeping that reshaping logic out of
// this package.
func (a *Array) ReplaceWith(src *Array) {
	old := a.entries
	a.entries = make([]entry, 0, len(src.entries))
	a.index = make(map[Key]int, len(src.entries))
	for _, e := range src.entries {
		a.entries = append(a.entries, entry{key: e.key, val: Retain(e.val)})
		a.index[e.key] = len(a.entries) - 1
	}
	for _, e := range old {
		Release(e.val)
	}
}

// Has reports whether k is present.
func (a *Array) Has(k Key) bool {
	_, ok := a.index[k]
	return ok
}

// containsArray performs a visited-set-guarded DFS over hay's array
// subgraph, returning true as soon as needle is reached.
func containsArray(hay, needle *Array) bool {
	visited := map[*Array]bool{}
	var dfs func(*Array) bool
	dfs = func(cur *Array) bool {
		if cur == needle {
			return true
		}
		if visited[cur] {
			return false
		}
		visited[cur] = true
		for _, e := range cur.entries {
			if e.val.Kind == KindArray && e.val.Arr != nil {
				if dfs(e.val.Arr) {
					return true
				}
			}
		}
		return false
	}
	return dfs(hay)
}

// --- GC registry access, used only by package gc ---

// Mark sets a's mark bit.
func (a *Array) Mark() { a.gcMark = true }

// Marked reports a's mark bit.
func (a *Array) Marked() bool { return a.gcMark }

// MarkTransitive marks a and every array reachable through its entries,
// short-circuiting on an already-marked (or nil) array.
func MarkTransitive(a *Array) {
	if a == nil || a.gcMark {
		return
	}
	a.gcMark = true
	for _, e := range a.entries {
		if e.val.Kind == KindArray {
			MarkTransitive(e.val.Arr)
		}
	}
}

// AllArrays returns every array currently registered with the GC list.
func AllArrays() []*Array {
	out := make([]*Array, 0, registryCount)
	for cur := registryHead; cur != nil; cur = cur.gcNext {
		out = append(out, cur)
	}
	return out
}

// RegistryCount returns the number of arrays currently tracked by the GC.
func RegistryCount() int { return registryCount }

// ClearMarks clears every registered array's mark bit, the first phase of
// a collection cycle.
func ClearMarks() {
	for cur := registryHead; cur != nil; cur = cur.gcNext {
		cur.gcMark = false
	}
}

// SweepUnmarked unlinks and releases every array whose mark bit is still
// clear, returning the number freed. Nested values are dropped directly
// (not through the refcounted Free path) since every array, reachable or
// not, is visited independently by this same sweep.
func SweepUnmarked() int {
	freed := 0
	cur := registryHead
	for cur != nil {
		next := cur.gcNext
		if !cur.gcMark {
			unregisterArray(cur)
			cur.entries = nil
			cur.index = nil
			freed++
		}
		cur = next
	}
	return freed
}
