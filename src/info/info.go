// Package info implements the liveness tracker described in spec.md §3 and §4.8: a
// monotonic counter that stamps every IR value with a birth/death timestamp, usable by
// the RISC-V register allocator as a cheap interval for spill-by-oldest-timestamp
// decisions, plus a side table recording which global array initializers flattened to
// all zeros (so the assembly emitter can print a single `.zero N` instead of enumerating
// words).
package info

import "sysyc/src/koopa"

// Interval holds the birth/death timestamps of one IR value.
type Interval struct {
	Birth int
	Death int
}

// Info is the liveness tracker. One is created per compilation, filled during IR
// construction and handed to the RISC-V emitter, which reads only its zero-array records.
type Info struct {
	counter   int
	intervals map[koopa.Value]*Interval
	zeroArray map[koopa.Value]bool // GlobalAlloc handles whose initializer flattened to all zeros.
}

// New returns an empty Info tracker.
func New() *Info {
	return &Info{
		intervals: make(map[koopa.Value]*Interval),
		zeroArray: make(map[koopa.Value]bool),
	}
}

// NewValue registers the creation of v: counter increments, and birth=death=counter.
// Call this once, immediately after creating an IR value that may be referenced later.
func (in *Info) NewValue(v koopa.Value) {
	in.counter++
	in.intervals[v] = &Interval{Birth: in.counter, Death: in.counter}
}

// Reference bumps v's death to the current counter, recording that v is still live at
// this point in the instruction stream. Called whenever a later instruction reads v.
func (in *Info) Reference(v koopa.Value) {
	iv, ok := in.intervals[v]
	if !ok {
		return
	}
	iv.Death = in.counter
}

// Tick advances the counter without registering a new value; used when emitting an
// instruction that itself produces no Info-tracked value (Store, Branch, Jump, Return)
// so that their operands' references still get a fresh timestamp to bump Death to.
func (in *Info) Tick() {
	in.counter++
}

// Interval returns the birth/death interval of v, if tracked.
func (in *Info) Interval(v koopa.Value) (Interval, bool) {
	iv, ok := in.intervals[v]
	if !ok {
		return Interval{}, false
	}
	return *iv, true
}

// MarkZeroArray records that the GlobalAlloc v's flattened initializer was all zeros.
func (in *Info) MarkZeroArray(v koopa.Value) {
	in.zeroArray[v] = true
}

// IsZeroArray reports whether v was recorded as an all-zero global array.
func (in *Info) IsZeroArray(v koopa.Value) bool {
	return in.zeroArray[v]
}
