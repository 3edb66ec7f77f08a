// This file is part of um - https://github.com/universalmachine/um
//
// Copyright 2026 The UM Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vm

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// State is the engine's run state.
type State int

// Engine states. The only transition out of Running is to Halted (via the
// halt instruction) or to Faulted (via a guest fault); both are terminal.
const (
	Running State = iota
	Halted
	Faulted
)

// Instance is a single Universal Machine: eight registers, an execution
// finger into segment 0, a segment heap, and an I/O bridge.
type Instance struct {
	regs  [8]Word
	pc    int
	heap  *heap
	state State

	insCount uint64

	input     io.Reader
	eof       bool
	output    *bufio.Writer
	flushEach bool
}

// Option configures an Instance at construction time.
type Option func(*Instance) error

// Input sets the byte source for the input operation. There is no default
// reader, so that library embedders are never surprised by an Instance
// silently reading process stdin; without this option every input operation
// yields EndOfInput.
func Input(r io.Reader) Option {
	return func(i *Instance) error { i.input = r; return nil }
}

// Output sets the byte sink for the output operation.
func Output(w io.Writer) Option {
	return func(i *Instance) error { i.output = bufio.NewWriter(w); return nil }
}

// FlushEachOutput controls whether the output bridge is flushed after every
// output instruction (the default) or only when the machine halts or
// faults. Disabling per-instruction flushing trades the spec's "observable
// immediately" framing for throughput in embedders that do not need byte-by
// -byte delivery.
func FlushEachOutput(flush bool) Option {
	return func(i *Instance) error { i.flushEach = flush; return nil }
}

// COW enables or disables the copy-on-write segment backing used by
// clone_into_zero. Enabled by default. Disabling it is only useful to prove
// the two backings are observationally equivalent (see heap_test.go); no
// guest program can tell the difference.
func COW(enabled bool) Option {
	return func(i *Instance) error { i.heap.cow = enabled; return nil }
}

// New creates a new Universal Machine instance with segment 0 initialized
// to image. Registers are all zero and the execution finger starts at 0.
func New(image []Word, opts ...Option) (*Instance, error) {
	i := &Instance{
		heap:      newHeap(image, true),
		flushEach: true,
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, errors.Wrap(err, "option failed")
		}
	}
	return i, nil
}

// Finger returns the current execution finger (word offset into segment 0).
func (i *Instance) Finger() int { return i.pc }

// Registers returns a copy of the eight registers.
func (i *Instance) Registers() [8]Word { return i.regs }

// State returns the engine's current run state.
func (i *Instance) State() State { return i.state }

// CodeSegment returns the current contents of segment 0. The returned
// slice aliases live VM storage and is only safe to read; it may change
// underneath the caller after the next Step if load_program or a write
// through segment 0 executes. It exists for diagnostic tracing.
func (i *Instance) CodeSegment() []Word { return i.heap.segs[0].words }

// InstructionCount returns the number of instructions executed so far. It
// has no effect on guest semantics; it exists for diagnostics only.
func (i *Instance) InstructionCount() uint64 { return i.insCount }

// HeapStats returns a read-only snapshot of segment heap occupancy.
func (i *Instance) HeapStats() Stats { return i.heap.stats() }

// SegmentLen reports the word length of segment id and whether it is live.
// It exists for diagnostic tooling (disassembly, -dump) and is not on the
// guest-visible instruction path.
func (i *Instance) SegmentLen(id Word) (int, bool) { return i.heap.length(id) }

// flushOutput flushes any buffered output. Safe to call with no output sink
// configured.
func (i *Instance) flushOutput() error {
	if i.output == nil {
		return nil
	}
	if err := i.output.Flush(); err != nil {
		return errors.Wrap(err, "output flush failed")
	}
	return nil
}
