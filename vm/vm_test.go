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

package vm_test

import (
	"bytes"
	"testing"

	"github.com/universalmachine/um/vm"
)

// std encodes a standard-format instruction: opcode o with register indices
// a, b, c.
func std(o vm.Op, a, b, c uint8) vm.Word {
	return vm.Word(o)<<28 | vm.Word(a)<<6 | vm.Word(b)<<3 | vm.Word(c)
}

// orth encodes an orthography instruction loading imm into register a.
func orth(a uint8, imm vm.Word) vm.Word {
	return vm.Word(vm.OpOrthography)<<28 | vm.Word(a)<<25 | (imm & 0x1FFFFFF)
}

func run(t *testing.T, image []vm.Word, opts ...vm.Option) (*vm.Instance, error) {
	t.Helper()
	i, err := vm.New(image, opts...)
	if err != nil {
		t.Fatalf("vm.New: %v", err)
	}
	return i, i.Run()
}

func TestSegmentLen(t *testing.T) {
	img := []vm.Word{
		orth(1, 4),
		std(vm.OpAlloc, 0, 2, 1), // R2 := allocate(4)
		std(vm.OpHalt, 0, 0, 0),
	}
	i, err := vm.New(img)
	if err != nil {
		t.Fatalf("vm.New: %v", err)
	}
	if err := i.Run(); err != nil {
		t.Fatalf("Run: %+v", err)
	}
	if n, live := i.SegmentLen(0); !live || n != len(img) {
		t.Fatalf("SegmentLen(0) = %d,%v, want %d,true", n, live, len(img))
	}
	id := i.Registers()[2]
	if n, live := i.SegmentLen(id); !live || n != 4 {
		t.Fatalf("SegmentLen(%d) = %d,%v, want 4,true", id, n, live)
	}
	if _, live := i.SegmentLen(id + 1); live {
		t.Fatalf("SegmentLen(%d) reported live for a never-allocated identifier", id+1)
	}
}

func TestScenarioEmptyHalt(t *testing.T) {
	img := []vm.Word{std(vm.OpHalt, 0, 0, 0)}
	var out bytes.Buffer
	i, err := run(t, img, vm.Output(&out))
	if err != nil {
		t.Fatalf("Run: %+v", err)
	}
	if i.State() != vm.Halted {
		t.Fatalf("State = %v, want Halted", i.State())
	}
	if out.Len() != 0 {
		t.Fatalf("output = %q, want empty", out.String())
	}
}

func TestScenarioOrthographyAndOutput(t *testing.T) {
	img := []vm.Word{
		orth(0, 0x41),
		std(vm.OpOutput, 0, 0, 0),
		std(vm.OpHalt, 0, 0, 0),
	}
	var out bytes.Buffer
	i, err := run(t, img, vm.Output(&out))
	if err != nil {
		t.Fatalf("Run: %+v", err)
	}
	if out.String() != "A" {
		t.Fatalf("output = %q, want %q", out.String(), "A")
	}
	if i.State() != vm.Halted {
		t.Fatalf("State = %v, want Halted", i.State())
	}
}

func TestScenarioAllocationRoundTrip(t *testing.T) {
	img := []vm.Word{
		orth(2, 4),
		std(vm.OpAlloc, 0, 1, 2),
		std(vm.OpAbandon, 0, 0, 1),
		std(vm.OpAlloc, 0, 3, 2),
		std(vm.OpHalt, 0, 0, 0),
	}
	i, err := vm.New(img)
	if err != nil {
		t.Fatalf("vm.New: %v", err)
	}
	// Step until the first allocation has executed, capture R1, then finish.
	for n := 0; n < 2; n++ {
		if err := i.Step(); err != nil {
			t.Fatalf("Step: %+v", err)
		}
	}
	firstID := i.Registers()[1]
	if err := i.Run(); err != nil {
		t.Fatalf("Run: %+v", err)
	}
	secondID := i.Registers()[3]
	if firstID != secondID {
		t.Fatalf("R3 = %d, want reused id %d", secondID, firstID)
	}
	if firstID == 0 {
		t.Fatalf("allocate returned id 0, which is reserved for the code segment")
	}
}

func TestLoadProgramZeroSourceJumps(t *testing.T) {
	const (
		loopAddr = 7
		outAddr  = 12
		haltAddr = 14
	)
	img := []vm.Word{
		std(vm.OpNotAnd, 3, 0, 0), // R3 = ~(R0 & R0) = all-ones
		std(vm.OpNotAnd, 1, 3, 3), // R1 = ~R3 = 0
		orth(4, 1),                // R4 = 1
		std(vm.OpAdd, 1, 1, 4),    // R1 = 1  (two's complement negation of all-ones)
		orth(3, haltAddr),
		orth(4, outAddr),
		orth(5, loopAddr),
		std(vm.OpInput, 0, 0, 2),       // LOOP: R2 = input byte or EOF
		std(vm.OpAdd, 6, 2, 1),         // R6 = R2 + 1; zero iff R2 == EOF
		std(vm.OpAdd, 7, 3, 0),         // R7 = haltAddr (default)
		std(vm.OpCondMove, 7, 4, 6),    // if R6 != 0: R7 = outAddr
		std(vm.OpLoadProgram, 0, 0, 7), // jump to R7
		std(vm.OpOutput, 0, 0, 2),      // OUT: output R2
		std(vm.OpLoadProgram, 0, 0, 5), // jump to loopAddr
		std(vm.OpHalt, 0, 0, 0),        // HALT
	}
	var out bytes.Buffer
	i, err := run(t, img, vm.Input(bytes.NewBufferString("hi\n")), vm.Output(&out))
	if err != nil {
		t.Fatalf("Run: %+v", err)
	}
	if out.String() != "hi\n" {
		t.Fatalf("output = %q, want %q", out.String(), "hi\n")
	}
	if i.State() != vm.Halted {
		t.Fatalf("State = %v, want Halted", i.State())
	}
}

func TestSelfModificationViaLoadProgram(t *testing.T) {
	// Build a two-word replacement segment [halt, 0] purely through guest
	// arithmetic (no host-side shortcuts), then load_program into it.
	img := []vm.Word{
		orth(4, 1<<24), // R4 = 2^24 (fits in the 25 bit immediate)
		std(vm.OpAdd, 4, 4, 4), // R4 = 2^25
		std(vm.OpAdd, 4, 4, 4), // R4 = 2^26
		std(vm.OpAdd, 4, 4, 4), // R4 = 2^27
		std(vm.OpAdd, 4, 4, 4), // R4 = 2^28
		orth(5, 7),
		std(vm.OpMul, 4, 4, 5),          // R4 = 7 * 2^28 = the halt instruction word
		orth(2, 2),                      // R2 := 2 (replacement segment length)
		std(vm.OpAlloc, 0, 1, 2),        // R1 := allocate(2)
		std(vm.OpArrayAmend, 1, 0, 4),   // seg[R1][0] := halt word
		std(vm.OpLoadProgram, 0, 1, 0),  // clone seg[R1] into segment 0, finger := 0
	}
	i, err := vm.New(img)
	if err != nil {
		t.Fatalf("vm.New: %v", err)
	}
	for n := 0; n < len(img); n++ {
		if err := i.Step(); err != nil {
			t.Fatalf("Step %d: %+v", n, err)
		}
	}
	if i.Finger() != 0 {
		t.Fatalf("Finger = %d, want 0 immediately after load_program", i.Finger())
	}
	if i.State() != vm.Running {
		t.Fatalf("State = %v, want Running", i.State())
	}
	if err := i.Step(); err != nil {
		t.Fatalf("Step (halt): %+v", err)
	}
	if i.State() != vm.Halted {
		t.Fatalf("State = %v, want Halted", i.State())
	}
	if i.Finger() != 1 {
		t.Fatalf("Finger = %d, want 1 after executing the cloned halt", i.Finger())
	}
}

func TestScenarioDivisionByZero(t *testing.T) {
	img := []vm.Word{
		orth(1, 5),
		orth(2, 0),
		std(vm.OpDiv, 0, 1, 2),
		std(vm.OpHalt, 0, 0, 0),
	}
	var out bytes.Buffer
	i, err := run(t, img, vm.Output(&out))
	if err == nil {
		t.Fatal("Run: expected a fault, got nil")
	}
	f, ok := vm.AsFault(err)
	if !ok {
		t.Fatalf("error %v is not a *vm.Fault", err)
	}
	if f.Kind != vm.FaultDivisionByZero {
		t.Fatalf("Kind = %v, want FaultDivisionByZero", f.Kind)
	}
	if f.Finger != 2 {
		t.Fatalf("Finger = %d, want 2", f.Finger)
	}
	if i.State() != vm.Faulted {
		t.Fatalf("State = %v, want Faulted", i.State())
	}
}

func TestScenarioByteEcho(t *testing.T) {
	// Same program as TestLoadProgramZeroSourceJumps's loop, exercised via the
	// literal scenario framing: feed "hi\n" then EOF.
	const (
		loopAddr = 7
		outAddr  = 12
		haltAddr = 14
	)
	img := []vm.Word{
		std(vm.OpNotAnd, 3, 0, 0),
		std(vm.OpNotAnd, 1, 3, 3),
		orth(4, 1),
		std(vm.OpAdd, 1, 1, 4),
		orth(3, haltAddr),
		orth(4, outAddr),
		orth(5, loopAddr),
		std(vm.OpInput, 0, 0, 2),
		std(vm.OpAdd, 6, 2, 1),
		std(vm.OpAdd, 7, 3, 0),
		std(vm.OpCondMove, 7, 4, 6),
		std(vm.OpLoadProgram, 0, 0, 7),
		std(vm.OpOutput, 0, 0, 2),
		std(vm.OpLoadProgram, 0, 0, 5),
		std(vm.OpHalt, 0, 0, 0),
	}
	var out bytes.Buffer
	_, err := run(t, img, vm.Input(bytes.NewBufferString("hi\n")), vm.Output(&out))
	if err != nil {
		t.Fatalf("Run: %+v", err)
	}
	if out.String() != "hi\n" {
		t.Fatalf("output = %q, want %q", out.String(), "hi\n")
	}
}
