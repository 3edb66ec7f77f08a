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

package disasm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/universalmachine/um/disasm"
	"github.com/universalmachine/um/vm"
)

func TestOne(t *testing.T) {
	words := []vm.Word{
		vm.Word(vm.OpAdd)<<28 | 1<<6 | 2<<3 | 3,
		vm.Word(vm.OpOrthography)<<28 | 2<<25 | 0x41,
	}
	var buf bytes.Buffer
	next, err := disasm.One(words, 0, &buf)
	if err != nil {
		t.Fatalf("One: %v", err)
	}
	if next != 1 {
		t.Fatalf("next = %d, want 1", next)
	}
	if got := buf.String(); got != "addition r1, r2, r3" {
		t.Fatalf("got %q", got)
	}

	buf.Reset()
	if _, err := disasm.One(words, 1, &buf); err != nil {
		t.Fatalf("One: %v", err)
	}
	if got := buf.String(); got != "orthography r2, #65" {
		t.Fatalf("got %q", got)
	}
}

func TestOneUndefinedOpcode(t *testing.T) {
	words := []vm.Word{vm.Word(14) << 28}
	var buf bytes.Buffer
	if _, err := disasm.One(words, 0, &buf); err != nil {
		t.Fatalf("One: %v", err)
	}
	if !strings.Contains(buf.String(), "14") {
		t.Fatalf("got %q, want it to mention opcode 14", buf.String())
	}
}

func TestAll(t *testing.T) {
	words := []vm.Word{
		vm.Word(vm.OpOrthography)<<28 | 0<<25 | 0x41,
		vm.Word(vm.OpOutput)<<28 | 0<<6,
		vm.Word(vm.OpHalt) << 28,
	}
	var buf bytes.Buffer
	if err := disasm.All(words, &buf); err != nil {
		t.Fatalf("All: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"orthography r0, #65", "output r0, r0, r0", "halt r0, r0, r0"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}
