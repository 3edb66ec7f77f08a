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

// Package disasm renders Universal Machine instruction words as
// human-readable text, for -trace and -dump style diagnostics. It is
// non-normative: nothing in the machine's execution semantics depends on
// it.
package disasm

import (
	"fmt"
	"io"

	"github.com/universalmachine/um/internal/umi"
	"github.com/universalmachine/um/vm"
)

// One writes the mnemonic for the instruction at words[pc] to w and returns
// the offset of the next instruction. Every instruction is exactly one word
// wide, so next is always pc+1; it is returned for symmetry with
// disassemblers over variable-width encodings and so callers can loop
// without hard-coding the width.
func One(words []vm.Word, pc int, w io.Writer) (next int, err error) {
	ew, _ := w.(*umi.ErrWriter)
	if ew == nil {
		ew = umi.NewErrWriter(w)
	}

	ins := vm.Decode(words[pc])
	if ins.Op == vm.OpOrthography {
		fmt.Fprintf(ew, "orthography r%d, #%d", ins.A, ins.Imm)
	} else if ins.Op > vm.OpOrthography {
		fmt.Fprintf(ew, "??? (opcode %d)", ins.Op)
	} else {
		fmt.Fprintf(ew, "%s r%d, r%d, r%d", ins.Op, ins.A, ins.B, ins.C)
	}
	return pc + 1, ew.Err
}

// All writes a disassembly of every instruction in words to w, one per
// line, prefixed with its word offset.
func All(words []vm.Word, w io.Writer) error {
	ew := umi.NewErrWriter(w)
	for pc := 0; pc < len(words); {
		fmt.Fprintf(ew, "% 8d\t", pc)
		pc, _ = One(words, pc, ew)
		fmt.Fprintln(ew)
		if ew.Err != nil {
			return ew.Err
		}
	}
	return nil
}
