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

// Word is the machine's universal datum: an unsigned 32 bit integer. All
// arithmetic on Words is modulo 2^32, which is exactly what Go's uint32
// gives us for free.
type Word uint32

// Op identifies one of the fourteen Universal Machine operations.
type Op uint8

// Universal Machine operation codes.
const (
	OpCondMove Op = iota
	OpArrayIndex
	OpArrayAmend
	OpAdd
	OpMul
	OpDiv
	OpNotAnd
	OpHalt
	OpAlloc
	OpAbandon
	OpOutput
	OpInput
	OpLoadProgram
	OpOrthography
)

func (op Op) String() string {
	switch op {
	case OpCondMove:
		return "conditional_move"
	case OpArrayIndex:
		return "array_index"
	case OpArrayAmend:
		return "array_amendment"
	case OpAdd:
		return "addition"
	case OpMul:
		return "multiplication"
	case OpDiv:
		return "division"
	case OpNotAnd:
		return "not_and"
	case OpHalt:
		return "halt"
	case OpAlloc:
		return "allocation"
	case OpAbandon:
		return "abandonment"
	case OpOutput:
		return "output"
	case OpInput:
		return "input"
	case OpLoadProgram:
		return "load_program"
	case OpOrthography:
		return "orthography"
	default:
		return "undefined"
	}
}

// Instruction is the decoded form of a 32 bit instruction word, holding
// whichever fields apply to its format. For OpOrthography, A and Imm are
// valid and B/C are zero; for every other opcode, A/B/C are valid and Imm
// is zero.
type Instruction struct {
	Op      Op
	A, B, C uint8 // standard format register indices
	Imm     Word  // orthography format 25 bit immediate, zero-extended
}

type instruction = Instruction

// extractBits pulls out `count` bits starting at bit `start` of p.
func extractBits(p Word, start, count uint) Word {
	mask := Word((uint64(1)<<count)-1) << start
	return (p & mask) >> start
}

// Decode splits a 32 bit instruction word into its opcode and format-specific
// fields. The opcode occupies bits 31..28 in both formats.
//
// Standard format (opcodes 0..12): bits 8..6 = A, bits 5..3 = B, bits 2..0 = C.
// Special format (opcode 13): bits 27..25 = A, bits 24..0 = 25 bit immediate.
func Decode(w Word) Instruction {
	op := Op(extractBits(w, 28, 4))
	if op == OpOrthography {
		return Instruction{
			Op:  op,
			A:   uint8(extractBits(w, 25, 3)),
			Imm: extractBits(w, 0, 25),
		}
	}
	return Instruction{
		Op: op,
		A:  uint8(extractBits(w, 6, 3)),
		B:  uint8(extractBits(w, 3, 3)),
		C:  uint8(extractBits(w, 0, 3)),
	}
}

func decode(w Word) instruction { return Decode(w) }
