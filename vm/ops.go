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
	"io"

	"github.com/pkg/errors"
)

// EndOfInput is the sentinel value (2^32 - 1) written to a register by the
// input operation when the input stream is exhausted.
const EndOfInput Word = 0xFFFFFFFF

// Run executes the machine from its current state until it halts or faults.
// On a clean halt it returns nil and State() is Halted. On a guest fault it
// returns an error wrapping a *Fault.
func (i *Instance) Run() (err error) {
	for i.state == Running {
		if err = i.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step fetches, decodes, and executes a single instruction. It is exported
// so embedders can single-step (e.g. for tracing) instead of calling Run.
func (i *Instance) Step() error {
	if i.state != Running {
		return nil
	}

	startPC := i.pc
	w, err := i.heap.codeFetch(Word(i.pc))
	if err != nil {
		return i.fault(err, startPC)
	}
	i.pc++

	ins := decode(w)

	switch ins.Op {
	case OpCondMove:
		if i.regs[ins.C] != 0 {
			i.regs[ins.A] = i.regs[ins.B]
		}
	case OpArrayIndex:
		v, err := i.heap.read(i.regs[ins.B], i.regs[ins.C])
		if err != nil {
			return i.fault(err, startPC)
		}
		i.regs[ins.A] = v
	case OpArrayAmend:
		if err := i.heap.write(i.regs[ins.A], i.regs[ins.B], i.regs[ins.C]); err != nil {
			return i.fault(err, startPC)
		}
	case OpAdd:
		i.regs[ins.A] = i.regs[ins.B] + i.regs[ins.C]
	case OpMul:
		i.regs[ins.A] = i.regs[ins.B] * i.regs[ins.C]
	case OpDiv:
		if i.regs[ins.C] == 0 {
			return i.fault(newFault(FaultDivisionByZero, 0, ""), startPC)
		}
		i.regs[ins.A] = i.regs[ins.B] / i.regs[ins.C]
	case OpNotAnd:
		i.regs[ins.A] = ^(i.regs[ins.B] & i.regs[ins.C])
	case OpHalt:
		i.state = Halted
		if err := i.flushOutput(); err != nil {
			return i.fault(newFault(FaultIO, 0, err.Error()), startPC)
		}
	case OpAlloc:
		i.regs[ins.B] = i.heap.allocate(i.regs[ins.C])
	case OpAbandon:
		if err := i.heap.abandon(i.regs[ins.C]); err != nil {
			return i.fault(err, startPC)
		}
	case OpOutput:
		if err := i.output1(i.regs[ins.C]); err != nil {
			return i.fault(err, startPC)
		}
	case OpInput:
		v, err := i.input1()
		if err != nil {
			return i.fault(err, startPC)
		}
		i.regs[ins.C] = v
	case OpLoadProgram:
		if i.regs[ins.B] != 0 {
			if err := i.heap.cloneIntoZero(i.regs[ins.B]); err != nil {
				return i.fault(err, startPC)
			}
		}
		i.pc = int(i.regs[ins.C])
	case OpOrthography:
		i.regs[ins.A] = ins.Imm
	default:
		return i.fault(newFault(FaultUndefinedOpcode, 0, ""), startPC)
	}

	i.insCount++
	return nil
}

// fault stamps the execution finger (the address of the instruction that
// triggered it) onto err, then returns it. Any output produced before the
// fault is flushed so the caller never loses bytes the guest already wrote,
// regardless of the FlushEachOutput setting.
func (i *Instance) fault(err error, finger int) error {
	i.state = Faulted
	if f, ok := AsFault(err); ok {
		f.Finger = finger
	}
	i.flushOutput()
	return err
}

func (i *Instance) output1(v Word) error {
	if v > 0xFF {
		return newFault(FaultBadOutput, 0, "")
	}
	if i.output == nil {
		return nil
	}
	if err := i.output.WriteByte(byte(v)); err != nil {
		return newFault(FaultIO, 0, errors.Wrap(err, "output failed").Error())
	}
	if i.flushEach {
		if err := i.output.Flush(); err != nil {
			return newFault(FaultIO, 0, errors.Wrap(err, "output flush failed").Error())
		}
	}
	return nil
}

func (i *Instance) input1() (Word, error) {
	if i.eof || i.input == nil {
		return EndOfInput, nil
	}
	var b [1]byte
	_, err := io.ReadFull(i.input, b[:])
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			i.eof = true
			return EndOfInput, nil
		}
		return 0, newFault(FaultIO, 0, errors.Wrap(err, "input failed").Error())
	}
	return Word(b[0]), nil
}
