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

import "github.com/pkg/errors"

// FaultKind identifies the category of a guest-level fault.
type FaultKind int

// Guest fault categories, per the Universal Machine error taxonomy.
const (
	FaultDivisionByZero FaultKind = iota
	FaultBadSegment
	FaultOutOfBounds
	FaultAbandonZero
	FaultBadOutput
	FaultUndefinedOpcode
	FaultBadFetch
	FaultAllocation
	FaultIO
)

func (k FaultKind) String() string {
	switch k {
	case FaultDivisionByZero:
		return "division by zero"
	case FaultBadSegment:
		return "use of dead or non-existent segment"
	case FaultOutOfBounds:
		return "segment index out of bounds"
	case FaultAbandonZero:
		return "abandonment of segment 0"
	case FaultBadOutput:
		return "output value out of range"
	case FaultUndefinedOpcode:
		return "undefined opcode"
	case FaultBadFetch:
		return "instruction fetch out of bounds"
	case FaultAllocation:
		return "allocation failure"
	case FaultIO:
		return "i/o error"
	default:
		return "fault"
	}
}

// Fault is a non-recoverable guest-level error. It carries the execution
// finger at the point of fault so a caller can report where execution
// stopped, the way spec.md recommends.
type Fault struct {
	Kind   FaultKind
	Finger int
	msg    string
}

func (f *Fault) Error() string {
	if f.msg != "" {
		return errors.Errorf("fault at %d: %s: %s", f.Finger, f.Kind, f.msg).Error()
	}
	return errors.Errorf("fault at %d: %s", f.Finger, f.Kind).Error()
}

func newFault(kind FaultKind, finger int, msg string) error {
	return errors.WithStack(&Fault{Kind: kind, Finger: finger, msg: msg})
}

// AsFault reports whether err wraps a *Fault, returning it if so.
func AsFault(err error) (*Fault, bool) {
	f, ok := errors.Cause(err).(*Fault)
	return f, ok
}
