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
	"fmt"
	"io"

	"github.com/universalmachine/um/internal/umi"
)

// Dump writes a diagnostic summary of the instance's registers, execution
// finger, run state, and heap occupancy to w. It is not part of the guest-
// visible machine; it exists for -dump style tooling in cmd/um.
func (i *Instance) Dump(w io.Writer) error {
	ew := umi.NewErrWriter(w)
	fmt.Fprintf(ew, "pc: %d\n", i.pc)
	fmt.Fprintf(ew, "state: %v\n", i.state)
	fmt.Fprintf(ew, "instructions executed: %d\n", i.insCount)
	fmt.Fprintf(ew, "registers:")
	for _, r := range i.regs {
		fmt.Fprintf(ew, " %08x", uint32(r))
	}
	fmt.Fprintln(ew)
	stats := i.heap.stats()
	fmt.Fprintf(ew, "segments: %d live, %d free, %d words resident\n",
		stats.SegmentCount-stats.FreeCount, stats.FreeCount, stats.WordsResident)
	if n, live := i.SegmentLen(0); live {
		fmt.Fprintf(ew, "segment 0 length: %d\n", n)
	}
	return ew.Err
}

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	default:
		return "unknown"
	}
}
