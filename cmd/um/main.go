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

// Command um loads and runs a Universal Machine program image.
//
// Usage:
//
//	um [flags] program.um
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/universalmachine/um/disasm"
	"github.com/universalmachine/um/vm"
)

var (
	trace bool
	dump  bool
	noraw bool
	debug bool
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] program\n", os.Args[0])
	flag.PrintDefaults()
}

func setupIO() (teardown func()) {
	if noraw {
		return nil
	}
	teardown, err := setRawIO()
	if err != nil {
		// Not every environment has a controlling terminal (pipes, test
		// harnesses); fall back to whatever line discipline is already in
		// place rather than failing the run.
		return nil
	}
	return teardown
}

func atExit(i *vm.Instance, err error) int {
	if err == nil {
		return 0
	}
	if debug {
		fmt.Fprintf(os.Stderr, "\n%+v\n", err)
	} else if f, ok := vm.AsFault(err); ok {
		fmt.Fprintf(os.Stderr, "\nfault at %d: %s\n", f.Finger, f.Kind)
	} else {
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
	}
	if dump && i != nil {
		i.Dump(os.Stderr)
	}
	return 1
}

func run() int {
	flag.BoolVar(&trace, "trace", false, "print a disassembly trace of each executed instruction to stderr")
	flag.BoolVar(&dump, "dump", false, "on exit, dump registers, finger, and heap stats to stderr")
	flag.BoolVar(&noraw, "noraw", false, "don't put the controlling terminal into raw mode")
	flag.BoolVar(&debug, "debug", false, "print a full error trace on fault")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		return 1
	}

	image, err := vm.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	teardown := setupIO()
	if teardown != nil {
		defer teardown()
	}

	i, err := vm.New(image, vm.Input(os.Stdin), vm.Output(os.Stdout))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	if trace {
		err = runTraced(i)
	} else {
		err = i.Run()
	}
	if dump && err == nil {
		i.Dump(os.Stderr)
	}
	return atExit(i, err)
}

// runTraced single-steps the machine, printing a disassembly of each
// instruction to stderr before executing it. It re-reads segment 0 on every
// iteration since load_program may have replaced it.
func runTraced(i *vm.Instance) error {
	for i.State() == vm.Running {
		pc := i.Finger()
		code := i.CodeSegment()
		if pc < len(code) {
			fmt.Fprintf(os.Stderr, "% 8d\t", pc)
			disasm.One(code, pc, os.Stderr)
			fmt.Fprintln(os.Stderr)
		}
		if err := i.Step(); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	os.Exit(run())
}
