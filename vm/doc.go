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

// Package vm implements the Universal Machine: a register-based virtual
// machine with a segmented word heap, fourteen operations, and blocking
// byte I/O.
//
// An Instance owns eight registers, an execution finger into segment 0, and
// a segment heap. Fetch, decode, and dispatch happen in Step/Run; segment
// allocation, recycling, and the copy-on-write clone used by load_program
// live in the heap type.
//
// For all intents and purposes the VM behaves according to the Universal
// Machine specification. One thing worth knowing if you go spelunking in
// the dispatch loop: the execution finger is advanced once, right after
// fetch and before decode, so that load_program's overwrite of the finger
// (via the Instance's pc field) is never clobbered by the fetch that produced the
// load_program instruction itself.
package vm
