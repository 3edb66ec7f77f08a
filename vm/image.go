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
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// ErrMalformedProgram is returned by DecodeImage, and by Load wrapped with the
// file path, when the program image size is not a multiple of four bytes.
var ErrMalformedProgram = errors.New("malformed program: size is not a multiple of 4 bytes")

// DecodeImage reads a program image from r and returns it as a slice of
// Words. The wire format is big-endian 32 bit words, per spec. An image
// whose length is not a multiple of four bytes is rejected with
// ErrMalformedProgram; the empty image (zero words) is legal.
func DecodeImage(r io.Reader) ([]Word, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read failed")
	}
	if len(raw)%4 != 0 {
		return nil, ErrMalformedProgram
	}
	words := make([]Word, len(raw)/4)
	for i := range words {
		words[i] = Word(binary.BigEndian.Uint32(raw[i*4:]))
	}
	return words, nil
}

// Load reads a program image from the file at path. It is a thin wrapper
// around DecodeImage for the common case of loading from disk.
func Load(path string) ([]Word, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open failed")
	}
	defer f.Close()
	words, err := DecodeImage(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return words, nil
}

// Encode writes words to w in the same big-endian wire format DecodeImage
// reads. Mostly useful for building test fixtures and for dumping a cloned
// segment back out for inspection.
func Encode(w io.Writer, words []Word) error {
	var b [4]byte
	for _, word := range words {
		binary.BigEndian.PutUint32(b[:], uint32(word))
		if _, err := w.Write(b[:]); err != nil {
			return errors.Wrap(err, "write failed")
		}
	}
	return nil
}
