// This file is part of belt - https://github.com/db47h/belt
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
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

package asm

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/db47h/belt/internal/bmi"
	"github.com/db47h/belt/vm"
)

// Assemble compiles assembly read from the supplied io.Reader and returns the
// resulting image and error if any.
//
// The name parameter is used only in error messages to name the source of the
// error. If the io.Reader is a file, name should be the file name.
//
// The returned error, if not nil, can safely be cast to an ErrAsm value that
// will contain up to MaxErrors entries, plus one counting the errors left out.
func Assemble(name string, r io.Reader) (img []uint16, err error) {
	prog, err := Parse(name, r)
	if err != nil {
		return nil, err
	}
	img, _, err = Link(prog)
	return img, err
}

// Disassemble writes a disassembly of the instruction at position pc in mem to
// the specified io.Writer and returns the position of the next instruction and
// any write error. Words that do not decode, or a two word instruction cut short
// by the end of mem, are written as a .word directive. An error is returned if
// pc is not an index in mem.
func Disassemble(mem []uint16, pc int, w io.Writer) (next int, err error) {
	if pc < 0 || pc >= len(mem) {
		return pc, errors.Errorf("disassemble: pc %d out of range [0, %d)", pc, len(mem))
	}
	ew := bmi.NewErrWriter(w)
	ins, n, ok := vm.DecodeWords(mem[pc:])
	if !ok || pc+n > len(mem) {
		io.WriteString(ew, ".word "+bmi.Hex(mem[pc]))
		return pc + 1, ew.Err
	}
	io.WriteString(ew, ins.String())
	return pc + n, ew.Err
}

// DisassembleAll writes a disassembly of all words in the given slice to
// the specified io.Writer. The base argument specifies the real address of the
// first word (mem[0]). It will return any write error.
func DisassembleAll(mem []uint16, base int, w io.Writer) error {
	ew := bmi.NewErrWriter(w)
	for pc := 0; pc < len(mem); {
		fmt.Fprintf(ew, "%s\t", bmi.Hex(uint16(base+pc)))
		pc, _ = Disassemble(mem, pc, ew)
		ew.Write([]byte{'\n'})
		if ew.Err != nil {
			return ew.Err
		}
	}
	return nil
}
