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
	"strconv"
	"text/scanner"

	"github.com/db47h/belt/internal/bmi"
	"github.com/db47h/belt/vm"
)

// Program is the parse tree of an assembly source: its symbols in source
// order.
type Program struct {
	Symbols []Symbol
}

// Symbol is one of *Inst, *Label or a Directive.
type Symbol interface {
	Position() scanner.Position
	symbol()
}

// Inst is an instruction. Constant operands may still refer to labels. End
// is the source offset just past its last operand.
type Inst struct {
	Pos         scanner.Position
	End         int
	Instruction vm.Instruction
}

// Label marks the address of the next instruction.
type Label struct {
	Pos  scanner.Position
	End  int
	Name string
}

// Directive is an assembler directive.
type Directive interface {
	Symbol
	directive()
}

// Align pads the output with nop words until its address is a multiple of N
// words.
type Align struct {
	Pos scanner.Position
	N   uint
}

// Word places a raw word in the output.
type Word struct {
	Pos   scanner.Position
	Value uint16
}

func (s *Inst) Position() scanner.Position  { return s.Pos }
func (s *Label) Position() scanner.Position { return s.Pos }
func (s *Align) Position() scanner.Position { return s.Pos }
func (s *Word) Position() scanner.Position  { return s.Pos }

func (*Inst) symbol()  {}
func (*Label) symbol() {}
func (*Align) symbol() {}
func (*Word) symbol()  {}

func (*Align) directive() {}
func (*Word) directive()  {}

func (s *Inst) String() string  { return s.Instruction.String() }
func (s *Label) String() string { return s.Name + ":" }
func (s *Align) String() string { return ".balign " + strconv.Itoa(int(s.N)) }
func (s *Word) String() string  { return ".word " + bmi.Hex(s.Value) }
