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
	"io"
	"strconv"
	"strings"

	"github.com/db47h/belt/internal/literal"
	"github.com/db47h/belt/vm"
)

// MaxAlign is the largest accepted .balign value.
const MaxAlign = 16

// operand shapes
type operand int

const (
	opReg operand = iota
	opConst
	opImm
)

var operandNames = [...]string{
	opReg:   "bN",
	opConst: "<constant|label>",
	opImm:   "<imm4>",
}

func (o operand) accepts(k TokenKind) bool {
	switch o {
	case opReg:
		return k == TokRegister
	case opConst:
		return k == TokNumber || k == TokText
	}
	return k == TokNumber
}

// form is one accepted spelling of a mnemonic.
type form struct {
	op       vm.Opcode
	operands []operand
}

func (f form) String() string {
	var b strings.Builder
	b.WriteString(vm.Mnemonic(f.op.Class, f.op.Sub))
	for _, o := range f.operands {
		b.WriteByte(' ')
		b.WriteString(operandNames[o])
	}
	return b.String()
}

var classOperands = [...][]operand{
	vm.ClassBeltConstant: {opReg, opConst},
	vm.ClassConstant:     {opConst},
	vm.ClassImmediate:    {opReg, opImm},
	vm.ClassRegister:     {opReg, opReg},
	vm.ClassBranch:       {opReg, opReg, opConst},
	vm.ClassUnary:        {opReg},
	vm.ClassZero:         nil,
}

// forms returns every accepted spelling of mnemonic name.
func forms(name string) []form {
	var fs []form
	for _, op := range vm.Lookup(name) {
		fs = append(fs, form{op, classOperands[op.Class]})
		if op.Class == vm.ClassImmediate && vm.ImmediateOp(op.Sub) == vm.ImmediateRet {
			fs = append(fs, form{op, []operand{opImm}})
		}
	}
	return fs
}

type parser struct {
	lex  *Lexer
	errs errList
	prog Program
}

// Parse parses assembly source read from r and returns its parse tree. Label
// references are left unresolved, see Link.
//
// The name parameter is used only in error messages to name the source of the
// error. If the io.Reader is a file, name should be the file name.
//
// Parsing goes on after a bad line so that every problem gets reported. The
// returned error, if not nil, is an ErrAsm. The returned program is never nil
// and holds the symbols of all the valid lines.
func Parse(name string, r io.Reader) (*Program, error) {
	p := &parser{lex: NewLexer(name, r)}
	for {
		line, eof := p.line()
		if len(line) > 0 {
			p.parseLine(line)
		}
		if eof {
			break
		}
	}
	return &p.prog, p.errs.err()
}

// line returns the tokens up to the next new line or end of input.
func (p *parser) line() (toks []Token, eof bool) {
	for {
		t := p.lex.Next()
		switch t.Kind {
		case TokEOF:
			return toks, true
		case TokNewLine:
			return toks, false
		}
		toks = append(toks, t)
	}
}

func (p *parser) parseLine(line []Token) {
	for _, t := range line {
		if t.Kind == TokIllegal {
			p.errs.addTok(t, t.Msg)
			return
		}
	}
	switch t := line[0]; t.Kind {
	case TokLabel:
		if len(line) > 1 {
			p.errs.addTok(line[1], "unexpected "+line[1].Kind.String()+" "+strconv.Quote(line[1].Text)+" after label definition")
			return
		}
		p.prog.Symbols = append(p.prog.Symbols, &Label{Pos: t.Pos, End: t.End, Name: t.Text})
	case TokDirective:
		p.parseDirective(line)
	case TokText:
		p.parseInstruction(line)
	default:
		p.errs.addTok(t, "expected instruction, label or directive, got "+t.Kind.String()+" "+strconv.Quote(t.Text))
	}
}

func (p *parser) parseDirective(line []Token) {
	d := line[0]
	switch d.Text {
	case ".balign":
		if len(line) != 2 || line[1].Kind != TokNumber {
			p.errs.add(d.Pos, line[len(line)-1].End, "expected .balign <0.."+strconv.Itoa(MaxAlign)+">")
			return
		}
		n, err := literal.Parse(line[1].Text, 16, false)
		if err != nil || n > MaxAlign {
			p.errs.addTok(line[1], "invalid alignment "+strconv.Quote(line[1].Text)+", expected one in range from 0 to "+strconv.Itoa(MaxAlign))
			return
		}
		p.prog.Symbols = append(p.prog.Symbols, &Align{Pos: d.Pos, N: uint(n)})
	case ".word":
		if len(line) != 2 || line[1].Kind != TokNumber {
			p.errs.add(d.Pos, line[len(line)-1].End, "expected .word <constant>")
			return
		}
		v, err := literal.Parse(line[1].Text, 16, false)
		if err != nil {
			p.errs.addTok(line[1], err.Error())
			return
		}
		p.prog.Symbols = append(p.prog.Symbols, &Word{Pos: d.Pos, Value: uint16(v)})
	default:
		p.errs.addTok(d, "unknown directive "+strconv.Quote(d.Text))
	}
}

func (p *parser) parseInstruction(line []Token) {
	m, args := line[0], line[1:]
	fs := forms(m.Text)
	if len(fs) == 0 {
		p.errs.addTok(m, "unknown instruction "+strconv.Quote(m.Text))
		return
	}
	f, ok := match(fs, args)
	if !ok {
		want := make([]string, len(fs))
		for i := range fs {
			want[i] = strconv.Quote(fs[i].String())
		}
		p.errs.add(m.Pos, line[len(line)-1].End, "invalid operands for "+m.Text+", expected "+strings.Join(want, " or "))
		return
	}

	var (
		regs  []vm.BeltPos
		k     vm.ConstantOrLabel
		imm   uint8
		valid = true
	)
	for i, o := range f.operands {
		t := args[i]
		switch o {
		case opReg:
			v, err := literal.Parse(t.Text[1:], 4, false)
			if err != nil {
				p.errs.addTok(t, "invalid belt position "+strconv.Quote(t.Text))
				valid = false
			}
			regs = append(regs, vm.BeltPos(v))
		case opConst:
			if t.Kind == TokText {
				k = vm.LabelRef(t.Text)
				break
			}
			v, err := literal.Parse(t.Text, 16, false)
			if err != nil {
				p.errs.addTok(t, err.Error())
				valid = false
			}
			k = vm.Const(uint16(v))
		case opImm:
			v, err := literal.Parse(t.Text, 4, false)
			if err != nil {
				p.errs.addTok(t, err.Error())
				valid = false
			}
			imm = uint8(v)
		}
	}
	if !valid {
		return
	}
	p.prog.Symbols = append(p.prog.Symbols, &Inst{Pos: m.Pos, End: line[len(line)-1].End, Instruction: build(f.op, regs, k, imm)})
}

// match returns the first form whose operand kinds match args.
func match(fs []form, args []Token) (form, bool) {
next:
	for _, f := range fs {
		if len(f.operands) != len(args) {
			continue
		}
		for i, o := range f.operands {
			if !o.accepts(args[i].Kind) {
				continue next
			}
		}
		return f, true
	}
	return form{}, false
}

func build(op vm.Opcode, regs []vm.BeltPos, k vm.ConstantOrLabel, imm uint8) vm.Instruction {
	// missing belt positions, as in "ret <imm4>", default to b0
	reg := func(i int) vm.BeltPos {
		if i < len(regs) {
			return regs[i]
		}
		return 0
	}
	switch op.Class {
	case vm.ClassBeltConstant:
		return vm.BeltConstant{Op: vm.BeltConstantOp(op.Sub), Pos: reg(0), Constant: k}
	case vm.ClassConstant:
		return vm.Constant{Op: vm.ConstantOp(op.Sub), Constant: k}
	case vm.ClassImmediate:
		return vm.Immediate{Op: vm.ImmediateOp(op.Sub), Pos: reg(0), Imm: imm}
	case vm.ClassRegister:
		return vm.Register{Op: vm.RegOp(op.Sub), Pos1: reg(0), Pos2: reg(1)}
	case vm.ClassBranch:
		return vm.Branch{Op: vm.BranchOp(op.Sub), Pos1: reg(0), Pos2: reg(1), Addr: k}
	case vm.ClassUnary:
		return vm.Unary{Op: vm.UnaryOp(op.Sub), Pos: reg(0)}
	}
	return vm.Zero{Op: vm.ZeroOp(op.Sub)}
}
