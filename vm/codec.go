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

package vm

import "github.com/pkg/errors"

// Word layout: [class:4][sub:4][operand1:4][operand2:4], optionally followed
// by a 16 bits constant word.
func word(c Class, sub uint8, a, b uint8) uint16 {
	return uint16(c)<<12 | uint16(sub&0xf)<<8 | uint16(a&0xf)<<4 | uint16(b&0xf)
}

// UnresolvedLabelError is returned by Encode when an operand still refers to
// a label.
type UnresolvedLabelError struct {
	Label       string
	Instruction Instruction
}

func (e *UnresolvedLabelError) Error() string {
	return "unresolved label " + e.Label + " in " + e.Instruction.String()
}

// Decode decodes the instruction starting with word w. The second word s is
// only looked at by two-word classes. It returns the instruction and the number
// of words it uses, or ok == false if w is not a valid instruction: reserved
// class or sub-opcode, or non-zero bits in an unused operand slot.
func Decode(w, s uint16) (ins Instruction, n int, ok bool) {
	c := Class(w >> 12)
	sub := uint8(w>>8) & 0xf
	a := uint8(w>>4) & 0xf
	b := uint8(w) & 0xf
	if int(sub) >= SubOps(c) {
		return nil, 0, false
	}
	switch c {
	case ClassBeltConstant:
		if b != 0 {
			return nil, 0, false
		}
		ins = BeltConstant{Op: BeltConstantOp(sub), Pos: BeltPos(a), Constant: Const(s)}
	case ClassConstant:
		if a != 0 || b != 0 {
			return nil, 0, false
		}
		ins = Constant{Op: ConstantOp(sub), Constant: Const(s)}
	case ClassImmediate:
		ins = Immediate{Op: ImmediateOp(sub), Pos: BeltPos(a), Imm: b}
	case ClassRegister:
		ins = Register{Op: RegOp(sub), Pos1: BeltPos(a), Pos2: BeltPos(b)}
	case ClassBranch:
		ins = Branch{Op: BranchOp(sub), Pos1: BeltPos(a), Pos2: BeltPos(b), Addr: Const(s)}
	case ClassUnary:
		if b != 0 {
			return nil, 0, false
		}
		ins = Unary{Op: UnaryOp(sub), Pos: BeltPos(a)}
	case ClassZero:
		if a != 0 || b != 0 {
			return nil, 0, false
		}
		ins = Zero{Op: ZeroOp(sub)}
	default:
		return nil, 0, false
	}
	return ins, c.Words(), true
}

// DecodeWords decodes the instruction at the start of mem. A missing second
// word reads as zero.
func DecodeWords(mem []uint16) (Instruction, int, bool) {
	switch len(mem) {
	case 0:
		return nil, 0, false
	case 1:
		return Decode(mem[0], 0)
	}
	return Decode(mem[0], mem[1])
}

// Encode returns the machine words for ins: one word, or two for the
// BeltConstant, Constant and Branch classes. An operand that still refers to a
// label yields an *UnresolvedLabelError. Operand fields that do not fit their
// slot, such as a belt position above 15, are an error too.
func Encode(ins Instruction) ([]uint16, error) {
	return AppendEncode(nil, ins)
}

// AppendEncode appends the machine words for ins to dst. See Encode.
func AppendEncode(dst []uint16, ins Instruction) ([]uint16, error) {
	constant := func(c ConstantOrLabel) (uint16, error) {
		if c.IsLabel() {
			return 0, &UnresolvedLabelError{Label: c.Label, Instruction: ins}
		}
		return c.Value, nil
	}
	var (
		w   uint16
		err error
	)
	switch i := ins.(type) {
	case BeltConstant:
		if err = checkFields(ins, uint8(i.Op), uint8(i.Pos)); err != nil {
			return dst, err
		}
		var k uint16
		if k, err = constant(i.Constant); err != nil {
			return dst, err
		}
		return append(dst, word(ClassBeltConstant, uint8(i.Op), uint8(i.Pos), 0), k), nil
	case Constant:
		if err = checkFields(ins, uint8(i.Op)); err != nil {
			return dst, err
		}
		var k uint16
		if k, err = constant(i.Constant); err != nil {
			return dst, err
		}
		return append(dst, word(ClassConstant, uint8(i.Op), 0, 0), k), nil
	case Immediate:
		if err = checkFields(ins, uint8(i.Op), uint8(i.Pos), i.Imm); err != nil {
			return dst, err
		}
		w = word(ClassImmediate, uint8(i.Op), uint8(i.Pos), i.Imm)
	case Register:
		if err = checkFields(ins, uint8(i.Op), uint8(i.Pos1), uint8(i.Pos2)); err != nil {
			return dst, err
		}
		w = word(ClassRegister, uint8(i.Op), uint8(i.Pos1), uint8(i.Pos2))
	case Branch:
		if err = checkFields(ins, uint8(i.Op), uint8(i.Pos1), uint8(i.Pos2)); err != nil {
			return dst, err
		}
		var k uint16
		if k, err = constant(i.Addr); err != nil {
			return dst, err
		}
		return append(dst, word(ClassBranch, uint8(i.Op), uint8(i.Pos1), uint8(i.Pos2)), k), nil
	case Unary:
		if err = checkFields(ins, uint8(i.Op), uint8(i.Pos)); err != nil {
			return dst, err
		}
		w = word(ClassUnary, uint8(i.Op), uint8(i.Pos), 0)
	case Zero:
		if err = checkFields(ins, uint8(i.Op)); err != nil {
			return dst, err
		}
		w = word(ClassZero, uint8(i.Op), 0, 0)
	default:
		return dst, errors.Errorf("cannot encode instruction of type %T", ins)
	}
	return append(dst, w), nil
}

// checkFields verifies that the sub-opcode is defined for the class of ins and
// that every nibble operand fits in 4 bits.
func checkFields(ins Instruction, sub uint8, nibbles ...uint8) error {
	if int(sub) >= SubOps(ins.Class()) {
		return errors.Errorf("%s: invalid sub-opcode %d", ins.Class(), sub)
	}
	for _, n := range nibbles {
		if n > 0xf {
			return errors.Errorf("%s: operand %d does not fit in 4 bits", ins.Class(), n)
		}
	}
	return nil
}
