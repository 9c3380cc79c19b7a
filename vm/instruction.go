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

import (
	"fmt"
	"strconv"
)

// Class is the main opcode of an instruction, bits 15-12 of its first word.
// It fixes the operand shape and whether a second word follows.
type Class uint8

// Instruction classes.
const (
	ClassBeltConstant Class = iota + 1
	ClassConstant
	ClassImmediate
	ClassRegister
	ClassBranch
	ClassUnary
	ClassZero
)

var classNames = [...]string{
	ClassBeltConstant: "BeltConstant",
	ClassConstant:     "Constant",
	ClassImmediate:    "Immediate",
	ClassRegister:     "Register",
	ClassBranch:       "Branch",
	ClassUnary:        "Unary",
	ClassZero:         "Zero",
}

func (c Class) String() string {
	if c > 0 && int(c) < len(classNames) {
		return classNames[c]
	}
	return "Class(" + strconv.Itoa(int(c)) + ")"
}

// Words returns the number of machine words used by instructions of class c.
func (c Class) Words() int {
	switch c {
	case ClassBeltConstant, ClassConstant, ClassBranch:
		return 2
	}
	return 1
}

// BeltPos names a belt slot by age, 0 being the most recent value. Valid
// positions are 0 to 15.
type BeltPos uint8

func (p BeltPos) String() string { return "b" + strconv.Itoa(int(p)) }

// ConstantOrLabel is a 16 bits operand that is either a known value or a
// reference to a label that has not been resolved yet.
type ConstantOrLabel struct {
	Label string // non empty for an unresolved reference
	Value uint16
}

// Const returns a resolved operand.
func Const(v uint16) ConstantOrLabel { return ConstantOrLabel{Value: v} }

// LabelRef returns an unresolved reference to the named label.
func LabelRef(name string) ConstantOrLabel { return ConstantOrLabel{Label: name} }

// IsLabel reports whether c still refers to a label.
func (c ConstantOrLabel) IsLabel() bool { return c.Label != "" }

func (c ConstantOrLabel) String() string {
	if c.IsLabel() {
		return c.Label
	}
	return fmt.Sprintf("0x%04x", c.Value)
}

// Instruction is one of BeltConstant, Constant, Immediate, Register, Branch,
// Unary or Zero.
type Instruction interface {
	// Class returns the main opcode.
	Class() Class
	// String returns the instruction in assembler syntax.
	String() string
	instruction()
}

// BeltConstantOp selects the operation of a BeltConstant instruction.
type BeltConstantOp uint8

// BeltConstant operations.
const (
	BeltConstantAnd BeltConstantOp = iota
	BeltConstantOr
	BeltConstantXor
)

// ConstantOp selects the operation of a Constant instruction.
type ConstantOp uint8

// Constant operations.
const (
	ConstantLoadFromMemory ConstantOp = iota
	ConstantLoad
	ConstantCall
	ConstantJump
)

// ImmediateOp selects the operation of an Immediate instruction.
type ImmediateOp uint8

// Immediate operations.
const (
	ImmediateShiftLeft ImmediateOp = iota
	ImmediateShiftRight
	ImmediateRet
)

// RegOp selects the operation of a Register instruction.
type RegOp uint8

// Register operations.
const (
	RegAdd RegOp = iota
	RegSub
	RegMul
	RegDiv
	RegAnd
	RegOr
	RegXor
	RegSave
	RegShiftLeft
	RegShiftRight
)

// BranchOp selects the comparison of a Branch instruction.
type BranchOp uint8

// Branch comparisons.
const (
	BranchLower BranchOp = iota
	BranchLowerEq
	BranchEq
)

// UnaryOp selects the operation of a Unary instruction.
type UnaryOp uint8

// Unary operations.
const (
	UnaryLoad UnaryOp = iota
	UnaryJump
	UnaryPush
)

// ZeroOp selects the operation of a Zero instruction.
type ZeroOp uint8

// Zero operand operations.
const (
	ZeroNop ZeroOp = iota
	ZeroPop
	ZeroBreak
)

// BeltConstant combines a belt value with a 16 bits constant.
type BeltConstant struct {
	Op       BeltConstantOp
	Pos      BeltPos
	Constant ConstantOrLabel
}

// Constant takes a single 16 bits constant: memory load, literal load, call or
// jump.
type Constant struct {
	Op       ConstantOp
	Constant ConstantOrLabel
}

// Immediate takes a belt position and a 4 bits immediate.
type Immediate struct {
	Op  ImmediateOp
	Pos BeltPos
	Imm uint8
}

// Register combines two belt values.
type Register struct {
	Op         RegOp
	Pos1, Pos2 BeltPos
}

// Branch compares two belt values and jumps to Addr if the comparison holds.
type Branch struct {
	Op         BranchOp
	Pos1, Pos2 BeltPos
	Addr       ConstantOrLabel
}

// Unary operates on a single belt value.
type Unary struct {
	Op  UnaryOp
	Pos BeltPos
}

// Zero takes no operands.
type Zero struct {
	Op ZeroOp
}

func (BeltConstant) Class() Class { return ClassBeltConstant }
func (Constant) Class() Class     { return ClassConstant }
func (Immediate) Class() Class    { return ClassImmediate }
func (Register) Class() Class     { return ClassRegister }
func (Branch) Class() Class       { return ClassBranch }
func (Unary) Class() Class        { return ClassUnary }
func (Zero) Class() Class         { return ClassZero }

func (BeltConstant) instruction() {}
func (Constant) instruction()     {}
func (Immediate) instruction()    {}
func (Register) instruction()     {}
func (Branch) instruction()       {}
func (Unary) instruction()        {}
func (Zero) instruction()         {}

func (i BeltConstant) String() string {
	return Mnemonic(ClassBeltConstant, uint8(i.Op)) + " " + i.Pos.String() + " " + i.Constant.String()
}

func (i Constant) String() string {
	return Mnemonic(ClassConstant, uint8(i.Op)) + " " + i.Constant.String()
}

func (i Immediate) String() string {
	return Mnemonic(ClassImmediate, uint8(i.Op)) + " " + i.Pos.String() + " " + strconv.Itoa(int(i.Imm))
}

func (i Register) String() string {
	return Mnemonic(ClassRegister, uint8(i.Op)) + " " + i.Pos1.String() + " " + i.Pos2.String()
}

func (i Branch) String() string {
	return Mnemonic(ClassBranch, uint8(i.Op)) + " " + i.Pos1.String() + " " + i.Pos2.String() + " " + i.Addr.String()
}

func (i Unary) String() string {
	return Mnemonic(ClassUnary, uint8(i.Op)) + " " + i.Pos.String()
}

func (i Zero) String() string { return Mnemonic(ClassZero, uint8(i.Op)) }

// Size returns the number of machine words needed to encode i.
func Size(i Instruction) int { return i.Class().Words() }
