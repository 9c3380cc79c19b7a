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

// Machine geometry and reset values.
const (
	BeltSize = 16
	MemSize  = 1 << 16
	PCStart  = 0x0000
	SPStart  = 0xFFFF
)

// Status tells a driver what a step did.
type Status int

// Step outcomes.
const (
	Continue Status = iota // PC advanced past the instruction
	Jump                   // PC set to Result.Dest
	Stop                   // normal halt: break or an invalid instruction
	Fail                   // runtime fault: division by zero
)

var statusNames = [...]string{"Continue", "Jump", "Stop", "Fail"}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "Status(" + strconv.Itoa(int(s)) + ")"
}

// Result is the outcome of executing one instruction.
type Result struct {
	Status Status
	Dest   uint16 // jump target, valid when Status == Jump
}

func (r Result) String() string {
	if r.Status == Jump {
		return "Jump{" + strconv.Itoa(int(r.Dest)) + "}"
	}
	return r.Status.String()
}

// Machine is a belt machine: a 16 slots belt of 16 bits words, 64K words of
// memory, a program counter and a stack pointer. The call stack lives in
// memory and grows down from SP.
//
// All fields may be read and written directly between steps. A Machine is not
// safe for concurrent use.
type Machine struct {
	Belt   *Belt[uint16]
	Memory []uint16 // always MemSize words
	PC     uint16
	SP     uint16

	tracer   Tracer
	insCount int64
}

// Option interface
type Option func(*Machine) error

// State replaces the belt, memory, PC and SP of the machine. belt[0] is the
// most recent belt value. mem is copied at address 0 and may be shorter than
// MemSize.
func State(belt [BeltSize]uint16, mem []uint16, pc, sp uint16) Option {
	return func(m *Machine) error {
		if len(mem) > MemSize {
			return errTooLarge(len(mem))
		}
		m.Belt = BeltOf(belt[:]...)
		copy(m.Memory, mem)
		m.PC, m.SP = pc, sp
		return nil
	}
}

// Program copies the given machine words at address 0.
func Program(words []uint16) Option {
	return func(m *Machine) error {
		if len(words) > MemSize {
			return errTooLarge(len(words))
		}
		copy(m.Memory, words)
		return nil
	}
}

// Trace sets a Tracer that will be called after every step.
func Trace(t Tracer) Option {
	return func(m *Machine) error { m.tracer = t; return nil }
}

// SetOptions sets the provided options.
func (m *Machine) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return err
		}
	}
	return nil
}

// New returns a zeroed machine with PC = PCStart and SP = SPStart, then
// applies opts.
func New(opts ...Option) (*Machine, error) {
	m := &Machine{
		Belt:   NewBelt[uint16](BeltSize),
		Memory: make([]uint16, MemSize),
		PC:     PCStart,
		SP:     SPStart,
	}
	if err := m.SetOptions(opts...); err != nil {
		return nil, err
	}
	return m, nil
}

// InstructionCount returns the number of steps executed so far.
func (m *Machine) InstructionCount() int64 {
	return m.insCount
}

// StackPush stores v at SP then decrements SP.
func (m *Machine) StackPush(v uint16) {
	m.Memory[m.SP] = v
	m.SP--
}

// StackPop increments SP and returns the word it points to.
func (m *Machine) StackPop() uint16 {
	m.SP++
	return m.Memory[m.SP]
}

// Step fetches, decodes and executes the instruction at PC. On Continue PC
// moves past the instruction, on Jump it is set to the destination. Stop and
// Fail leave PC unchanged. An invalid instruction stops the machine without
// side effects.
func (m *Machine) Step() Result {
	pc := m.PC
	ins, n, ok := Decode(m.Memory[pc], m.Memory[pc+1])
	var r Result
	if !ok {
		r = Result{Status: Stop}
	} else {
		r = m.ExecuteInstruction(ins)
		switch r.Status {
		case Continue:
			m.PC += uint16(n)
		case Jump:
			m.PC = r.Dest
		}
	}
	m.insCount++
	if m.tracer != nil {
		m.tracer.Step(pc, ins, r)
	}
	return r
}

// ExecuteInstruction executes ins against the belt and memory. It does not
// touch PC: the caller applies the returned Result. Operands must be resolved
// constants.
func (m *Machine) ExecuteInstruction(ins Instruction) Result {
	switch i := ins.(type) {
	case BeltConstant:
		return m.execBeltConstant(i.Op, i.Pos, mustConst(i.Constant))
	case Constant:
		return m.execConstant(i.Op, mustConst(i.Constant))
	case Immediate:
		return m.execImmediate(i.Op, i.Pos, i.Imm)
	case Register:
		return m.execRegister(i.Op, i.Pos1, i.Pos2)
	case Branch:
		return m.execBranch(i.Op, i.Pos1, i.Pos2, mustConst(i.Addr))
	case Unary:
		return m.execUnary(i.Op, i.Pos)
	case Zero:
		return m.execZero(i.Op)
	}
	panic(fmt.Sprintf("vm: cannot execute instruction of type %T", ins))
}

func (m *Machine) peek(p BeltPos) uint16 { return m.Belt.Peek(int(p)) }

func (m *Machine) execBeltConstant(op BeltConstantOp, pos BeltPos, k uint16) Result {
	v := m.peek(pos)
	switch op {
	case BeltConstantAnd:
		m.Belt.Push(v & k)
	case BeltConstantOr:
		m.Belt.Push(v | k)
	case BeltConstantXor:
		m.Belt.Push(v ^ k)
	default:
		return Result{Status: Stop}
	}
	return Result{Status: Continue}
}

func (m *Machine) execConstant(op ConstantOp, k uint16) Result {
	switch op {
	case ConstantLoadFromMemory:
		m.Belt.Push(m.Memory[k])
	case ConstantLoad:
		m.Belt.Push(k)
	case ConstantCall:
		for i := 0; i < BeltSize; i++ {
			m.StackPush(m.Belt.Peek(i))
		}
		return Result{Status: Jump, Dest: k}
	case ConstantJump:
		return Result{Status: Jump, Dest: k}
	default:
		return Result{Status: Stop}
	}
	return Result{Status: Continue}
}

func (m *Machine) execImmediate(op ImmediateOp, pos BeltPos, imm uint8) Result {
	v := m.peek(pos)
	switch op {
	case ImmediateShiftLeft:
		m.Belt.Push(v << imm)
	case ImmediateShiftRight:
		m.Belt.Push(v >> imm)
	case ImmediateRet:
		if imm > BeltSize {
			panic("vm: ret of more than " + strconv.Itoa(BeltSize) + " values")
		}
		callee := m.Belt.Clone()
		for i := 0; i < BeltSize; i++ {
			m.Belt.Push(m.StackPop())
		}
		for i := int(imm) - 1; i >= 0; i-- {
			m.Belt.Push(callee.Peek(i))
		}
		return Result{Status: Jump, Dest: m.StackPop()}
	default:
		return Result{Status: Stop}
	}
	return Result{Status: Continue}
}

func (m *Machine) execRegister(op RegOp, pos1, pos2 BeltPos) Result {
	a, b := m.peek(pos1), m.peek(pos2)
	var v uint16
	switch op {
	case RegAdd:
		v = a + b
	case RegSub:
		v = a - b
	case RegMul:
		v = a * b
	case RegDiv:
		if b == 0 {
			return Result{Status: Fail}
		}
		v = a / b
	case RegAnd:
		v = a & b
	case RegOr:
		v = a | b
	case RegXor:
		v = a ^ b
	case RegSave:
		m.Memory[b] = a
		return Result{Status: Continue}
	case RegShiftLeft:
		v = a << b
	case RegShiftRight:
		v = a >> b
	default:
		return Result{Status: Stop}
	}
	m.Belt.Push(v)
	return Result{Status: Continue}
}

func (m *Machine) execBranch(op BranchOp, pos1, pos2 BeltPos, addr uint16) Result {
	a, b := m.peek(pos1), m.peek(pos2)
	var taken bool
	switch op {
	case BranchLower:
		taken = a < b
	case BranchLowerEq:
		taken = a <= b
	case BranchEq:
		taken = a == b
	default:
		return Result{Status: Stop}
	}
	if taken {
		return Result{Status: Jump, Dest: addr}
	}
	return Result{Status: Continue}
}

func (m *Machine) execUnary(op UnaryOp, pos BeltPos) Result {
	v := m.peek(pos)
	switch op {
	case UnaryLoad:
		m.Belt.Push(m.Memory[v])
	case UnaryJump:
		return Result{Status: Jump, Dest: v}
	case UnaryPush:
		m.StackPush(v)
	default:
		return Result{Status: Stop}
	}
	return Result{Status: Continue}
}

func (m *Machine) execZero(op ZeroOp) Result {
	switch op {
	case ZeroNop:
	case ZeroPop:
		m.Belt.Push(m.StackPop())
	case ZeroBreak:
		return Result{Status: Stop}
	default:
		return Result{Status: Stop}
	}
	return Result{Status: Continue}
}

func mustConst(c ConstantOrLabel) uint16 {
	if c.IsLabel() {
		panic("vm: cannot execute unresolved label " + c.Label)
	}
	return c.Value
}
