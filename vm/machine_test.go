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

package vm_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/db47h/belt/asm"
	"github.com/db47h/belt/vm"
)

type W []uint16

func setup(t *testing.T, code string, belt W) (*vm.Machine, []uint16) {
	t.Helper()
	img, err := asm.Assemble("test", strings.NewReader(code))
	if err != nil {
		t.Fatal(err)
	}
	m, err := vm.New(vm.Program(img))
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range belt {
		m.Belt.Push(v)
	}
	return m, img
}

func check(t *testing.T, testName string, m *vm.Machine, img []uint16, pc int, belt W) {
	t.Helper()
	_, err := m.Run(context.Background(), 10000)
	if err != nil {
		t.Errorf("%s: %+v", testName, err)
		return
	}
	if pc < 0 {
		pc = len(img)
	}
	if int(m.PC) != pc {
		t.Errorf("%s: Bad PC %d != %d", testName, m.PC, pc)
		var buf bytes.Buffer
		asm.DisassembleAll(img, 0, &buf)
		t.Log("\n" + buf.String())
	}
	got := m.Belt.Values()[:len(belt)]
	for i := range belt {
		if got[i] != belt[i] {
			t.Errorf("%s: Belt error: expected %d, got %d", testName, belt, got)
			break
		}
	}
}

var tests = [...]struct {
	name string
	code string
	belt W
	pc   int
}{
	{"nop", "nop", W{0}, -1},
	{"lc", "lc 25", W{25, 0}, -1},
	{"lm", "lm data\nbreak\ndata:\n.word 42", W{42}, 2},
	{"and const", "lc 0x00FF\nand b0 0x0F0F", W{0x000F, 0x00FF}, -1},
	{"or const", "lc 0xF0\nor b0 0x0F", W{0xFF, 0xF0}, -1},
	{"xor const", "lc 0xFF\nxor b0 0x0F", W{0xF0, 0xFF}, -1},
	{"and const b1", "lc 0x3\nlc 0xFF\nand b1 0x1", W{1, 0xFF, 3}, -1},
	{"add", "lc 5\nlc 7\nadd b0 b1", W{12, 7, 5}, -1},
	{"add wraps", "lc 0xFFFF\nlc 2\nadd b0 b1", W{1}, -1},
	{"sub", "lc 5\nlc 7\nsub b0 b1", W{2}, -1},
	{"sub wraps", "lc 7\nlc 5\nsub b0 b1", W{0xFFFE}, -1},
	{"mul", "lc 300\nlc 300\nmul b0 b1", W{24464}, -1},
	{"div", "lc 3\nlc 10\ndiv b0 b1", W{3}, -1},
	{"and", "lc 0xC\nlc 0xA\nand b0 b1", W{8}, -1},
	{"or", "lc 0xC\nlc 0xA\nor b0 b1", W{0xE}, -1},
	{"xor", "lc 0xC\nlc 0xA\nxor b0 b1", W{6}, -1},
	{"sl", "lc 4\nlc 1\nsl b0 b1", W{16}, -1},
	{"sr", "lc 2\nlc 16\nsr b0 b1", W{4}, -1},
	{"sl 16", "lc 16\nlc 1\nsl b0 b1", W{0}, -1},
	{"sl imm", "lc 3\nsl b0 4", W{48, 3}, -1},
	{"sr imm", "lc 0x80\nsr b0 7", W{1}, -1},
	{"save", "lc 0x100\nlc 42\nsave b0 b1\nlm 0x100", W{42, 42, 0x100}, -1},
	{"load", "lc data\nload b0\nbreak\ndata:\n.word 7", W{7, 4}, 3},
	{"push pop", "lc 9\npush b0\nlc 1\npop", W{9, 1, 9}, -1},
	{"jump", "jump over\nlc 1\nover:\nlc 2", W{2, 0}, -1},
	{"jump belt", "lc over\njump b0\nlc 1\nover:\nlc 2", W{2, 5}, -1},
	{"beq", "lc 1\nlc 1\nbeq b0 b1 end\nlc 9\nend:", W{1, 1}, 8},
	{"beq not taken", "lc 1\nlc 2\nbeq b0 b1 end\nlc 9\nend:", W{9, 2, 1}, 8},
	{"blt", "lc 2\nlc 1\nblt b0 b1 end\nlc 9\nend:", W{1, 2}, 8},
	{"blt not taken", "lc 1\nlc 2\nblt b0 b1 end\nlc 9\nend:", W{9}, 8},
	{"ble", "lc 3\nlc 3\nble b0 b1 end\nlc 9\nend:", W{3, 3}, 8},
	{"ble not taken", "lc 3\nlc 4\nble b0 b1 end\nlc 9\nend:", W{9}, 8},
	{"break", "break\nlc 1", W{0}, 0},
	{"call ret", `
	lc back
	push b0
	lc 7
	call func
back:
	break
func:
	lc 40
	lc 2
	ret 2
`, W{2, 40, 7, 7}, 7},
}

func TestCore(t *testing.T) {
	for _, test := range tests {
		m, img := setup(t, test.code, nil)
		check(t, test.name, m, img, test.pc, test.belt)
	}
}

func TestScenarios(t *testing.T) {
	// lc + and
	m, img := setup(t, "lc 0x00FF\nand b0 0x0F0F", nil)
	for i := 0; i < 2; i++ {
		if r := m.Step(); r.Status != vm.Continue {
			t.Fatalf("step %d: got %v", i, r)
		}
	}
	if v := m.Belt.Peek(0); v != 0x000F {
		t.Errorf("got %#04x, want 0x000f", v)
	}

	// add
	m, _ = setup(t, "lc 5\nlc 7\nadd b0 b1", nil)
	for i := 0; i < 3; i++ {
		m.Step()
	}
	if v := m.Belt.Peek(0); v != 12 {
		t.Errorf("got %d, want 12", v)
	}

	// branch
	for _, tc := range []struct {
		a, b uint16
		want vm.Result
	}{
		{3, 3, vm.Result{Status: vm.Jump, Dest: 0x1234}},
		{3, 4, vm.Result{Status: vm.Continue}},
	} {
		m, img = setup(t, "beq b0 b1 0x1234", W{tc.a, tc.b})
		if r := m.Step(); r != tc.want {
			t.Errorf("beq %d %d: got %v, want %v", tc.a, tc.b, r, tc.want)
		}
		pc := uint16(len(img))
		if tc.want.Status == vm.Jump {
			pc = tc.want.Dest
		}
		if m.PC != pc {
			t.Errorf("beq %d %d: got PC %d, want %d", tc.a, tc.b, m.PC, pc)
		}
	}
}

func TestStep_divByZero(t *testing.T) {
	m, _ := setup(t, "lc 0\nlc 5\ndiv b0 b1", nil)
	m.Step()
	m.Step()
	before := m.Belt.Values()
	if r := m.Step(); r.Status != vm.Fail {
		t.Fatalf("got %v, want Fail", r)
	}
	if m.PC != 4 {
		t.Errorf("got PC %d, want 4", m.PC)
	}
	if after := m.Belt.Values(); !equal(before, after) {
		t.Errorf("belt changed from %v to %v", before, after)
	}
}

func TestStep_zero(t *testing.T) {
	m, _ := setup(t, "nop\nbreak", nil)
	if r := m.Step(); r.Status != vm.Continue || m.PC != 1 {
		t.Errorf("nop: got %v, PC %d", r, m.PC)
	}
	if r := m.Step(); r.Status != vm.Stop || m.PC != 1 {
		t.Errorf("break: got %v, PC %d", r, m.PC)
	}
	if m.InstructionCount() != 2 {
		t.Errorf("got %d instructions, want 2", m.InstructionCount())
	}
}

func TestStep_invalid(t *testing.T) {
	m, _ := vm.New(vm.Program(W{0x7010}))
	if r := m.Step(); r.Status != vm.Stop || m.PC != 0 {
		t.Errorf("got %v, PC %d", r, m.PC)
	}
	if v := m.Belt.Values(); !equal(v, make([]uint16, vm.BeltSize)) {
		t.Errorf("belt changed: %v", v)
	}
}

func TestStep_wrap(t *testing.T) {
	var mem [vm.MemSize]uint16
	mem[0xFFFF] = 0x2100 // lc
	mem[0] = 0x1234
	m, err := vm.New(vm.State([vm.BeltSize]uint16{}, mem[:], 0xFFFF, vm.SPStart))
	if err != nil {
		t.Fatal(err)
	}
	if r := m.Step(); r.Status != vm.Continue {
		t.Fatalf("got %v", r)
	}
	if m.PC != 1 || m.Belt.Peek(0) != 0x1234 {
		t.Errorf("got PC %d, b0 %#04x", m.PC, m.Belt.Peek(0))
	}
}

func TestStack(t *testing.T) {
	m, _ := vm.New()
	m.StackPush(1)
	m.StackPush(2)
	if m.SP != vm.SPStart-2 || m.Memory[vm.SPStart] != 1 || m.Memory[vm.SPStart-1] != 2 {
		t.Fatalf("SP %#04x, stack %v", m.SP, m.Memory[vm.SPStart-1:])
	}
	if v := m.StackPop(); v != 2 {
		t.Errorf("got %d, want 2", v)
	}
	if v := m.StackPop(); v != 1 {
		t.Errorf("got %d, want 1", v)
	}
	if m.SP != vm.SPStart {
		t.Errorf("got SP %#04x", m.SP)
	}
	// SP wraps
	m.StackPop()
	if m.SP != 0 {
		t.Errorf("got SP %#04x, want 0", m.SP)
	}
}

func TestNew(t *testing.T) {
	belt := [vm.BeltSize]uint16{1, 2, 3}
	m, err := vm.New(vm.State(belt, W{0x7200}, 0x10, 0x20))
	if err != nil {
		t.Fatal(err)
	}
	if m.PC != 0x10 || m.SP != 0x20 || m.Memory[0] != 0x7200 || len(m.Memory) != vm.MemSize {
		t.Errorf("got PC %#04x SP %#04x mem[0] %#04x", m.PC, m.SP, m.Memory[0])
	}
	if v := m.Belt.Values()[:3]; !equal(v, []uint16{1, 2, 3}) {
		t.Errorf("got belt %v", v)
	}

	if _, err = vm.New(vm.Program(make([]uint16, vm.MemSize+1))); err == nil {
		t.Error("expected an error")
	}
	if _, err = vm.New(vm.State(belt, make([]uint16, vm.MemSize+1), 0, 0)); err == nil {
		t.Error("expected an error")
	}
}

func TestExecuteInstruction_panics(t *testing.T) {
	for _, ins := range []vm.Instruction{
		vm.Constant{Op: vm.ConstantJump, Constant: vm.LabelRef("x")},
		vm.Immediate{Op: vm.ImmediateRet, Imm: vm.BeltSize + 1},
		nil,
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%v: expected a panic", ins)
				}
			}()
			m, _ := vm.New()
			m.ExecuteInstruction(ins)
		}()
	}
}

func TestResult_String(t *testing.T) {
	for _, tc := range []struct {
		r    vm.Result
		want string
	}{
		{vm.Result{Status: vm.Continue}, "Continue"},
		{vm.Result{Status: vm.Jump, Dest: 42}, "Jump{42}"},
		{vm.Result{Status: vm.Stop}, "Stop"},
		{vm.Result{Status: vm.Fail}, "Fail"},
		{vm.Result{Status: 7}, "Status(7)"},
	} {
		if got := tc.r.String(); got != tc.want {
			t.Errorf("got %q, want %q", got, tc.want)
		}
	}
}

func equal(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func BenchmarkRun(b *testing.B) {
	img, err := asm.Assemble("bench", strings.NewReader(`
	lc 0
loop:
	lc 1
	add b0 b1
	lc 1000
	beq b0 b1 end
	or b1 0
	jump loop
end:
	break
`))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m, _ := vm.New(vm.Program(img))
		if _, err := m.Run(context.Background(), 0); err != nil {
			b.Fatal(err)
		}
	}
}
