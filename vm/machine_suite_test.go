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
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/db47h/belt/asm"
	"github.com/db47h/belt/vm"
)

func assemble(code string) []uint16 {
	img, err := asm.Assemble("call.s", strings.NewReader(code))
	Expect(err).NotTo(HaveOccurred())
	return img
}

var _ = Describe("Machine", func() {
	var (
		m    *vm.Machine
		belt [vm.BeltSize]uint16
	)

	BeforeEach(func() {
		for i := range belt {
			belt[i] = uint16(100 + i)
		}
	})

	Context("Calling convention", func() {
		BeforeEach(func() {
			code := `
	call func
	break
	.balign 16
func:
	lc 1
	lc 2
	lc 3
	ret 2
`
			var err error
			m, err = vm.New(vm.State(belt, assemble(code), 0, vm.SPStart))
			Expect(err).NotTo(HaveOccurred())
			// return address
			m.StackPush(2)
		})

		It("should spill the whole belt on call", func() {
			Expect(m.Step()).To(Equal(vm.Result{Status: vm.Jump, Dest: 16}))
			Expect(m.PC).To(Equal(uint16(16)))
			Expect(m.SP).To(Equal(uint16(vm.SPStart - 1 - vm.BeltSize)))
			for i := 0; i < vm.BeltSize; i++ {
				Expect(m.Memory[vm.SPStart-1-i]).To(Equal(belt[i]))
			}
			Expect(m.Belt.Values()).To(Equal(belt[:]))
		})

		It("should restore the caller belt and keep return values on ret", func() {
			for i := 0; i < 4; i++ {
				m.Step()
			}
			Expect(m.Belt.Peek(0)).To(Equal(uint16(3)))
			r := m.Step()
			Expect(r).To(Equal(vm.Result{Status: vm.Jump, Dest: 2}))
			Expect(m.PC).To(Equal(uint16(2)))
			Expect(m.SP).To(Equal(uint16(vm.SPStart)))

			want := append([]uint16{3, 2}, belt[:vm.BeltSize-2]...)
			Expect(m.Belt.Values()).To(Equal(want))
			Expect(m.Step().Status).To(Equal(vm.Stop))
		})

		It("should return no values with ret 0", func() {
			m.Memory[22] = 0x3200 // ret b0 0
			for i := 0; i < 5; i++ {
				m.Step()
			}
			Expect(m.PC).To(Equal(uint16(2)))
			Expect(m.Belt.Values()).To(Equal(belt[:]))
		})

		It("should return up to the whole callee belt", func() {
			m.Memory[22] = 0x320f // ret b0 15
			for i := 0; i < 4; i++ {
				m.Step()
			}
			callee := m.Belt.Values()
			m.Step()
			Expect(m.Belt.Values()).To(Equal(append(callee[:15:15], belt[0])))

			m, _ = vm.New(vm.State(belt, nil, 0, vm.SPStart))
			for i := 0; i < vm.BeltSize+1; i++ {
				m.StackPush(uint16(i))
			}
			r := m.ExecuteInstruction(vm.Immediate{Op: vm.ImmediateRet, Imm: vm.BeltSize})
			Expect(r).To(Equal(vm.Result{Status: vm.Jump, Dest: 0}))
			Expect(m.Belt.Values()).To(Equal(belt[:]))
		})
	})

	Context("Run", func() {
		It("should return no error on break", func() {
			m, _ = vm.New(vm.Program(assemble("lc 1\nbreak")))
			r, err := m.Run(context.Background(), 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Status).To(Equal(vm.Stop))
			Expect(m.InstructionCount()).To(BeEquivalentTo(2))
		})

		It("should report division by zero as a fault", func() {
			m, _ = vm.New(vm.Program(assemble("lc 0\nlc 5\ndiv b0 b1")))
			r, err := m.Run(context.Background(), 0)
			Expect(r.Status).To(Equal(vm.Fail))
			Expect(err).To(MatchError(vm.ErrFault))
			Expect(err.Error()).To(ContainSubstring("div b0 b1"))
			Expect(m.PC).To(Equal(uint16(4)))
		})

		It("should stop after the step limit", func() {
			m, _ = vm.New(vm.Program(assemble("loop:\njump loop")))
			_, err := m.Run(context.Background(), 100)
			Expect(err).To(MatchError(vm.ErrStepLimit))
			Expect(m.InstructionCount()).To(BeEquivalentTo(100))
		})

		It("should honor context cancellation", func() {
			m, _ = vm.New(vm.Program(assemble("loop:\njump loop")))
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := m.Run(ctx, 0)
			Expect(err).To(MatchError(context.Canceled))
			Expect(m.InstructionCount()).To(BeZero())
		})
	})
})
