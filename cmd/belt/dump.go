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

package main

import (
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"

	"github.com/db47h/belt/asm"
	"github.com/db47h/belt/internal/bmi"
	"github.com/db47h/belt/vm"
)

// maximum number of stack entries dumped
const maxStackDump = 32

// dumpOrLog dumps m to w and logs a dump failure, for use in defer.
func dumpOrLog(logger *zap.Logger, w io.Writer, m *vm.Machine, labels map[string]uint16) {
	if err := dumpMachine(w, m, labels); err != nil {
		logger.Error("machine dump failed", zap.Error(err))
	}
}

// dumpMachine writes the machine registers, belt, top of the stack and the
// label table, if any, to w as text tables.
func dumpMachine(w io.Writer, m *vm.Machine, labels map[string]uint16) error {
	var tables []table.Writer

	regs := table.NewWriter()
	regs.SetTitle("Registers")
	regs.AppendHeader(table.Row{"PC", "SP", "Steps", "Next"})
	var next strings.Builder
	asm.Disassemble(m.Memory, int(m.PC), &next)
	regs.AppendRow(table.Row{bmi.Hex(m.PC), bmi.Hex(m.SP), m.InstructionCount(), next.String()})
	tables = append(tables, regs)

	belt := table.NewWriter()
	belt.SetTitle("Belt")
	belt.AppendHeader(table.Row{"Pos", "Hex", "Dec"})
	for i, v := range m.Belt.Values() {
		belt.AppendRow(table.Row{vm.BeltPos(i).String(), bmi.Hex(v), strconv.Itoa(int(v))})
	}
	tables = append(tables, belt)

	stack := table.NewWriter()
	stack.SetTitle("Stack")
	stack.AppendHeader(table.Row{"Address", "Hex", "Dec"})
	for a := int(m.SP) + 1; a <= vm.SPStart && a-int(m.SP) <= maxStackDump; a++ {
		v := m.Memory[a]
		stack.AppendRow(table.Row{bmi.Hex(uint16(a)), bmi.Hex(v), strconv.Itoa(int(v))})
	}
	tables = append(tables, stack)

	if len(labels) > 0 {
		syms := table.NewWriter()
		syms.SetTitle("Labels")
		syms.AppendHeader(table.Row{"Address", "Name"})
		for _, s := range asm.Symbols(labels) {
			addr, name, _ := strings.Cut(s, " ")
			syms.AppendRow(table.Row{addr, name})
		}
		tables = append(tables, syms)
	}

	ew := bmi.NewErrWriter(w)
	for _, t := range tables {
		io.WriteString(ew, t.Render())
		io.WriteString(ew, "\n")
	}
	return ew.Err
}
