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
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/db47h/belt/asm"
	"github.com/db47h/belt/internal/bmi"
	"github.com/db47h/belt/vm"
)

// number of belt slots shown in step mode
const stepBeltView = 8

// stepMachine executes m one instruction at a time, printing the next
// instruction and waiting for a key press on in before each step. 'q' quits
// and 'c' runs the rest of the program without stopping, as does the end of
// input. Any other key executes one instruction.
func stepMachine(ctx context.Context, m *vm.Machine, in io.Reader, out io.Writer, limit int64) (vm.Result, error) {
	br := bufio.NewReader(in)
	ew := bmi.NewErrWriter(out)
	for n := int64(0); limit <= 0 || n < limit; n++ {
		if err := ctx.Err(); err != nil {
			return vm.Result{}, errors.Wrapf(err, "interrupted @pc=%d", m.PC)
		}
		io.WriteString(ew, bmi.Hex(m.PC)+"\t")
		asm.Disassemble(m.Memory, int(m.PC), ew)
		fmt.Fprintf(ew, "\t%v\n", m.Belt.Values()[:stepBeltView])
		if ew.Err != nil {
			return vm.Result{}, ew.Err
		}

		key, err := readKey(br)
		if err != nil && err != io.EOF {
			return vm.Result{}, errors.Wrap(err, "read failed")
		}
		switch {
		case key == 'q':
			return vm.Result{Status: vm.Continue}, nil
		case key == 'c' || err == io.EOF:
			if limit > 0 {
				return m.Run(ctx, limit-n)
			}
			return m.Run(ctx, 0)
		}

		r := m.Step()
		switch r.Status {
		case vm.Stop:
			return r, nil
		case vm.Fail:
			return r, errors.Wrapf(vm.ErrFault, "@pc=%d", m.PC)
		}
	}
	return vm.Result{Status: vm.Continue}, errors.Wrapf(vm.ErrStepLimit, "%d steps @pc=%d", limit, m.PC)
}

// readKey returns the next key press, skipping carriage returns.
func readKey(r *bufio.Reader) (byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil || b != '\r' {
			return b, err
		}
	}
}
