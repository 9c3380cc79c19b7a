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
	"context"

	"github.com/pkg/errors"
)

// Errors returned by Run.
var (
	ErrFault     = errors.New("machine fault")
	ErrStepLimit = errors.New("step limit reached")
)

// Run steps the machine until it stops, faults, ctx is done or limit steps
// have been executed. A limit <= 0 means no limit.
//
// On a normal stop the returned error is nil. A fault returns an error whose
// cause is ErrFault, with PC pointing at the faulting instruction.
func (m *Machine) Run(ctx context.Context, limit int64) (Result, error) {
	for n := int64(0); limit <= 0 || n < limit; n++ {
		if err := ctx.Err(); err != nil {
			return Result{}, errors.Wrapf(err, "interrupted @pc=%d", m.PC)
		}
		r := m.Step()
		switch r.Status {
		case Stop:
			return r, nil
		case Fail:
			return r, errors.Wrapf(ErrFault, "@pc=%d (%s)", m.PC, m.disasm(m.PC))
		}
	}
	return Result{Status: Continue}, errors.Wrapf(ErrStepLimit, "%d steps @pc=%d", limit, m.PC)
}

func (m *Machine) disasm(pc uint16) string {
	if ins, _, ok := Decode(m.Memory[pc], m.Memory[pc+1]); ok {
		return ins.String()
	}
	return "invalid"
}
