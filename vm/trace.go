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

import "go.uber.org/zap"

// Tracer is notified after every Step with the PC the instruction was fetched
// from, the decoded instruction (nil if the word at pc did not decode) and the
// step result.
type Tracer interface {
	Step(pc uint16, ins Instruction, res Result)
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(pc uint16, ins Instruction, res Result)

// Step calls f.
func (f TracerFunc) Step(pc uint16, ins Instruction, res Result) { f(pc, ins, res) }

type logTracer struct {
	l *zap.Logger
}

// LogTracer returns a Tracer that logs every step at debug level.
func LogTracer(l *zap.Logger) Tracer {
	return logTracer{l}
}

func (t logTracer) Step(pc uint16, ins Instruction, res Result) {
	if ce := t.l.Check(zap.DebugLevel, "step"); ce != nil {
		asm := "<invalid>"
		if ins != nil {
			asm = ins.String()
		}
		ce.Write(
			zap.Uint16("pc", pc),
			zap.String("ins", asm),
			zap.Stringer("result", res),
		)
	}
}
