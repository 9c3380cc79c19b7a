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

// Opcode is a (main opcode, sub-opcode) pair.
type Opcode struct {
	Class Class
	Sub   uint8
}

// mnemonics lists the assembler name of every sub-opcode, indexed by class
// then sub-opcode. Sub-opcodes past the end of a row are reserved.
var mnemonics = [...][]string{
	ClassBeltConstant: {"and", "or", "xor"},
	ClassConstant:     {"lm", "lc", "call", "jump"},
	ClassImmediate:    {"sl", "sr", "ret"},
	ClassRegister:     {"add", "sub", "mul", "div", "and", "or", "xor", "save", "sl", "sr"},
	ClassBranch:       {"blt", "ble", "beq"},
	ClassUnary:        {"load", "jump", "push"},
	ClassZero:         {"nop", "pop", "break"},
}

var opcodeIndex = make(map[string][]Opcode)

func init() {
	for c, row := range mnemonics {
		for sub, name := range row {
			opcodeIndex[name] = append(opcodeIndex[name], Opcode{Class(c), uint8(sub)})
		}
	}
}

// SubOps returns the number of valid sub-opcodes in class c.
func SubOps(c Class) int {
	if int(c) >= len(mnemonics) {
		return 0
	}
	return len(mnemonics[c])
}

// Mnemonic returns the assembler name of the given sub-opcode, or "" if it is
// reserved.
func Mnemonic(c Class, sub uint8) string {
	if int(sub) >= SubOps(c) {
		return ""
	}
	return mnemonics[c][sub]
}

// Lookup returns every opcode spelled name, in class order. A nil result
// means name is not a mnemonic.
func Lookup(name string) []Opcode {
	return opcodeIndex[name]
}
