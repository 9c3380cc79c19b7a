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

// Package asm provides utility functions to assemble and disassemble belt
// machine code.
//
// Source files hold one symbol per line: an instruction, a label definition or
// a directive. Blank lines are ignored. Mnemonics are case sensitive.
//
// Supported assembler mnemonics:
//
//	bN is a belt position, b0 being the most recent value. <c> is a 16 bits
//	constant or a label. <i> is a 4 bits immediate.
//
//	class		asm			description
//	-----		---			-----------------------------------------------
//	BeltConstant	and bN <c>		push bN & c
//			or bN <c>		push bN | c
//			xor bN <c>		push bN ^ c
//	Constant	lm <c>			push memory[c]
//			lc <c>			push c
//			call <c>		spill the belt on the stack then jump to c
//			jump <c>		jump to c
//	Immediate	sl bN <i>		push bN << i
//			sr bN <i>		push bN >> i
//			ret <i>			same as ret b0 <i>
//			ret bN <i>		restore the belt, keep i values, return
//	Register	add bN bM		push bN + bM
//			sub bN bM		push bN - bM
//			mul bN bM		push bN * bM
//			div bN bM		push bN / bM, fail if bM is zero
//			and bN bM		push bN & bM
//			or bN bM		push bN | bM
//			xor bN bM		push bN ^ bM
//			save bN bM		memory[bM] = bN
//			sl bN bM		push bN << bM
//			sr bN bM		push bN >> bM
//	Branch		blt bN bM <c>		jump to c if bN < bM
//			ble bN bM <c>		jump to c if bN <= bM
//			beq bN bM <c>		jump to c if bN == bM
//	Unary		load bN			push memory[bN]
//			jump bN			jump to bN
//			push bN			push bN on the stack
//	Zero		nop			no-op
//			pop			pop the stack and push the value on the belt
//			break			halt
//
// Mnemonics shared by several classes are told apart by their operands: "and
// b0 b1" is a Register instruction, "and b0 0xff" a BeltConstant one.
//
// Literals:
//
// Numbers are written in decimal, hexadecimal (0x1f, 0X1F), binary (0b101) or
// octal (0o17), optionally preceded by '+'. Underscores may separate digits:
// 0xff_ff. A number that does not fit its operand slot is an error.
//
// Comments:
//
// Line comments start with // and block comments are placed between /* and */.
//
// Labels:
//
// A label is defined on a line of its own by its name followed by a colon.
// Label names start with a letter and may contain letters, digits, '_' and
// '-'. Names of the form bN are reserved for belt positions. Labels can be
// used wherever a 16 bits constant is expected, before or after their
// definition:
//
//	loop:
//		add b0 b1
//		jump loop
//
// Assembler directives:
//
//	.balign <n>
//
// pads the output with nop instructions until the current address is a
// multiple of n words. n must be in the range 0 to 16. Values of 0 and 1 do
// nothing.
//
//	.word <value>
//
// places the given 16 bits value as is in the output. The disassembler uses it
// for words that are not valid instructions.
//
// Errors:
//
// Assembly goes on after an erroneous line in order to report as many errors
// as possible. Errors are returned as an ErrAsm, where each entry carries the
// source span of the offending tokens.
package asm
