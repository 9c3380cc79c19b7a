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

// Package vm implements a 16 bits belt machine and its instruction set.
//
// The machine has no general purpose registers. Results are pushed on the
// belt, a 16 slots rotating buffer where the oldest value falls off whenever a
// new one is pushed. Operands name belt slots by age: b0 is the last result,
// b1 the one before and so on up to b15.
//
// Memory is 64K words of 16 bits. The stack pointer starts at 0xFFFF and the
// stack grows down: push stores at SP then decrements it.
//
// Instruction format:
//
//	[class:4][sub:4][operand1:4][operand2:4] (+ [constant:16])
//
//	class	name		operands		words	sub-opcodes
//	-----	----		--------		-----	-----------
//	1	BeltConstant	bN, constant		2	and or xor
//	2	Constant	constant		2	lm lc call jump
//	3	Immediate	bN, imm4		1	sl sr ret
//	4	Register	bN, bN			1	add sub mul div and or xor save sl sr
//	5	Branch		bN, bN, address		2	blt ble beq
//	6	Unary		bN			1	load jump push
//	7	Zero		-			1	nop pop break
//
// Unused operand nibbles must be zero. Any other word, including 0x0000, is
// not an instruction and stops the machine when executed.
//
// Semantics (x = value at operand1, y = value at operand2, k = constant):
//
//	and/or/xor bN k		push x op k
//	lm k			push memory[k]
//	lc k			push k
//	call k			push b0..b15 on the stack (b0 first), jump to k
//	jump k			jump to k
//	sl/sr bN n		push x << n, x >> n
//	ret bN n		pop 16 words back into the belt, push the n most recent
//				values of the callee belt on top, pop the return address
//				and jump to it
//	add/sub/mul bN bN	push x op y, wrapping
//	div bN bN		push x / y, fail if y is 0
//	and/or/xor bN bN	push x op y
//	save bN bN		memory[y] = x
//	sl/sr bN bN		push x << y, x >> y
//	blt/ble/beq bN bN k	jump to k if x < y, x <= y, x == y
//	load bN			push memory[x]
//	jump bN			jump to x
//	push bN			push x on the stack
//	nop			do nothing
//	pop			pop the stack onto the belt
//	break			stop
//
// call does not save a return address: callers push it on the stack before
// the call, so that ret finds it right after the saved belt.
//
// Execution is driven by the caller, one Step at a time. Run is a convenience
// loop for non-interactive use.
package vm
