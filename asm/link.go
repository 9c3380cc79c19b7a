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

package asm

import (
	"sort"
	"strconv"
	"text/scanner"

	"github.com/db47h/belt/internal/bmi"
	"github.com/db47h/belt/vm"
)

var nop, _ = vm.Encode(vm.Zero{Op: vm.ZeroNop})

type labelSite struct {
	pos     scanner.Position
	address int
}

// Link lays out the symbols of prog from address 0, resolves label references
// and encodes the result. It returns the memory image and the address of every
// label.
//
// Alignment directives with a value of 2 or more pad the image with nop words
// up to the next multiple of that many words.
//
// The returned error, if not nil, is an ErrAsm listing every duplicate or
// undefined label. No image is returned in that case.
func Link(prog *Program) (img []uint16, labels map[string]uint16, err error) {
	var errs errList
	sites := make(map[string]labelSite)

	// pass 1: addresses
	pc := 0
	for _, sym := range prog.Symbols {
		switch s := sym.(type) {
		case *Inst:
			pc += vm.Size(s.Instruction)
		case *Label:
			if l, ok := sites[s.Name]; ok {
				errs.add(s.Pos, s.End, "label redefinition: "+s.Name+", previous definition here: "+l.pos.String())
				continue
			}
			sites[s.Name] = labelSite{s.Pos, pc}
		case *Align:
			pc += pad(pc, s.N)
		case *Word:
			pc++
		}
	}
	if pc > vm.MemSize {
		errs.add(scanner.Position{}, 0, "program too large: "+strconv.Itoa(pc)+" words, maximum is "+strconv.Itoa(vm.MemSize))
		return nil, nil, errs.err()
	}

	// pass 2: resolve and encode
	resolve := func(s *Inst, c vm.ConstantOrLabel) vm.ConstantOrLabel {
		if !c.IsLabel() {
			return c
		}
		l, ok := sites[c.Label]
		if !ok {
			errs.add(s.Pos, s.End, "undefined label "+c.Label)
			return vm.Const(0)
		}
		return vm.Const(uint16(l.address))
	}
	img = make([]uint16, 0, pc)
	for _, sym := range prog.Symbols {
		switch s := sym.(type) {
		case *Inst:
			ins := s.Instruction
			switch i := ins.(type) {
			case vm.BeltConstant:
				i.Constant = resolve(s, i.Constant)
				ins = i
			case vm.Constant:
				i.Constant = resolve(s, i.Constant)
				ins = i
			case vm.Branch:
				i.Addr = resolve(s, i.Addr)
				ins = i
			}
			if img, err = vm.AppendEncode(img, ins); err != nil {
				errs.add(s.Pos, s.End, err.Error())
			}
		case *Align:
			for n := pad(len(img), s.N); n > 0; n-- {
				img = append(img, nop...)
			}
		case *Word:
			img = append(img, s.Value)
		}
	}
	if err = errs.err(); err != nil {
		return nil, nil, err
	}

	labels = make(map[string]uint16, len(sites))
	for name, l := range sites {
		labels[name] = uint16(l.address)
	}
	return img, labels, nil
}

// pad returns the number of words needed to align pc on a multiple of n.
func pad(pc int, n uint) int {
	if n < 2 {
		return 0
	}
	return (int(n) - pc%int(n)) % int(n)
}

// Symbols formats a label table as "address name" lines sorted by address.
func Symbols(labels map[string]uint16) []string {
	lines := make([]string, 0, len(labels))
	for name, addr := range labels {
		lines = append(lines, bmi.Hex(addr)+" "+name)
	}
	sort.Strings(lines)
	return lines
}
