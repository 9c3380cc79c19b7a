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
	"strconv"
	"strings"
	"text/scanner"
)

// MaxErrors is the maximum number of diagnostics reported in an ErrAsm. When
// more are found, a final entry without position gives the count of the
// dropped ones.
const MaxErrors = 10

// Error is a diagnostic attached to a source span. Pos is the start of the
// span and End the offset of the first byte past it.
type Error struct {
	Pos scanner.Position
	End int
	Msg string
}

func (e *Error) Error() string {
	if !e.Pos.IsValid() {
		return e.Msg
	}
	return e.Pos.String() + ": " + e.Msg
}

// ErrAsm collects the errors found while assembling a source file.
type ErrAsm []*Error

func (e ErrAsm) Error() string {
	var b strings.Builder
	for i, err := range e {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

// errList accumulates diagnostics up to MaxErrors.
type errList struct {
	errs ErrAsm
	more int
}

func (l *errList) add(pos scanner.Position, end int, msg string) {
	if len(l.errs) >= MaxErrors {
		l.more++
		return
	}
	l.errs = append(l.errs, &Error{Pos: pos, End: end, Msg: msg})
}

func (l *errList) addTok(t Token, msg string) {
	l.add(t.Pos, t.End, msg)
}

func (l *errList) err() error {
	if len(l.errs) == 0 {
		return nil
	}
	if l.more > 0 {
		msg := strconv.Itoa(l.more) + " more errors"
		if l.more == 1 {
			msg = "1 more error"
		}
		return append(l.errs, &Error{Msg: msg})
	}
	return l.errs
}
