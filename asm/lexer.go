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
	"io"
	"regexp"
	"strconv"
	"text/scanner"
	"unicode"
)

// TokenKind identifies the lexical class of a token.
type TokenKind int

// Token kinds.
const (
	TokEOF TokenKind = iota
	TokIllegal
	TokNumber
	TokText
	TokRegister
	TokDirective
	TokLabel
	TokNewLine
)

var tokNames = [...]string{
	TokEOF:       "end of input",
	TokIllegal:   "illegal token",
	TokNumber:    "number",
	TokText:      "identifier",
	TokRegister:  "belt position",
	TokDirective: "directive",
	TokLabel:     "label",
	TokNewLine:   "new line",
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokNames) {
		return tokNames[k]
	}
	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// Token is a lexical token. For labels, Text does not include the trailing
// colon. End is the offset of the first byte after the token.
type Token struct {
	Kind TokenKind
	Text string
	Pos  scanner.Position
	End  int
	Msg  string // reason for TokIllegal
}

var (
	reNumber    = regexp.MustCompile(`^[+-]?(0[xX][0-9a-fA-F_]+|0[bB][01_]+|0[oO][0-7_]+|[0-9][0-9_]*)$`)
	reRegister  = regexp.MustCompile(`^b(1[0-5]|[0-9])$`)
	reDirective = regexp.MustCompile(`^\.[a-zA-Z_-]+$`)
	reText      = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
)

// Words start with a letter, a digit, '.', '+' or '-' and continue with letters,
// digits, '_' or '-'. The scanner returns them all as identifiers, their
// final kind is decided by classify.
func isWordRune(ch rune, i int) bool {
	if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '-' {
		return true
	}
	if i == 0 {
		return ch == '.' || ch == '+'
	}
	return ch == '_'
}

// Lexer splits assembly source into tokens. Spaces, tabs and comments (// and
// /* */) are skipped. New lines are tokens. Input that matches no token form
// is returned as a TokIllegal token and lexing goes on.
type Lexer struct {
	s      scanner.Scanner
	errMsg string
	eof    bool
}

// NewLexer returns a lexer reading from r. name is used in token positions.
func NewLexer(name string, r io.Reader) *Lexer {
	l := new(Lexer)
	l.s.Init(r)
	l.s.Filename = name
	l.s.Mode = scanner.ScanIdents | scanner.ScanComments | scanner.SkipComments
	l.s.Whitespace = 1<<'\t' | 1<<' ' | 1<<'\r'
	l.s.IsIdentRune = isWordRune
	l.s.Error = func(s *scanner.Scanner, msg string) {
		if l.errMsg == "" {
			l.errMsg = msg
		}
	}
	return l
}

// Next returns the next token. Once the input is exhausted it keeps returning
// a TokEOF token.
func (l *Lexer) Next() Token {
	if l.eof {
		return Token{Kind: TokEOF, Pos: l.s.Pos(), End: l.s.Pos().Offset}
	}
	l.errMsg = ""
	tok := l.s.Scan()
	t := Token{Pos: l.s.Position, Text: l.s.TokenText()}
	if !t.Pos.IsValid() {
		t.Pos = l.s.Pos()
	}

	switch tok {
	case scanner.EOF:
		l.eof = true
		t.Kind, t.Text = TokEOF, ""
		if l.errMsg != "" {
			// unterminated comment
			t.Kind, t.Msg = TokIllegal, l.errMsg
		}
	case '\n':
		t.Kind = TokNewLine
	case scanner.Ident:
		if l.s.Peek() == ':' {
			l.s.Next()
			if reText.MatchString(t.Text) && !reRegister.MatchString(t.Text) {
				t.Kind = TokLabel
				break
			}
			t.Kind, t.Msg = TokIllegal, "invalid label name "+strconv.Quote(t.Text)
			t.Text += ":"
			break
		}
		t.Kind, t.Msg = classify(t.Text)
	default:
		t.Kind, t.Msg = TokIllegal, "unexpected character "+strconv.QuoteRune(tok)
	}
	if l.errMsg != "" && t.Kind != TokIllegal {
		t.Kind, t.Msg = TokIllegal, l.errMsg
	}
	t.End = l.s.Pos().Offset
	return t
}

func classify(s string) (TokenKind, string) {
	switch {
	case reNumber.MatchString(s):
		return TokNumber, ""
	case reRegister.MatchString(s):
		return TokRegister, ""
	case reDirective.MatchString(s):
		return TokDirective, ""
	case reText.MatchString(s):
		return TokText, ""
	case s != "" && unicode.IsDigit(rune(s[0])):
		return TokIllegal, "malformed number " + strconv.Quote(s)
	}
	return TokIllegal, "unexpected " + strconv.Quote(s)
}

// Lex returns all tokens in src, up to but excluding TokEOF.
func Lex(name string, r io.Reader) []Token {
	var toks []Token
	l := NewLexer(name, r)
	for t := l.Next(); t.Kind != TokEOF; t = l.Next() {
		toks = append(toks, t)
	}
	return toks
}
