// Copyright 2025 The IRMatch Authors
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

package irtext

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// token is the set of lexical tokens of the graph text format.
type token int

const (
	tokIllegal token = iota
	tokEOF

	tokIdent // mul, aten::add, graph
	tokValue // %x, %0

	tokLParen // (
	tokRParen // )
	tokLBrace // {
	tokRBrace // }
	tokComma  // ,
	tokAssign // =
	tokColon  // :
)

var tokenStrings = [...]string{
	tokIllegal: "ILLEGAL",
	tokEOF:     "EOF",
	tokIdent:   "identifier",
	tokValue:   "value",
	tokLParen:  "(",
	tokRParen:  ")",
	tokLBrace:  "{",
	tokRBrace:  "}",
	tokComma:   ",",
	tokAssign:  "=",
	tokColon:   ":",
}

func (t token) String() string {
	if int(t) < len(tokenStrings) {
		return tokenStrings[t]
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// A scanner tokenizes graph text. It reports errors to errs and continues.
type scanner struct {
	filename string
	src      []byte
	errs     *ErrorList

	ch         rune // current character; -1 at EOF
	offset     int  // offset of ch
	rdOffset   int  // offset after ch
	line       int
	lineOffset int // offset of the first character of the current line
}

const bom = 0xFEFF

func (s *scanner) init(filename string, src []byte, errs *ErrorList) {
	s.filename = filename
	s.src = src
	s.errs = errs
	s.ch = ' '
	s.offset = 0
	s.rdOffset = 0
	s.line = 1
	s.lineOffset = 0
	s.next()
	if s.ch == bom {
		s.next()
	}
}

// next reads the next Unicode character into s.ch.
func (s *scanner) next() {
	if s.rdOffset >= len(s.src) {
		s.offset = len(s.src)
		if s.ch == '\n' {
			s.line++
			s.lineOffset = s.offset
		}
		s.ch = -1
		return
	}
	s.offset = s.rdOffset
	if s.ch == '\n' {
		s.line++
		s.lineOffset = s.offset
	}
	r, w := rune(s.src[s.rdOffset]), 1
	switch {
	case r == 0:
		s.error(s.offset, "illegal character NUL")
	case r >= utf8.RuneSelf:
		r, w = utf8.DecodeRune(s.src[s.rdOffset:])
		if r == utf8.RuneError && w == 1 {
			s.error(s.offset, "illegal UTF-8 encoding")
		}
	}
	s.rdOffset += w
	s.ch = r
}

func (s *scanner) pos(offset int) Position {
	return Position{
		Filename: s.filename,
		Offset:   offset,
		Line:     s.line,
		Column:   offset - s.lineOffset + 1,
	}
}

func (s *scanner) error(offset int, msg string) {
	s.errs.Add(s.pos(offset), msg)
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' ||
		ch >= utf8.RuneSelf && unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9' || ch >= utf8.RuneSelf && unicode.IsDigit(ch)
}

// isNameChar reports whether ch may continue an identifier. Kinds are often
// qualified, as in aten::mul or arith.addf.
func isNameChar(ch rune) bool {
	return isLetter(ch) || isDigit(ch) || ch == ':' || ch == '.'
}

func (s *scanner) skipSpaceAndComments() {
	for {
		switch s.ch {
		case ' ', '\t', '\n', '\r':
			s.next()
		case '#':
			for s.ch != '\n' && s.ch >= 0 {
				s.next()
			}
		default:
			return
		}
	}
}

// scan returns the next token, its position, and its literal text for
// identifiers and values. The literal of a value excludes the leading %.
func (s *scanner) scan() (tok token, pos Position, lit string) {
	s.skipSpaceAndComments()

	pos = s.pos(s.offset)
	switch ch := s.ch; {
	case ch < 0:
		return tokEOF, pos, ""
	case isLetter(ch):
		start := s.offset
		for isNameChar(s.ch) {
			s.next()
		}
		return tokIdent, pos, string(s.src[start:s.offset])
	case ch == '%':
		s.next()
		start := s.offset
		for isLetter(s.ch) || isDigit(s.ch) || s.ch == '.' {
			s.next()
		}
		if start == s.offset {
			s.error(pos.Offset, "expected value name after %")
			return tokIllegal, pos, ""
		}
		return tokValue, pos, string(s.src[start:s.offset])
	}

	ch := s.ch
	s.next()
	switch ch {
	case '(':
		return tokLParen, pos, ""
	case ')':
		return tokRParen, pos, ""
	case '{':
		return tokLBrace, pos, ""
	case '}':
		return tokRBrace, pos, ""
	case ',':
		return tokComma, pos, ""
	case '=':
		return tokAssign, pos, ""
	case ':':
		return tokColon, pos, ""
	}
	s.error(pos.Offset, fmt.Sprintf("illegal character %#U", ch))
	return tokIllegal, pos, ""
}
