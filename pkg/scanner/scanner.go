// Package scanner implements the mini-Pascal tokenizer.
package scanner

import (
	"strconv"
	"strings"
)

// TokenType identifies the type of a scanner token.
type TokenType int

const (
	// Keywords
	TokProgram TokenType = iota
	TokBegin
	TokEnd
	TokRepeat
	TokUntil
	TokWhile
	TokDo
	TokIf
	TokThen
	TokElse
	TokWrite
	TokWriteln
	TokDiv
	TokMod
	TokAnd
	TokOr
	TokNot

	// Literals
	TokInteger
	TokReal
	TokString

	// Identifiers
	TokIdent

	// Punctuation and operators
	TokPlus          // +
	TokMinus         // -
	TokStar          // *
	TokSlash         // /
	TokColonEquals   // :=
	TokColon         // :
	TokSemicolon     // ;
	TokPeriod        // .
	TokEquals        // =
	TokLess          // <
	TokLessEquals    // <=
	TokGreater       // >
	TokGreaterEquals // >=
	TokNotEquals     // <>
	TokLParen        // (
	TokRParen        // )

	// Special
	TokEOF
	TokError
)

// Token represents a single scanner token. Line is 1-based. For literal
// tokens exactly one of IntVal, RealVal, or StrVal carries the decoded
// value; Text always holds the raw lexeme.
type Token struct {
	Type    TokenType
	Text    string
	Line    int
	IntVal  int64
	RealVal float64
	StrVal  string
}

// Keywords are case-insensitive; the map is keyed by the lowercased lexeme.
var keywords = map[string]TokenType{
	"program": TokProgram,
	"begin":   TokBegin,
	"end":     TokEnd,
	"repeat":  TokRepeat,
	"until":   TokUntil,
	"while":   TokWhile,
	"do":      TokDo,
	"if":      TokIf,
	"then":    TokThen,
	"else":    TokElse,
	"write":   TokWrite,
	"writeln": TokWriteln,
	"div":     TokDiv,
	"mod":     TokMod,
	"and":     TokAnd,
	"or":      TokOr,
	"not":     TokNot,
}

// Scanner produces tokens from source text one at a time. Once the input is
// exhausted it returns an EOF token from every subsequent NextToken call.
type Scanner struct {
	source   string
	filename string
	pos      int
	line     int
}

// New creates a Scanner over source. The filename is kept for callers that
// report diagnostics.
func New(source, filename string) *Scanner {
	return &Scanner{source: source, filename: filename, line: 1}
}

// Filename returns the name the scanner was created with.
func (s *Scanner) Filename() string { return s.filename }

func (s *Scanner) atEnd() bool {
	return s.pos >= len(s.source)
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.pos]
}

func (s *Scanner) peekAt(offset int) byte {
	p := s.pos + offset
	if p >= len(s.source) {
		return 0
	}
	return s.source[p]
}

func (s *Scanner) advance() byte {
	ch := s.source[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
	}
	return ch
}

func (s *Scanner) skipWhitespaceAndComments() {
	for !s.atEnd() {
		ch := s.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			s.advance()
		} else if ch == '{' {
			// Skip comment to the closing brace
			for !s.atEnd() && s.peek() != '}' {
				s.advance()
			}
			if !s.atEnd() {
				s.advance()
			}
		} else {
			break
		}
	}
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}

func (s *Scanner) scanString() Token {
	startLine := s.line
	startPos := s.pos
	s.advance() // consume opening '

	var buf strings.Builder
	for !s.atEnd() {
		ch := s.peek()
		if ch == '\'' {
			// A doubled quote is an escaped quote.
			if s.peekAt(1) == '\'' {
				s.advance()
				s.advance()
				buf.WriteByte('\'')
				continue
			}
			s.advance() // consume closing '
			return Token{
				Type:   TokString,
				Text:   s.source[startPos:s.pos],
				Line:   startLine,
				StrVal: buf.String(),
			}
		}
		if ch == '\n' {
			break
		}
		buf.WriteByte(s.advance())
	}
	return Token{
		Type: TokError,
		Text: s.source[startPos:s.pos],
		Line: startLine,
	}
}

func (s *Scanner) scanNumber() Token {
	startLine := s.line
	startPos := s.pos
	isReal := false

	for !s.atEnd() && isDigit(s.peek()) {
		s.advance()
	}

	// Fractional part: only when a digit follows the dot, so "3." leaves
	// the period for the parser (e.g. the program terminator).
	if !s.atEnd() && s.peek() == '.' && isDigit(s.peekAt(1)) {
		isReal = true
		s.advance() // consume '.'
		for !s.atEnd() && isDigit(s.peek()) {
			s.advance()
		}
	}

	// Optional exponent
	if !s.atEnd() && (s.peek() == 'e' || s.peek() == 'E') {
		next := s.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(s.peekAt(2))) {
			isReal = true
			s.advance() // consume e/E
			if s.peek() == '+' || s.peek() == '-' {
				s.advance()
			}
			for !s.atEnd() && isDigit(s.peek()) {
				s.advance()
			}
		}
	}

	text := s.source[startPos:s.pos]
	if isReal {
		val, _ := strconv.ParseFloat(text, 64)
		return Token{Type: TokReal, Text: text, Line: startLine, RealVal: val}
	}
	val, _ := strconv.ParseInt(text, 10, 64)
	return Token{Type: TokInteger, Text: text, Line: startLine, IntVal: val}
}

func (s *Scanner) scanIdentOrKeyword() Token {
	startLine := s.line
	startPos := s.pos

	for !s.atEnd() && isAlphaNumeric(s.peek()) {
		s.advance()
	}

	text := s.source[startPos:s.pos]
	if tokType, ok := keywords[strings.ToLower(text)]; ok {
		return Token{Type: tokType, Text: text, Line: startLine}
	}
	return Token{Type: TokIdent, Text: text, Line: startLine}
}

// NextToken returns the next token, advancing the scanner. It never fails:
// malformed input becomes a TokError token and end of input becomes TokEOF
// on this and every later call.
func (s *Scanner) NextToken() Token {
	s.skipWhitespaceAndComments()

	if s.atEnd() {
		return Token{Type: TokEOF, Text: "", Line: s.line}
	}

	ch := s.peek()
	startLine := s.line

	switch ch {
	case '+':
		s.advance()
		return Token{Type: TokPlus, Text: "+", Line: startLine}
	case '-':
		s.advance()
		return Token{Type: TokMinus, Text: "-", Line: startLine}
	case '*':
		s.advance()
		return Token{Type: TokStar, Text: "*", Line: startLine}
	case '/':
		s.advance()
		return Token{Type: TokSlash, Text: "/", Line: startLine}
	case ';':
		s.advance()
		return Token{Type: TokSemicolon, Text: ";", Line: startLine}
	case '.':
		s.advance()
		return Token{Type: TokPeriod, Text: ".", Line: startLine}
	case '=':
		s.advance()
		return Token{Type: TokEquals, Text: "=", Line: startLine}
	case '(':
		s.advance()
		return Token{Type: TokLParen, Text: "(", Line: startLine}
	case ')':
		s.advance()
		return Token{Type: TokRParen, Text: ")", Line: startLine}

	case ':':
		s.advance()
		if !s.atEnd() && s.peek() == '=' {
			s.advance()
			return Token{Type: TokColonEquals, Text: ":=", Line: startLine}
		}
		return Token{Type: TokColon, Text: ":", Line: startLine}

	case '<':
		s.advance()
		if !s.atEnd() && s.peek() == '=' {
			s.advance()
			return Token{Type: TokLessEquals, Text: "<=", Line: startLine}
		}
		if !s.atEnd() && s.peek() == '>' {
			s.advance()
			return Token{Type: TokNotEquals, Text: "<>", Line: startLine}
		}
		return Token{Type: TokLess, Text: "<", Line: startLine}

	case '>':
		s.advance()
		if !s.atEnd() && s.peek() == '=' {
			s.advance()
			return Token{Type: TokGreaterEquals, Text: ">=", Line: startLine}
		}
		return Token{Type: TokGreater, Text: ">", Line: startLine}
	}

	if isDigit(ch) {
		return s.scanNumber()
	}

	if ch == '\'' {
		return s.scanString()
	}

	if isAlpha(ch) {
		return s.scanIdentOrKeyword()
	}

	s.advance()
	return Token{Type: TokError, Text: string(ch), Line: startLine}
}
