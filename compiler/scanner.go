package compiler

// ---------------------------------------------------------------------------
// Scanner: single-pass tokenizer for Ember source
// ---------------------------------------------------------------------------

// Scanner produces tokens from Ember source code, one per ScanToken call.
//
// A Scanner borrows its source string and holds only cursor state, so callers
// construct one per lexing session; independent scanners are safe to use from
// separate goroutines, a single scanner is not.
type Scanner struct {
	source  string
	start   int // start of the lexeme being scanned
	current int // next unread position
	line    int // current line (1-based)
}

// NewScanner creates a scanner positioned at the start of source.
func NewScanner(source string) *Scanner {
	return &Scanner{
		source: source,
		line:   1,
	}
}

// Line returns the scanner's current line number.
func (s *Scanner) Line() int {
	return s.line
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		c == '_'
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) advance() byte {
	s.current++
	return s.source[s.current-1]
}

// peek returns the current character, or 0 at end of input.
func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.current]
}

// peekNext returns the character after the current one, or 0 past the end.
func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

// match consumes the current character only if it equals expected.
func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() {
		return false
	}
	if s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) makeToken(typ TokenType) Token {
	return Token{
		Type:   typ,
		Lexeme: s.source[s.start:s.current],
		Line:   s.line,
	}
}

func (s *Scanner) errorToken(message string) Token {
	return Token{
		Type:    TokenError,
		Line:    s.line,
		Message: message,
	}
}

// ScanToken scans and returns the next token. Once the end of input is
// reached it returns an EOF token on every subsequent call.
func (s *Scanner) ScanToken() Token {
	s.skipWhitespace()
	s.start = s.current

	if s.isAtEnd() {
		return s.makeToken(TokenEOF)
	}

	c := s.advance()
	if isAlpha(c) {
		return s.identifier()
	}
	if isDigit(c) {
		return s.number()
	}

	switch c {
	case '(':
		return s.makeToken(TokenLParen)
	case ')':
		return s.makeToken(TokenRParen)
	case '{':
		return s.makeToken(TokenLBrace)
	case '}':
		return s.makeToken(TokenRBrace)
	case ';':
		return s.makeToken(TokenSemicolon)
	case ',':
		return s.makeToken(TokenComma)
	case '.':
		return s.makeToken(TokenDot)
	case '-':
		return s.makeToken(TokenMinus)
	case '+':
		return s.makeToken(TokenPlus)
	case '/':
		return s.makeToken(TokenSlash)
	case '*':
		return s.makeToken(TokenStar)
	case '!':
		if s.match('=') {
			return s.makeToken(TokenBangEqual)
		}
		return s.makeToken(TokenBang)
	case '=':
		if s.match('=') {
			return s.makeToken(TokenEqualEqual)
		}
		return s.makeToken(TokenEqual)
	case '<':
		if s.match('=') {
			return s.makeToken(TokenLessEqual)
		}
		return s.makeToken(TokenLess)
	case '>':
		if s.match('=') {
			return s.makeToken(TokenGreaterEqual)
		}
		return s.makeToken(TokenGreater)
	case '"':
		return s.scanString()
	}

	return s.errorToken("Unexpected character.")
}

// skipWhitespace consumes spaces, tabs, carriage returns, newlines and line
// comments. Newlines bump the line counter.
func (s *Scanner) skipWhitespace() {
	for {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.advance()
		case '\n':
			s.line++
			s.advance()
		case '/':
			if s.peekNext() == '/' {
				// Comment runs to the end of the line; the newline itself
				// is left for the next iteration.
				for s.peek() != '\n' && !s.isAtEnd() {
					s.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) identifier() Token {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.advance()
	}
	return s.makeToken(s.identifierType())
}

// identifierType resolves the scanned run against the keyword table. The
// first byte (and for 'f'/'t' the second) selects a single candidate, then
// one exact length+content check decides; anything else is an identifier.
// Strict prefixes and supersets of keywords never match ("forest" is not
// "for").
func (s *Scanner) identifierType() TokenType {
	switch s.source[s.start] {
	case 'a':
		return s.checkKeyword(1, "nd", TokenAnd)
	case 'c':
		return s.checkKeyword(1, "lass", TokenClass)
	case 'e':
		return s.checkKeyword(1, "lse", TokenElse)
	case 'f':
		if s.current-s.start > 1 {
			switch s.source[s.start+1] {
			case 'a':
				return s.checkKeyword(2, "lse", TokenFalse)
			case 'o':
				return s.checkKeyword(2, "r", TokenFor)
			case 'u':
				return s.checkKeyword(2, "n", TokenFun)
			}
		}
	case 'i':
		return s.checkKeyword(1, "f", TokenIf)
	case 'n':
		return s.checkKeyword(1, "il", TokenNil)
	case 'o':
		return s.checkKeyword(1, "r", TokenOr)
	case 'p':
		return s.checkKeyword(1, "rint", TokenPrint)
	case 'r':
		return s.checkKeyword(1, "eturn", TokenReturn)
	case 's':
		return s.checkKeyword(1, "uper", TokenSuper)
	case 't':
		if s.current-s.start > 1 {
			switch s.source[s.start+1] {
			case 'h':
				return s.checkKeyword(2, "is", TokenThis)
			case 'r':
				return s.checkKeyword(2, "ue", TokenTrue)
			}
		}
	case 'v':
		return s.checkKeyword(1, "ar", TokenVar)
	case 'w':
		return s.checkKeyword(1, "hile", TokenWhile)
	}
	return TokenIdentifier
}

// checkKeyword compares the lexeme's suffix starting at offset against rest.
func (s *Scanner) checkKeyword(offset int, rest string, typ TokenType) TokenType {
	if s.current-s.start == offset+len(rest) &&
		s.source[s.start+offset:s.current] == rest {
		return typ
	}
	return TokenIdentifier
}

func (s *Scanner) number() Token {
	for isDigit(s.peek()) {
		s.advance()
	}

	// Fractional part. A trailing '.' with no digit after it is not part of
	// the number; the next scan classifies it as punctuation.
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	return s.makeToken(TokenNumber)
}

func (s *Scanner) scanString() Token {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}

	if s.isAtEnd() {
		return s.errorToken("Unterminated string.")
	}

	// Closing quote; the lexeme includes both quote characters.
	s.advance()
	return s.makeToken(TokenString)
}
