package contentstream

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// TokenKind identifies the kind of a content stream token
type TokenKind int

const (
	TokenNumber TokenKind = iota
	TokenName
	TokenString
	TokenHexString
	TokenOperator
	TokenArrayStart
	TokenArrayEnd
)

// String returns the name of the token kind
func (k TokenKind) String() string {
	switch k {
	case TokenNumber:
		return "Number"
	case TokenName:
		return "Name"
	case TokenString:
		return "String"
	case TokenHexString:
		return "HexString"
	case TokenOperator:
		return "Operator"
	case TokenArrayStart:
		return "ArrayStart"
	case TokenArrayEnd:
		return "ArrayEnd"
	default:
		return "Unknown"
	}
}

// Token is one lexical element of a content stream. Num is set for
// numbers; Text holds the name, operator, or string bytes (hex strings are
// already decoded to bytes).
type Token struct {
	Kind TokenKind
	Num  float64
	Text []byte
	Pos  int
}

// Lexer splits a content stream into tokens
type Lexer struct {
	data []byte
	pos  int
}

// NewLexer creates a lexer over decoded content stream data
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// Next returns the next token, or io.EOF at the end of the stream
func (l *Lexer) Next() (Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.data) {
			return Token{}, io.EOF
		}

		start := l.pos
		c := l.data[l.pos]

		switch {
		case c == '%':
			l.skipComment()
			continue
		case c == '(':
			s, err := l.readLiteral()
			if err != nil {
				return Token{}, err
			}
			return Token{Kind: TokenString, Text: s, Pos: start}, nil
		case c == '<' && l.peekByte(1) == '<':
			if err := l.skipDict(); err != nil {
				return Token{}, err
			}
			continue
		case c == '<':
			s, err := l.readHex()
			if err != nil {
				return Token{}, err
			}
			return Token{Kind: TokenHexString, Text: s, Pos: start}, nil
		case c == '[':
			l.pos++
			return Token{Kind: TokenArrayStart, Pos: start}, nil
		case c == ']':
			l.pos++
			return Token{Kind: TokenArrayEnd, Pos: start}, nil
		case c == '/':
			l.pos++
			return Token{Kind: TokenName, Text: l.readRegular(), Pos: start}, nil
		case isNumberStart(c):
			return l.readNumber()
		case isDelimiter(c):
			return Token{}, fmt.Errorf("unexpected %q at offset %d", c, start)
		}

		op := l.readRegular()
		if string(op) == "ID" {
			l.skipInlineImage()
		}
		return Token{Kind: TokenOperator, Text: op, Pos: start}, nil
	}
}

func (l *Lexer) peekByte(n int) byte {
	if l.pos+n < len(l.data) {
		return l.data[l.pos+n]
	}
	return 0
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.data) && isWhitespace(l.data[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) skipComment() {
	for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
		l.pos++
	}
}

// readRegular reads a run of regular characters: an operator or name body
func (l *Lexer) readRegular() []byte {
	start := l.pos
	for l.pos < len(l.data) && !isWhitespace(l.data[l.pos]) && !isDelimiter(l.data[l.pos]) {
		l.pos++
	}
	return l.data[start:l.pos]
}

func (l *Lexer) readNumber() (Token, error) {
	start := l.pos
	l.pos++
	for l.pos < len(l.data) && (isDigit(l.data[l.pos]) || l.data[l.pos] == '.') {
		l.pos++
	}
	text := l.data[start:l.pos]
	v, err := strconv.ParseFloat(string(text), 64)
	if err != nil {
		return Token{}, fmt.Errorf("invalid number %q at offset %d", text, start)
	}
	return Token{Kind: TokenNumber, Num: v, Text: text, Pos: start}, nil
}

// readLiteral reads a parenthesized string with escapes and nesting
func (l *Lexer) readLiteral() ([]byte, error) {
	start := l.pos
	l.pos++

	var buf bytes.Buffer
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++

		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return buf.Bytes(), nil
			}
		case '\\':
			if l.pos >= len(l.data) {
				continue
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'b':
				buf.WriteByte('\b')
			case 'f':
				buf.WriteByte('\f')
			case '\r':
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
			case '0', '1', '2', '3', '4', '5', '6', '7':
				v := int(e - '0')
				for i := 0; i < 2 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; i++ {
					v = v*8 + int(l.data[l.pos]-'0')
					l.pos++
				}
				buf.WriteByte(byte(v))
			default:
				buf.WriteByte(e)
			}
			continue
		}
		buf.WriteByte(c)
	}
	return nil, fmt.Errorf("unterminated string at offset %d", start)
}

// readHex reads <...> and returns the decoded bytes
func (l *Lexer) readHex() ([]byte, error) {
	start := l.pos
	l.pos++

	var out []byte
	var hi byte
	half := false
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		if c == '>' {
			if half {
				out = append(out, hi<<4)
			}
			return out, nil
		}
		if isWhitespace(c) {
			continue
		}
		v, ok := hexValue(c)
		if !ok {
			return nil, fmt.Errorf("invalid hex digit %q at offset %d", c, l.pos-1)
		}
		if half {
			out = append(out, hi<<4|v)
		} else {
			hi = v
		}
		half = !half
	}
	return nil, fmt.Errorf("unterminated hex string at offset %d", start)
}

// skipDict consumes a << >> dictionary, including nested ones and any
// strings inside it
func (l *Lexer) skipDict() error {
	start := l.pos
	depth := 0
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case c == '<' && l.peekByte(1) == '<':
			depth++
			l.pos += 2
		case c == '>' && l.peekByte(1) == '>':
			depth--
			l.pos += 2
			if depth == 0 {
				return nil
			}
		case c == '(':
			if _, err := l.readLiteral(); err != nil {
				return err
			}
		case c == '<':
			if _, err := l.readHex(); err != nil {
				return err
			}
		default:
			l.pos++
		}
	}
	return fmt.Errorf("unterminated dictionary at offset %d", start)
}

// skipInlineImage moves past binary image data up to the EI operator
func (l *Lexer) skipInlineImage() {
	if l.pos < len(l.data) {
		l.pos++ // single whitespace after ID
	}
	for i := l.pos; i+2 <= len(l.data); i++ {
		if l.data[i] == 'E' && l.data[i+1] == 'I' &&
			(i == 0 || isWhitespace(l.data[i-1])) &&
			(i+2 == len(l.data) || isWhitespace(l.data[i+2]) || isDelimiter(l.data[i+2])) {
			l.pos = i + 2
			return
		}
	}
	l.pos = len(l.data)
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == '<' || c == '>' ||
		c == '[' || c == ']' || c == '{' || c == '}' ||
		c == '/' || c == '%'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNumberStart(c byte) bool {
	return isDigit(c) || c == '-' || c == '+' || c == '.'
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
