package core

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// ReferenceResolver is an interface for resolving indirect references.
// The parser uses it for indirect stream /Length values.
type ReferenceResolver interface {
	ResolveReference(ref IndirectRef) (Object, error)
}

// Parser parses PDF objects from an in-memory buffer using a Lexer for
// tokenization, with one token of lookahead.
type Parser struct {
	data     []byte
	lexer    *Lexer
	current  Token
	peek     Token
	err      error // first lexer error; surfaces when the bad token is reached
	resolver ReferenceResolver
}

// NewParser creates a parser positioned at the start of data
func NewParser(data []byte) *Parser {
	return NewParserAt(data, 0)
}

// NewParserAt creates a parser positioned at offset
func NewParserAt(data []byte, offset int64) *Parser {
	p := &Parser{data: data, lexer: NewLexer(data)}
	p.reset(offset)
	return p
}

// SetReferenceResolver sets the resolver used for indirect stream lengths
func (p *Parser) SetReferenceResolver(resolver ReferenceResolver) {
	p.resolver = resolver
}

// reset repositions the lexer and reloads both tokens
func (p *Parser) reset(offset int64) {
	p.lexer.Seek(offset)
	p.err = nil
	p.peek = Token{}
	p.nextToken()
	p.nextToken()
}

// nextToken shifts the lookahead. After a "stream" keyword the following
// bytes are binary, so no lookahead is read; parseStream repositions.
func (p *Parser) nextToken() {
	p.current = p.peek
	if p.current.Type == TokenKeyword && string(p.current.Value) == "stream" {
		p.peek = Token{Type: TokenEOF, Pos: p.current.Pos + 6}
		return
	}
	if p.err != nil {
		p.peek = Token{Type: TokenEOF, Pos: p.lexer.Pos()}
		return
	}
	tok, err := p.lexer.NextToken()
	if err != nil {
		p.err = err
		tok = Token{Type: TokenEOF, Pos: p.lexer.Pos()}
	}
	p.peek = tok
}

// skipComments skips over any consecutive comment tokens
func (p *Parser) skipComments() {
	for p.current.Type == TokenComment {
		p.nextToken()
	}
}

// atEOF reports end of input, returning the pending lexer error if that is
// what ended it
func (p *Parser) atEOF() (bool, error) {
	if p.current.Type != TokenEOF {
		return false, nil
	}
	if p.err != nil {
		return true, p.err
	}
	return true, nil
}

// ParseObject parses and returns the next PDF object from the input.
// It returns io.EOF when the input is exhausted.
func (p *Parser) ParseObject() (Object, error) {
	p.skipComments()

	if eof, err := p.atEOF(); eof {
		if err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	tok := p.current
	switch tok.Type {
	case TokenKeyword:
		keyword := string(tok.Value)
		switch keyword {
		case "null":
			p.nextToken()
			return Null{}, nil
		case "true":
			p.nextToken()
			return Bool(true), nil
		case "false":
			p.nextToken()
			return Bool(false), nil
		default:
			return nil, fmt.Errorf("unexpected keyword %q at position %d", keyword, tok.Pos)
		}

	case TokenInteger:
		return p.parseNumber()

	case TokenReal:
		val, err := strconv.ParseFloat(string(tok.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real number %q: %w", tok.Value, err)
		}
		p.nextToken()
		return Real(val), nil

	case TokenString:
		p.nextToken()
		return String(tok.Value), nil

	case TokenHexString:
		p.nextToken()
		return String(decodeHex(tok.Value)), nil

	case TokenName:
		p.nextToken()
		return Name(tok.Value), nil

	case TokenArrayStart:
		return p.parseArray()

	case TokenDictStart:
		return p.parseDict()

	default:
		return nil, fmt.Errorf("unexpected token %q at position %d", tok.Value, tok.Pos)
	}
}

// decodeHex converts validated hex digits to bytes, padding an odd final digit with 0
func decodeHex(digits []byte) []byte {
	out := make([]byte, 0, (len(digits)+1)/2)
	for i := 0; i < len(digits); i += 2 {
		hi := hexValue(digits[i])
		var lo byte
		if i+1 < len(digits) {
			lo = hexValue(digits[i+1])
		}
		out = append(out, hi<<4|lo)
	}
	return out
}

// parseNumber parses an integer, real number, or indirect reference.
// Indirect references are detected by lookahead: "num gen R".
func (p *Parser) parseNumber() (Object, error) {
	first, err := strconv.ParseInt(string(p.current.Value), 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(string(p.current.Value), 64)
		if ferr != nil {
			return nil, fmt.Errorf("invalid number %q at position %d", p.current.Value, p.current.Pos)
		}
		p.nextToken()
		return Real(f), nil
	}

	if p.peek.Type != TokenInteger {
		p.nextToken()
		return Int(first), nil
	}

	// Two integers in a row: only an R after the second makes a reference.
	// Save the lexer state so the second integer can be re-read otherwise.
	second, err := strconv.ParseInt(string(p.peek.Value), 10, 64)
	if err != nil {
		p.nextToken()
		return Int(first), nil
	}
	mark := p.peek.Pos
	p.nextToken()
	if p.peek.Type == TokenIndirectRef {
		p.nextToken()
		p.nextToken()
		return IndirectRef{Number: int(first), Generation: int(second)}, nil
	}
	p.reset(mark)
	return Int(first), nil
}

// parseArray parses "[obj1 obj2 ...]"
func (p *Parser) parseArray() (Object, error) {
	start := p.current.Pos
	p.nextToken()

	arr := Array{}
	for {
		p.skipComments()
		if eof, err := p.atEOF(); eof {
			if err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("unterminated array at position %d", start)
		}
		if p.current.Type == TokenArrayEnd {
			p.nextToken()
			return arr, nil
		}

		obj, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("failed to parse array element: %w", err)
		}
		arr = append(arr, obj)
	}
}

// parseDict parses "<< /Key value ... >>"
func (p *Parser) parseDict() (Object, error) {
	start := p.current.Pos
	p.nextToken()

	dict := make(Dict)
	for {
		p.skipComments()
		if eof, err := p.atEOF(); eof {
			if err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("unterminated dictionary at position %d", start)
		}
		if p.current.Type == TokenDictEnd {
			p.nextToken()
			return dict, nil
		}

		if p.current.Type != TokenName {
			return nil, fmt.Errorf("expected name for dictionary key at position %d, got %q", p.current.Pos, p.current.Value)
		}
		key := string(p.current.Value)
		p.nextToken()

		value, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("failed to parse value for key /%s: %w", key, err)
		}
		dict[key] = value
	}
}

// expectKeyword consumes the given keyword or fails
func (p *Parser) expectKeyword(keyword string) error {
	if p.current.Type != TokenKeyword || string(p.current.Value) != keyword {
		return fmt.Errorf("expected %q at position %d, got %q", keyword, p.current.Pos, p.current.Value)
	}
	p.nextToken()
	return nil
}

// expectInt consumes an integer token
func (p *Parser) expectInt(what string) (int, error) {
	if p.current.Type != TokenInteger {
		return 0, fmt.Errorf("expected %s at position %d, got %q", what, p.current.Pos, p.current.Value)
	}
	n, err := strconv.Atoi(string(p.current.Value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", what, err)
	}
	p.nextToken()
	return n, nil
}

// ParseIndirectObject parses "num gen obj <object> endobj", including a
// stream body when the object is a stream. A missing endobj is tolerated
// because truncated incremental sections often lack one.
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	p.skipComments()
	offset := p.current.Pos

	num, err := p.expectInt("object number")
	if err != nil {
		return nil, err
	}
	gen, err := p.expectInt("generation number")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("obj"); err != nil {
		return nil, err
	}

	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse body of object %d: %w", num, err)
	}

	if p.current.Type == TokenKeyword && string(p.current.Value) == "stream" {
		dict, ok := obj.(Dict)
		if !ok {
			return nil, fmt.Errorf("object %d: stream must follow a dictionary", num)
		}
		stream, err := p.parseStream(dict)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", num, err)
		}
		obj = stream
	}

	if p.current.Type == TokenKeyword && string(p.current.Value) == "endobj" {
		p.nextToken()
	}

	return &IndirectObject{
		Ref:    IndirectRef{Number: num, Generation: gen},
		Object: obj,
		Offset: offset,
	}, nil
}

// parseStream reads the stream body after the "stream" keyword. /Length is
// trusted when it lands on "endstream"; otherwise the body runs to the next
// "endstream" keyword.
func (p *Parser) parseStream(dict Dict) (*Stream, error) {
	start := int(p.current.Pos) + len("stream")
	// The keyword is followed by CRLF or LF; a lone CR is tolerated.
	if start < len(p.data) && p.data[start] == '\r' {
		start++
	}
	if start < len(p.data) && p.data[start] == '\n' {
		start++
	}

	end := -1
	if length, ok := p.streamLength(dict); ok && length >= 0 && start+length <= len(p.data) {
		after := start + length
		for after < len(p.data) && isWhitespace(p.data[after]) {
			after++
		}
		if bytes.HasPrefix(p.data[after:], []byte("endstream")) {
			end = start + length
			p.reset(int64(after))
		}
	}

	if end < 0 {
		idx := bytes.Index(p.data[start:], []byte("endstream"))
		if idx < 0 {
			return nil, fmt.Errorf("stream starting at %d has no endstream", start)
		}
		after := start + idx
		end = after
		// Trim the EOL that precedes endstream
		if end > start && p.data[end-1] == '\n' {
			end--
		}
		if end > start && p.data[end-1] == '\r' {
			end--
		}
		p.reset(int64(after))
	}

	if err := p.expectKeyword("endstream"); err != nil {
		return nil, err
	}

	return &Stream{Dict: dict, Data: p.data[start:end]}, nil
}

// streamLength resolves /Length, following an indirect reference when a
// resolver is available
func (p *Parser) streamLength(dict Dict) (int, bool) {
	switch v := dict.Get("Length").(type) {
	case Int:
		return int(v), true
	case IndirectRef:
		if p.resolver == nil {
			return 0, false
		}
		resolved, err := p.resolver.ResolveReference(v)
		if err != nil {
			return 0, false
		}
		n, ok := resolved.(Int)
		return int(n), ok
	default:
		return 0, false
	}
}
