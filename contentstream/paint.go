package contentstream

import (
	"fmt"
	"io"
	"strings"
)

// Event is one string painted by a show-text operator
type Event struct {
	Text     string  // UTF-8 text, or <HEX> for hex strings
	X, Y     float64 // cursor when the string was painted
	Font     string  // resource name of the current font, without the slash
	FontSize float64
	Hex      bool // at least one piece came from a hex string
}

// textState is the cursor and font tracked between operators
type textState struct {
	x, y     float64
	font     string
	fontSize float64
}

// Paint tokenizes a content stream and returns its text-paint events in
// stream order. Operators with the wrong operands are ignored. A lexical
// or structural error stops the scan; the events painted before it are
// returned along with the error.
func Paint(data []byte) ([]Event, error) {
	lexer := NewLexer(data)

	var (
		state    textState
		operands []Token
		events   []Event
		array    []Token // elements of the array being read
		inArray  bool
	)

	for {
		tok, err := lexer.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}

		switch tok.Kind {
		case TokenArrayStart:
			if inArray {
				return events, fmt.Errorf("nested array at offset %d", tok.Pos)
			}
			inArray = true
			array = array[:0]
			continue
		case TokenArrayEnd:
			if !inArray {
				return events, fmt.Errorf("unbalanced ] at offset %d", tok.Pos)
			}
			inArray = false
			operands = append(operands, Token{Kind: TokenArrayStart, Pos: tok.Pos})
			// The array travels as a marker followed by its elements
			// so TJ can find them at the tail of the operand stack.
			operands = append(operands, array...)
			operands = append(operands, Token{Kind: TokenArrayEnd, Pos: tok.Pos})
			continue
		case TokenOperator:
			if inArray {
				return events, fmt.Errorf("operator %q inside array at offset %d", tok.Text, tok.Pos)
			}
		default:
			if inArray {
				array = append(array, tok)
			} else {
				operands = append(operands, tok)
			}
			continue
		}

		if ev, ok := state.apply(string(tok.Text), operands); ok {
			events = append(events, ev)
		}
		operands = operands[:0]
	}
}

// apply runs one operator against the text state. It returns an event for
// show-text operators.
func (s *textState) apply(op string, operands []Token) (Event, bool) {
	switch op {
	case "BT":
		s.x, s.y = 0, 0
	case "Td", "TD":
		if nums, ok := trailingNumbers(operands, 2); ok {
			s.x += nums[0]
			s.y += nums[1]
		}
	case "Tm":
		if nums, ok := trailingNumbers(operands, 6); ok {
			s.x, s.y = nums[4], nums[5]
		}
	case "Tf":
		n := len(operands)
		if n >= 2 && operands[n-2].Kind == TokenName && operands[n-1].Kind == TokenNumber {
			s.font = string(operands[n-2].Text)
			s.fontSize = operands[n-1].Num
		}
	case "Tj":
		n := len(operands)
		if n >= 1 && (operands[n-1].Kind == TokenString || operands[n-1].Kind == TokenHexString) {
			text, hex := render(operands[n-1])
			return s.event(text, hex), true
		}
	case "TJ":
		n := len(operands)
		if n == 0 || operands[n-1].Kind != TokenArrayEnd {
			return Event{}, false
		}
		var sb strings.Builder
		hex := false
		start := n - 2
		for start >= 0 && operands[start].Kind != TokenArrayStart {
			start--
		}
		for _, el := range operands[start+1 : n-1] {
			if el.Kind != TokenString && el.Kind != TokenHexString {
				continue
			}
			text, h := render(el)
			sb.WriteString(text)
			hex = hex || h
		}
		return s.event(sb.String(), hex), true
	}
	return Event{}, false
}

func (s *textState) event(text string, hex bool) Event {
	return Event{
		Text:     text,
		X:        s.x,
		Y:        s.y,
		Font:     s.font,
		FontSize: s.fontSize,
		Hex:      hex,
	}
}

// render converts a string token to display text
func render(tok Token) (string, bool) {
	if tok.Kind == TokenHexString {
		return fmt.Sprintf("<%X>", tok.Text), true
	}
	return DecodeText(tok.Text), false
}

// trailingNumbers returns the last n operands if they are all numbers
func trailingNumbers(operands []Token, n int) ([]float64, bool) {
	if len(operands) < n {
		return nil, false
	}
	nums := make([]float64, n)
	for i, tok := range operands[len(operands)-n:] {
		if tok.Kind != TokenNumber {
			return nil, false
		}
		nums[i] = tok.Num
	}
	return nums, true
}
