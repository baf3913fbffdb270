// Package contentstream recovers positioned text from PDF content streams.
//
// A content stream is a postfix program: operands are pushed, and an
// operator consumes them. This package does not interpret the full graphics
// model. It tokenizes the stream with [Lexer] and runs a small state machine,
// [Paint], that tracks just enough text state to say where each string was
// painted and in which font.
//
// # Tokens
//
// The lexer produces numbers, names, literal strings, hex strings,
// operators, and array brackets. Dictionaries (marked-content properties),
// comments, and inline image data are consumed without producing tokens.
//
//	lexer := contentstream.NewLexer(data)
//	for {
//	    tok, err := lexer.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	}
//
// # Text State
//
// [Paint] follows these operators:
//   - BT - begin text object, cursor back to the origin
//   - Td, TD - move the cursor by (tx, ty)
//   - Tm - set the cursor from the translation of the text matrix
//   - Tf - select font and size
//   - Tj - show a string
//   - TJ - show an array of strings; kerning numbers are ignored
//
// Each show operator yields one [Event]. Rotation and scaling in Tm, the
// CTM, and text leading are not modeled; positions are in text space.
//
// # Text Decoding
//
// [DecodeText] turns literal string bytes into UTF-8: UTF-16BE when the
// string starts with a byte order mark, Windows-1252 otherwise. Hex strings
// are not decoded since their meaning depends on the font's encoding.
package contentstream
