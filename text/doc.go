// Package text builds plain page text from PDF content streams.
//
// The text is an oracle for substring lookups, not a faithful rendering:
// strings are placed on lines by their painted y coordinate and joined
// left to right, with a space wherever the horizontal gap suggests one.
//
//	extractor := text.NewExtractor()
//	for _, data := range decodedStreams {
//	    if err := extractor.ExtractFromBytes(data); err != nil {
//	        return err
//	    }
//	}
//	pageText := extractor.GetText()
//
// Glyph widths are estimated from the font size, since no font programs
// are loaded.
package text
