package core

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// XRefEntryType distinguishes the three kinds of cross-reference entries
type XRefEntryType int

const (
	XRefEntryFree         XRefEntryType = iota // type 0, or "f" in a classic table
	XRefEntryUncompressed                      // type 1, or "n" in a classic table
	XRefEntryCompressed                        // type 2: stored inside an object stream
)

// String returns the name of the entry type
func (t XRefEntryType) String() string {
	switch t {
	case XRefEntryFree:
		return "free"
	case XRefEntryUncompressed:
		return "in-use"
	case XRefEntryCompressed:
		return "compressed"
	default:
		return "unknown"
	}
}

// XRefEntry represents a single cross-reference entry. For compressed
// entries Offset holds the object stream number and Generation the index
// within that stream.
type XRefEntry struct {
	Type       XRefEntryType
	Offset     int64
	Generation int
	InUse      bool
}

// XRefTable is the document's master cross-reference table: every section
// reachable from the last startxref, merged so newer sections win.
type XRefTable struct {
	Entries  map[int]*XRefEntry
	Trailer  Dict
	Sections int  // number of sections merged
	Repaired bool // built by scanning object headers instead of the chain
}

// NewXRefTable creates a new empty XRef table
func NewXRefTable() *XRefTable {
	return &XRefTable{
		Entries: make(map[int]*XRefEntry),
		Trailer: make(Dict),
	}
}

// Get retrieves an XRef entry by object number
func (x *XRefTable) Get(objNum int) (*XRefEntry, bool) {
	entry, ok := x.Entries[objNum]
	return entry, ok
}

// Set adds or updates an XRef entry
func (x *XRefTable) Set(objNum int, entry *XRefEntry) {
	x.Entries[objNum] = entry
}

// Size returns the number of entries in the table
func (x *XRefTable) Size() int {
	return len(x.Entries)
}

// Generations returns the generation of every in-use object. Objects in
// object streams always have generation 0.
func (x *XRefTable) Generations() map[int]int {
	gens := make(map[int]int, len(x.Entries))
	for num, entry := range x.Entries {
		if !entry.InUse {
			continue
		}
		if entry.Type == XRefEntryCompressed {
			gens[num] = 0
			continue
		}
		gens[num] = entry.Generation
	}
	return gens
}

// ObjectNumbers returns the in-use object numbers in ascending order
func (x *XRefTable) ObjectNumbers() []int {
	nums := make([]int, 0, len(x.Entries))
	for num, entry := range x.Entries {
		if entry.InUse {
			nums = append(nums, num)
		}
	}
	sort.Ints(nums)
	return nums
}

// XRefParser parses cross-reference sections from an in-memory PDF
type XRefParser struct {
	data []byte
}

// NewXRefParser creates a new XRef parser
func NewXRefParser(data []byte) *XRefParser {
	return &XRefParser{data: data}
}

// FindXRef returns the offset named by the last startxref keyword
func (x *XRefParser) FindXRef() (int64, error) {
	idx := bytes.LastIndex(x.data, []byte("startxref"))
	if idx == -1 {
		return 0, fmt.Errorf("startxref not found")
	}

	lexer := NewLexer(x.data)
	lexer.Seek(int64(idx + len("startxref")))
	tok, err := lexer.NextToken()
	if err != nil || tok.Type != TokenInteger {
		return 0, fmt.Errorf("invalid startxref offset at position %d", idx)
	}
	offset, err := strconv.ParseInt(string(tok.Value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid startxref offset: %w", err)
	}
	if offset < 0 || offset >= int64(len(x.data)) {
		return 0, fmt.Errorf("startxref offset %d outside file of %d bytes", offset, len(x.data))
	}
	return offset, nil
}

// ParseXRef parses the section at offset, dispatching on whether it is a
// classic table or a cross-reference stream
func (x *XRefParser) ParseXRef(offset int64) (*XRefTable, error) {
	if offset < 0 || offset >= int64(len(x.data)) {
		return nil, fmt.Errorf("xref offset %d outside file", offset)
	}
	if x.isXRefStream(offset) {
		return x.parseXRefStream(offset)
	}
	return x.parseTable(offset)
}

// isXRefStream reports whether offset starts "N G obj" rather than "xref"
func (x *XRefParser) isXRefStream(offset int64) bool {
	lexer := NewLexer(x.data)
	lexer.Seek(offset)
	tok, err := lexer.NextToken()
	if err != nil {
		return false
	}
	return tok.Type == TokenInteger
}

// parseTable parses a classic "xref" table and its trailer. Records are
// read field-wise so tables with sloppy column widths still parse.
func (x *XRefParser) parseTable(offset int64) (*XRefTable, error) {
	pos := int(offset)
	for pos < len(x.data) && isWhitespace(x.data[pos]) {
		pos++
	}
	if !bytes.HasPrefix(x.data[pos:], []byte("xref")) {
		return nil, fmt.Errorf("expected 'xref' keyword at offset %d", offset)
	}
	pos += len("xref")

	table := NewXRefTable()
	first, remaining := 0, 0

	for pos < len(x.data) {
		lineStart := pos
		line, next := nextLine(x.data, pos)
		pos = next

		fields := bytes.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if bytes.HasPrefix(fields[0], []byte("trailer")) {
			trailerPos := lineStart + bytes.Index(line, []byte("trailer")) + len("trailer")
			trailer, err := x.parseTrailer(int64(trailerPos))
			if err != nil {
				return nil, fmt.Errorf("failed to parse trailer: %w", err)
			}
			table.Trailer = trailer
			table.Sections = 1
			return table, nil
		}

		if remaining == 0 {
			if len(fields) != 2 {
				return nil, fmt.Errorf("invalid subsection header: %q", line)
			}
			start, err1 := strconv.Atoi(string(fields[0]))
			count, err2 := strconv.Atoi(string(fields[1]))
			if err1 != nil || err2 != nil || start < 0 || count < 0 {
				return nil, fmt.Errorf("invalid subsection header: %q", line)
			}
			first, remaining = start, count
			continue
		}

		entry, err := parseTableEntry(fields)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", first, err)
		}
		table.Set(first, entry)
		first++
		remaining--
	}

	return nil, fmt.Errorf("xref table at offset %d has no trailer", offset)
}

// nextLine returns the line starting at pos (without its terminator) and
// the offset of the following line. CR, LF and CRLF all end a line.
func nextLine(data []byte, pos int) ([]byte, int) {
	end := pos
	for end < len(data) && data[end] != '\r' && data[end] != '\n' {
		end++
	}
	next := end
	if next < len(data) && data[next] == '\r' {
		next++
	}
	if next < len(data) && data[next] == '\n' {
		next++
	}
	return data[pos:end], next
}

// parseTableEntry parses "offset generation n|f"
func parseTableEntry(fields [][]byte) (*XRefEntry, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("xref entry has %d fields", len(fields))
	}
	offset, err := strconv.ParseInt(string(fields[0]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid offset %q: %w", fields[0], err)
	}
	generation, err := strconv.Atoi(string(fields[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid generation %q: %w", fields[1], err)
	}

	switch string(fields[2]) {
	case "n":
		return &XRefEntry{Type: XRefEntryUncompressed, Offset: offset, Generation: generation, InUse: true}, nil
	case "f":
		return &XRefEntry{Type: XRefEntryFree, Offset: offset, Generation: generation}, nil
	default:
		return nil, fmt.Errorf("invalid in-use flag: %q", fields[2])
	}
}

// parseTrailer parses the dictionary following the trailer keyword
func (x *XRefParser) parseTrailer(offset int64) (Dict, error) {
	obj, err := NewParserAt(x.data, offset).ParseObject()
	if err != nil {
		return nil, err
	}
	dict, ok := obj.(Dict)
	if !ok {
		return nil, fmt.Errorf("trailer is not a dictionary, got %T", obj)
	}
	return dict, nil
}

// parseXRefStream parses a cross-reference stream object at offset. The
// stream dictionary doubles as the trailer.
func (x *XRefParser) parseXRefStream(offset int64) (*XRefTable, error) {
	indObj, err := NewParserAt(x.data, offset).ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse xref stream object: %w", err)
	}
	stream, ok := indObj.Object.(*Stream)
	if !ok {
		return nil, fmt.Errorf("xref stream object is %T, not a stream", indObj.Object)
	}
	if t, _ := stream.Dict.GetName("Type"); t != "XRef" {
		return nil, fmt.Errorf("stream at offset %d is not /Type /XRef", offset)
	}

	wArr, ok := stream.Dict.GetArray("W")
	if !ok || len(wArr) != 3 {
		return nil, fmt.Errorf("xref stream has invalid /W")
	}
	w := make([]int, 3)
	rowLen := 0
	for i, v := range wArr {
		n, ok := v.(Int)
		if !ok || n < 0 || n > 8 {
			return nil, fmt.Errorf("xref stream /W[%d] is invalid: %v", i, v)
		}
		w[i] = int(n)
		rowLen += int(n)
	}
	if rowLen == 0 {
		return nil, fmt.Errorf("xref stream /W is all zero")
	}

	size, _ := stream.Dict.GetInt("Size")
	index := []int{0, int(size)}
	if idxArr, ok := stream.Dict.GetArray("Index"); ok {
		index = index[:0]
		for _, v := range idxArr {
			n, ok := v.(Int)
			if !ok {
				return nil, fmt.Errorf("xref stream /Index contains %T", v)
			}
			index = append(index, int(n))
		}
		if len(index)%2 != 0 {
			return nil, fmt.Errorf("xref stream /Index has odd length %d", len(index))
		}
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode xref stream: %w", err)
	}

	table := NewXRefTable()
	table.Trailer = stream.Dict
	table.Sections = 1

	pos := 0
	for i := 0; i < len(index); i += 2 {
		start, count := index[i], index[i+1]
		for j := 0; j < count; j++ {
			entry, n, err := x.parseXRefStreamEntry(data[pos:], w)
			if err != nil {
				// Truncated stream data: keep what was read.
				return table, nil
			}
			pos += n
			table.Set(start+j, entry)
		}
	}

	return table, nil
}

// parseXRefStreamEntry decodes one binary row with field widths w. A zero
// width type field defaults to type 1.
func (x *XRefParser) parseXRefStreamEntry(data []byte, w []int) (*XRefEntry, int, error) {
	rowLen := w[0] + w[1] + w[2]
	if len(data) < rowLen {
		return nil, 0, fmt.Errorf("need %d bytes for xref stream entry, have %d", rowLen, len(data))
	}

	typ := int64(1)
	if w[0] > 0 {
		typ = readBigEndianInt(data, w[0])
	}
	field1 := readBigEndianInt(data[w[0]:], w[1])
	field2 := int(readBigEndianInt(data[w[0]+w[1]:], w[2]))

	entry := &XRefEntry{Offset: field1, Generation: field2}
	switch typ {
	case 0:
		entry.Type = XRefEntryFree
	case 1:
		entry.Type = XRefEntryUncompressed
		entry.InUse = true
	case 2:
		entry.Type = XRefEntryCompressed
		entry.InUse = true
	default:
		// Unknown types are treated as references to the null object.
		entry.Type = XRefEntryFree
	}
	return entry, rowLen, nil
}

// readBigEndianInt reads width bytes as an unsigned big-endian integer
func readBigEndianInt(data []byte, width int) int64 {
	var v int64
	for i := 0; i < width && i < len(data); i++ {
		v = v<<8 | int64(data[i])
	}
	return v
}

// ParseAllXRefs parses the section named by startxref and every section
// reachable through /Prev and /XRefStm. Tables are returned oldest first.
func (x *XRefParser) ParseAllXRefs() ([]*XRefTable, error) {
	offset, err := x.FindXRef()
	if err != nil {
		return nil, err
	}

	var tables []*XRefTable
	visited := make(map[int64]bool)
	pending := []int64{offset}

	for len(pending) > 0 {
		offset := pending[0]
		pending = pending[1:]
		if visited[offset] {
			continue
		}
		visited[offset] = true

		table, err := x.ParseXRef(offset)
		if err != nil {
			return nil, fmt.Errorf("failed to parse xref at offset %d: %w", offset, err)
		}

		// A hybrid file's /XRefStm entries are older than the table that
		// points at them, so the stream is merged beneath it.
		if stm, ok := table.Trailer.GetInt("XRefStm"); ok && !visited[int64(stm)] {
			visited[int64(stm)] = true
			if hidden, err := x.ParseXRef(int64(stm)); err == nil {
				tables = append([]*XRefTable{hidden}, tables...)
			}
		}
		tables = append([]*XRefTable{table}, tables...)

		if prev, ok := table.Trailer.GetInt("Prev"); ok {
			pending = append(pending, int64(prev))
		}
	}

	return tables, nil
}

// MergeXRefTables merges tables given oldest first; later entries override
// earlier ones and the newest trailer is kept
func MergeXRefTables(tables ...*XRefTable) *XRefTable {
	merged := NewXRefTable()
	for _, table := range tables {
		for objNum, entry := range table.Entries {
			merged.Set(objNum, entry)
		}
		merged.Trailer = table.Trailer
		merged.Sections += table.Sections
	}
	return merged
}

// LoadXRef builds the master cross-reference table for data, falling back
// to a repair scan when the chain cannot be followed or lacks a /Root
func LoadXRef(data []byte) (*XRefTable, error) {
	tables, err := NewXRefParser(data).ParseAllXRefs()
	if err == nil {
		merged := MergeXRefTables(tables...)
		if merged.Trailer.Has("Root") {
			return merged, nil
		}
		err = fmt.Errorf("trailer has no /Root")
	}

	repaired, rerr := RepairXRef(data)
	if rerr != nil {
		return nil, fmt.Errorf("xref chain unusable (%v) and repair failed: %w", err, rerr)
	}
	return repaired, nil
}

var objHeaderRE = regexp.MustCompile(`(\d+)[ \t\r\n\f\x00]+(\d+)[ \t\r\n\f\x00]+obj\b`)

// RepairXRef rebuilds a table by scanning for "N G obj" headers. Later
// definitions of an object win, matching incremental update semantics.
// The trailer is the last "trailer" dictionary in the file, or a synthetic
// one pointing at the last /Type /Catalog object.
func RepairXRef(data []byte) (*XRefTable, error) {
	table := NewXRefTable()
	table.Repaired = true

	var catalog *IndirectRef
	for _, m := range objHeaderRE.FindAllSubmatchIndex(data, -1) {
		if m[0] > 0 && isRegular(data[m[0]-1]) {
			continue
		}
		num, err1 := strconv.Atoi(string(data[m[2]:m[3]]))
		gen, err2 := strconv.Atoi(string(data[m[4]:m[5]]))
		if err1 != nil || err2 != nil {
			continue
		}
		table.Set(num, &XRefEntry{
			Type:       XRefEntryUncompressed,
			Offset:     int64(m[0]),
			Generation: gen,
			InUse:      true,
		})

		if isCatalogAt(data, int64(m[1])) {
			catalog = &IndirectRef{Number: num, Generation: gen}
		}
	}

	if table.Size() == 0 {
		return nil, fmt.Errorf("no object headers found")
	}

	if idx := bytes.LastIndex(data, []byte("trailer")); idx >= 0 {
		x := NewXRefParser(data)
		if trailer, err := x.parseTrailer(int64(idx + len("trailer"))); err == nil && trailer.Has("Root") {
			table.Trailer = trailer
		}
	}
	if !table.Trailer.Has("Root") {
		if catalog == nil {
			return nil, fmt.Errorf("no trailer and no catalog object found")
		}
		table.Trailer = Dict{"Root": *catalog}
	}
	table.Sections = 1

	return table, nil
}

// isCatalogAt reports whether the object body at offset is a /Catalog dictionary
func isCatalogAt(data []byte, offset int64) bool {
	obj, err := NewParserAt(data, offset).ParseObject()
	if err != nil {
		return false
	}
	dict, ok := obj.(Dict)
	if !ok {
		return false
	}
	t, _ := dict.GetName("Type")
	return t == "Catalog"
}
