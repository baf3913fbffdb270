package revision

import (
	"bytes"
	"sort"
	"strconv"
)

// Entry is one record of a cross-reference section
type Entry struct {
	Number     int
	Offset     int64
	Generation int
	InUse      bool
}

// Section is a parsed classic cross-reference section
type Section struct {
	Entries   []Entry
	Malformed int // lines that were neither a header nor a record
}

// InUse returns the numbers of the objects marked n, ascending and
// without duplicates
func (s *Section) InUse() []int {
	seen := make(map[int]bool)
	var nums []int
	for _, e := range s.Entries {
		if e.InUse && !seen[e.Number] {
			seen[e.Number] = true
			nums = append(nums, e.Number)
		}
	}
	sort.Ints(nums)
	return nums
}

// ParseSection reads a cross-reference section from the xref keyword up
// to the trailer keyword, which ends the parse. Subsection headers
// "start count" set the number of the next record; every record-shaped
// line after that takes the next number, whether or not it parses. Other
// malformed lines are counted but numbered nothing. Field widths and the
// header count are not enforced. Object 0, the head of the free list, is
// never reported.
func ParseSection(data []byte) *Section {
	sec := &Section{}
	next := -1 // no header seen yet

	for pos := 0; pos < len(data); {
		line, rest := nextLine(data, pos)
		pos = rest

		fields := bytes.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if bytes.HasPrefix(fields[0], trailerKw) {
			break
		}
		if bytes.Equal(fields[0], xrefKw) && len(fields) == 1 {
			continue
		}

		switch {
		case len(fields) == 2 && allDigits(fields[0]) && allDigits(fields[1]):
			start, err := strconv.Atoi(string(fields[0]))
			if err != nil {
				sec.Malformed++
				continue
			}
			next = start

		case len(fields) == 3 && next >= 0:
			// A record's position fixes its number, so a corrupt record
			// still uses one up.
			entry, ok := parseRecord(fields)
			entry.Number = next
			next++
			if !ok {
				sec.Malformed++
				continue
			}
			if entry.Number == 0 {
				continue
			}
			sec.Entries = append(sec.Entries, entry)

		default:
			sec.Malformed++
		}
	}

	return sec
}

// parseRecord reads "offset generation flag"
func parseRecord(fields [][]byte) (Entry, bool) {
	if !allDigits(fields[0]) || !allDigits(fields[1]) || len(fields[2]) != 1 {
		return Entry{}, false
	}
	offset, err := strconv.ParseInt(string(fields[0]), 10, 64)
	if err != nil {
		return Entry{}, false
	}
	gen, err := strconv.Atoi(string(fields[1]))
	if err != nil {
		return Entry{}, false
	}

	switch fields[2][0] {
	case 'n':
		return Entry{Offset: offset, Generation: gen, InUse: true}, true
	case 'f':
		return Entry{Offset: offset, Generation: gen}, true
	default:
		return Entry{}, false
	}
}

// nextLine returns the line starting at pos and the position after its
// end-of-line, which may be CR, LF or CRLF
func nextLine(data []byte, pos int) ([]byte, int) {
	i := pos
	for i < len(data) && data[i] != '\n' && data[i] != '\r' {
		i++
	}
	line := data[pos:i]
	if i < len(data) && data[i] == '\r' {
		i++
	}
	if i < len(data) && data[i] == '\n' {
		i++
	}
	return line, i
}

func allDigits(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
