package analysis

import (
	"sort"

	"github.com/tsawler/pdfrev/core"
	"github.com/tsawler/pdfrev/revision"
)

// Locate returns the candidate objects: every object with a generation
// above zero, then every object the last revision lists as in use. An
// object found by both keeps GenerationNonzero. Candidates are ordered by
// object number.
func Locate(generations map[int]int, lastInUse []int) []CandidateObject {
	seen := make(map[int]bool)
	var out []CandidateObject

	for num, gen := range generations {
		if gen > 0 && num > 0 {
			seen[num] = true
			out = append(out, CandidateObject{Number: num, Generation: gen, Method: GenerationNonzero})
		}
	}
	for _, num := range lastInUse {
		if seen[num] || num <= 0 {
			continue
		}
		seen[num] = true
		out = append(out, CandidateObject{Number: num, Generation: generations[num], Method: LastRevisionTable})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Number < out[j].Number
	})
	return out
}

// lastRevisionObjects returns the objects listed in use by the current
// revision together with the count of malformed section lines. Classic
// sections are parsed line by line; a revision that ends in a
// cross-reference stream is read through its startxref offset.
func lastRevisionObjects(data []byte, layout *revision.Layout) ([]int, int) {
	rev, ok := layout.Current()
	if !ok {
		return nil, 0
	}

	if len(rev.XRefOffsets) > 0 {
		var nums []int
		malformed := 0
		for _, off := range rev.XRefOffsets {
			sec := revision.ParseSection(rev.SectionBytes(data, off))
			nums = append(nums, sec.InUse()...)
			malformed += sec.Malformed
		}
		return nums, malformed
	}

	if !rev.Contains(rev.StartXRef) {
		return nil, 0
	}
	table, err := core.NewXRefParser(data).ParseXRef(rev.StartXRef)
	if err != nil {
		return nil, 0
	}
	var nums []int
	for num, entry := range table.Entries {
		if entry.Type != core.XRefEntryFree {
			nums = append(nums, num)
		}
	}
	sort.Ints(nums)
	return nums, 0
}
