package analysis

// LocatePage returns the first page, in page order, whose dictionary,
// content streams or annotations include object, or 0 if none does.
// For each page the page object is checked first, then its contents,
// then its annotations.
func LocatePage(pages []PageRefs, object int) int {
	for _, p := range pages {
		if p.Object == object && object > 0 {
			return p.Number
		}
		if containsInt(p.Contents, object) || containsInt(p.Annots, object) {
			return p.Number
		}
	}
	return 0
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
