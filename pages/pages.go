package pages

import (
	"fmt"

	"github.com/tsawler/pdfrev/core"
)

// ObjectResolver interface for resolving indirect references
type ObjectResolver interface {
	Resolve(obj core.Object) (core.Object, error)
	ResolveReference(ref core.IndirectRef) (core.Object, error)
}

// inheritable lists the page attributes a page takes from its ancestors
var inheritable = []string{"Resources", "MediaBox", "CropBox", "Rotate"}

// PageTree represents the PDF page tree
type PageTree struct {
	root     core.Object // the catalog's /Pages value, usually a reference
	resolver ObjectResolver
	pages    []*Page // cached flattened page list
}

// NewPageTree creates a page tree from the catalog's /Pages value, which
// may be a reference or a dictionary
func NewPageTree(root core.Object, resolver ObjectResolver) *PageTree {
	return &PageTree{
		root:     root,
		resolver: resolver,
	}
}

// Count returns the number of pages found by traversal
func (t *PageTree) Count() (int, error) {
	pages, err := t.Pages()
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

// GetPage returns the page at the given index (0-based)
func (t *PageTree) GetPage(index int) (*Page, error) {
	pages, err := t.Pages()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(pages))
	}
	return pages[index], nil
}

// Pages returns all pages in document order
func (t *PageTree) Pages() ([]*Page, error) {
	if t.pages == nil {
		pages, err := t.load()
		if err != nil {
			return nil, fmt.Errorf("failed to traverse page tree: %w", err)
		}
		t.pages = pages
	}
	return t.pages, nil
}

// node is one pending worklist item
type node struct {
	obj       core.Object // reference or dictionary
	inherited core.Dict
}

// load flattens the tree depth-first. Children are pushed in reverse so
// they pop in document order.
func (t *PageTree) load() ([]*Page, error) {
	pages := []*Page{}
	visited := make(map[int]bool)
	stack := []node{{obj: t.root, inherited: core.Dict{}}}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var ref core.IndirectRef
		if r, ok := n.obj.(core.IndirectRef); ok {
			if visited[r.Number] {
				continue
			}
			visited[r.Number] = true
			ref = r
		}

		resolved, err := t.resolver.Resolve(n.obj)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve page node %v: %w", n.obj, err)
		}
		dict, ok := resolved.(core.Dict)
		if !ok {
			return nil, fmt.Errorf("page node %v is %T, not a dictionary", n.obj, resolved)
		}

		inherited := n.inherited
		for _, key := range inheritable {
			if v, ok := dict[key]; ok {
				inherited = copyDict(inherited)
				inherited[key] = v
			}
		}

		typ, _ := dict.GetName("Type")
		_, hasKids := dict["Kids"]
		if typ == "Pages" || (typ == "" && hasKids) {
			kidsObj, err := t.resolver.Resolve(dict.Get("Kids"))
			if err != nil {
				return nil, fmt.Errorf("failed to resolve /Kids: %w", err)
			}
			kids, ok := kidsObj.(core.Array)
			if !ok {
				return nil, fmt.Errorf("invalid /Kids type: %T", kidsObj)
			}
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, node{obj: kids[i], inherited: inherited})
			}
			continue
		}

		pages = append(pages, &Page{
			Number:    len(pages) + 1,
			Ref:       ref,
			dict:      dict,
			inherited: inherited,
			resolver:  t.resolver,
		})
	}

	return pages, nil
}

func copyDict(d core.Dict) core.Dict {
	out := make(core.Dict, len(d)+1)
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Page represents a single PDF page
type Page struct {
	Number int              // 1-based position in document order
	Ref    core.IndirectRef // reference the page was reached through; zero if inline

	dict      core.Dict
	inherited core.Dict
	resolver  ObjectResolver
}

// NewPage creates a page from a dictionary. inherited may be nil.
func NewPage(number int, ref core.IndirectRef, dict, inherited core.Dict, resolver ObjectResolver) *Page {
	if inherited == nil {
		inherited = core.Dict{}
	}
	return &Page{Number: number, Ref: ref, dict: dict, inherited: inherited, resolver: resolver}
}

// Dict returns the page dictionary
func (p *Page) Dict() core.Dict {
	return p.dict
}

// attr returns a page attribute, falling back to inherited values
func (p *Page) attr(key string) core.Object {
	if v, ok := p.dict[key]; ok {
		return v
	}
	return p.inherited[key]
}

// MediaBox returns the page media box [x1 y1 x2 y2]
func (p *Page) MediaBox() ([]float64, error) {
	return p.box("MediaBox")
}

// CropBox returns the crop box, defaulting to the media box
func (p *Page) CropBox() ([]float64, error) {
	if p.attr("CropBox") == nil {
		return p.MediaBox()
	}
	return p.box("CropBox")
}

func (p *Page) box(name string) ([]float64, error) {
	obj := p.attr(name)
	if obj == nil {
		return nil, fmt.Errorf("%s not found", name)
	}
	resolved, err := p.resolver.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", name, err)
	}
	arr, ok := resolved.(core.Array)
	if !ok || len(arr) != 4 {
		return nil, fmt.Errorf("invalid %s: %v", name, resolved)
	}
	box := make([]float64, 4)
	for i := range arr {
		v, ok := arr.GetNumber(i)
		if !ok {
			return nil, fmt.Errorf("invalid %s element type: %T", name, arr[i])
		}
		box[i] = v
	}
	return box, nil
}

// Rotate returns the page rotation (0, 90, 180, or 270)
func (p *Page) Rotate() int {
	if r, ok := p.attr("Rotate").(core.Int); ok {
		return int(r)
	}
	return 0
}

// Resources returns the page resources dictionary, possibly inherited.
// A page without resources gets an empty dictionary.
func (p *Page) Resources() (core.Dict, error) {
	obj := p.attr("Resources")
	if obj == nil {
		return core.Dict{}, nil
	}
	resolved, err := p.resolver.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Resources: %w", err)
	}
	dict, ok := resolved.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("invalid Resources type: %T", resolved)
	}
	return dict, nil
}

// ContentRefs returns the references that make up /Contents. When
// /Contents is a reference to an array, both that reference and the
// array's element references are returned.
func (p *Page) ContentRefs() ([]core.IndirectRef, error) {
	return p.refList("Contents")
}

// AnnotRefs returns the references listed in /Annots, including the
// reference of the array itself when /Annots is indirect
func (p *Page) AnnotRefs() ([]core.IndirectRef, error) {
	return p.refList("Annots")
}

// refList collects references from an entry holding a reference or an
// array of references, following one level of indirection to the array
func (p *Page) refList(key string) ([]core.IndirectRef, error) {
	obj := p.dict.Get(key)
	if obj == nil {
		return nil, nil
	}

	var refs []core.IndirectRef
	if ref, ok := obj.(core.IndirectRef); ok {
		refs = append(refs, ref)
		resolved, err := p.resolver.ResolveReference(ref)
		if err != nil {
			return refs, fmt.Errorf("failed to resolve /%s: %w", key, err)
		}
		obj = resolved
	}

	if arr, ok := obj.(core.Array); ok {
		for _, elem := range arr {
			if ref, ok := elem.(core.IndirectRef); ok {
				refs = append(refs, ref)
			}
		}
	}
	return refs, nil
}

// Contents returns the page's content streams in order
func (p *Page) Contents() ([]*core.Stream, error) {
	obj := p.dict.Get("Contents")
	if obj == nil {
		return nil, nil
	}

	resolved, err := p.resolver.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Contents: %w", err)
	}

	switch v := resolved.(type) {
	case *core.Stream:
		return []*core.Stream{v}, nil
	case core.Array:
		streams := make([]*core.Stream, 0, len(v))
		for i, elem := range v {
			r, err := p.resolver.Resolve(elem)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve contents[%d]: %w", i, err)
			}
			if s, ok := r.(*core.Stream); ok {
				streams = append(streams, s)
			}
		}
		return streams, nil
	default:
		return nil, fmt.Errorf("invalid Contents type: %T", resolved)
	}
}

// Image is an image XObject referenced from the page resources
type Image struct {
	Name   string
	Ref    core.IndirectRef
	Stream *core.Stream
}

// Images returns the image XObjects named in the page resources, sorted
// by resource name
func (p *Page) Images() ([]Image, error) {
	res, err := p.Resources()
	if err != nil {
		return nil, err
	}
	xobjObj := res.Get("XObject")
	if xobjObj == nil {
		return nil, nil
	}
	resolved, err := p.resolver.Resolve(xobjObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve XObject: %w", err)
	}
	xobjs, ok := resolved.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("invalid XObject type: %T", resolved)
	}

	var images []Image
	for _, name := range xobjs.Keys() {
		ref, _ := xobjs[name].(core.IndirectRef)
		obj, err := p.resolver.Resolve(xobjs[name])
		if err != nil {
			continue
		}
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		if sub, _ := stream.Dict.GetName("Subtype"); sub != "Image" {
			continue
		}
		images = append(images, Image{Name: name, Ref: ref, Stream: stream})
	}
	return images, nil
}
