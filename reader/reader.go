package reader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/tsawler/pdfrev/analysis"
	"github.com/tsawler/pdfrev/core"
	"github.com/tsawler/pdfrev/pages"
	"github.com/tsawler/pdfrev/text"
)

var (
	// ErrNotPDF is returned when the input does not start with a %PDF- header
	ErrNotPDF = errors.New("not a PDF file")
	// ErrTooLarge is returned when a file exceeds the configured size limit
	ErrTooLarge = errors.New("file exceeds size limit")
)

// headerWindow is how far into the file the %PDF- header may start
const headerWindow = 1024

var versionRE = regexp.MustCompile(`^%PDF-(\d+)\.(\d+)`)

// PDFVersion represents a PDF version
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as a string (e.g., "1.7")
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ImageRecognizer turns an encoded image into text
type ImageRecognizer interface {
	RecognizeImage(imageData []byte) (string, error)
}

// Reader is a PDF document held in memory
type Reader struct {
	data       []byte
	version    PDFVersion
	xrefTable  *core.XRefTable
	repaired   *core.XRefTable // built on demand when a listed offset is wrong
	trailer    core.Dict
	objCache   map[int]core.Object
	objStms    map[int]*core.ObjectStream
	pageTree   *pages.PageTree
	recognizer ImageRecognizer
}

var (
	_ pages.ObjectResolver = (*Reader)(nil)
	_ analysis.Document    = (*Reader)(nil)
	_ analysis.TextOracle  = (*Reader)(nil)
)

// NewReader creates a reader over a complete PDF file. The buffer is not
// copied and must not change afterwards.
func NewReader(data []byte) (*Reader, error) {
	version, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	xrefTable, err := core.LoadXRef(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load xref: %w", err)
	}

	return &Reader{
		data:      data,
		version:   version,
		xrefTable: xrefTable,
		trailer:   xrefTable.Trailer,
		objCache:  make(map[int]core.Object),
		objStms:   make(map[int]*core.ObjectStream),
	}, nil
}

// Open reads a whole file and creates a reader for it. A maxSize above
// zero rejects larger files before they are read.
func Open(filename string, maxSize int64) (*Reader, error) {
	data, err := ReadFile(filename, maxSize)
	if err != nil {
		return nil, err
	}
	return NewReader(data)
}

// ReadFile reads a file, enforcing maxSize when it is above zero
func ReadFile(filename string, maxSize int64) ([]byte, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("failed to open file: %s is a directory", filename)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, info.Size(), maxSize)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// parseHeader finds %PDF-x.y near the start of the file
func parseHeader(data []byte) (PDFVersion, error) {
	window := data
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}
	idx := bytes.Index(window, []byte("%PDF-"))
	if idx < 0 {
		return PDFVersion{}, ErrNotPDF
	}

	m := versionRE.FindSubmatch(data[idx:])
	if m == nil {
		return PDFVersion{}, fmt.Errorf("%w: invalid version in header", ErrNotPDF)
	}
	major, _ := strconv.Atoi(string(m[1]))
	minor, _ := strconv.Atoi(string(m[2]))
	return PDFVersion{Major: major, Minor: minor}, nil
}

// SetRecognizer enables OCR of image-only pages in PageText
func (r *Reader) SetRecognizer(rec ImageRecognizer) {
	r.recognizer = rec
}

// Version returns the PDF version
func (r *Reader) Version() PDFVersion {
	return r.version
}

// Trailer returns the trailer dictionary
func (r *Reader) Trailer() core.Dict {
	return r.trailer
}

// Data returns the file bytes
func (r *Reader) Data() []byte {
	return r.data
}

// XRefTable returns the master cross-reference table
func (r *Reader) XRefTable() *core.XRefTable {
	return r.xrefTable
}

// GetObject loads an object by its number. Objects stored in object
// streams are extracted from their container. When the table points at
// the wrong place, the object is looked up in a table rebuilt by
// scanning the file.
func (r *Reader) GetObject(objNum int) (core.Object, error) {
	if obj, ok := r.objCache[objNum]; ok {
		return obj, nil
	}

	entry, ok := r.xrefTable.Get(objNum)
	if !ok {
		return nil, fmt.Errorf("object %d not found in xref table", objNum)
	}

	var (
		obj core.Object
		err error
	)
	switch entry.Type {
	case core.XRefEntryFree:
		return nil, fmt.Errorf("object %d is not in use", objNum)
	case core.XRefEntryCompressed:
		obj, err = r.compressedObject(objNum, entry)
	default:
		obj, err = r.objectAt(objNum, entry.Offset)
		if err != nil && !r.xrefTable.Repaired {
			obj, err = r.repairedObject(objNum, err)
		}
	}
	if err != nil {
		return nil, err
	}

	r.objCache[objNum] = obj
	return obj, nil
}

// objectAt parses the indirect object at offset and checks its number
func (r *Reader) objectAt(objNum int, offset int64) (core.Object, error) {
	if offset < 0 || offset >= int64(len(r.data)) {
		return nil, fmt.Errorf("object %d offset %d outside file", objNum, offset)
	}
	parser := core.NewParserAt(r.data, offset)
	parser.SetReferenceResolver(r)
	indObj, err := parser.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse object %d: %w", objNum, err)
	}
	if indObj.Ref.Number != objNum {
		return nil, fmt.Errorf("object number mismatch: expected %d, got %d", objNum, indObj.Ref.Number)
	}
	return indObj.Object, nil
}

func (r *Reader) repairedObject(objNum int, cause error) (core.Object, error) {
	if r.repaired == nil {
		table, err := core.RepairXRef(r.data)
		if err != nil {
			return nil, fmt.Errorf("%v; repair failed: %w", cause, err)
		}
		r.repaired = table
	}
	entry, ok := r.repaired.Get(objNum)
	if !ok {
		return nil, cause
	}
	return r.objectAt(objNum, entry.Offset)
}

// compressedObject extracts an object from the object stream named by entry
func (r *Reader) compressedObject(objNum int, entry *core.XRefEntry) (core.Object, error) {
	stmNum := int(entry.Offset)
	if stmNum == objNum {
		return nil, fmt.Errorf("object %d is listed inside itself", objNum)
	}
	objStm, ok := r.objStms[stmNum]
	if !ok {
		container, err := r.GetObject(stmNum)
		if err != nil {
			return nil, fmt.Errorf("failed to load object stream %d: %w", stmNum, err)
		}
		stream, ok := container.(*core.Stream)
		if !ok {
			return nil, fmt.Errorf("object stream %d is %T", stmNum, container)
		}
		objStm, err = core.NewObjectStream(stream)
		if err != nil {
			return nil, fmt.Errorf("object stream %d: %w", stmNum, err)
		}
		r.objStms[stmNum] = objStm
	}

	obj, err := objStm.GetObjectByNumber(objNum, entry.Generation)
	if err != nil {
		return nil, fmt.Errorf("object stream %d: %w", stmNum, err)
	}
	return obj, nil
}

// ResolveReference resolves an indirect reference
func (r *Reader) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return r.GetObject(ref.Number)
}

// Resolve resolves an object if it's an indirect reference, otherwise returns it as-is
func (r *Reader) Resolve(obj core.Object) (core.Object, error) {
	if ref, ok := obj.(core.IndirectRef); ok {
		return r.ResolveReference(ref)
	}
	return obj, nil
}

// GetCatalog returns the document catalog (root object)
func (r *Reader) GetCatalog() (core.Dict, error) {
	ref, ok := r.trailer.GetIndirectRef("Root")
	if !ok {
		return nil, fmt.Errorf("trailer missing /Root reference")
	}
	obj, err := r.ResolveReference(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog: %w", err)
	}
	catalog, ok := obj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("catalog is not a dictionary: %T", obj)
	}
	return catalog, nil
}

// ensurePageTree loads the page tree if not already loaded
func (r *Reader) ensurePageTree() error {
	if r.pageTree != nil {
		return nil
	}
	catalog, err := r.GetCatalog()
	if err != nil {
		return fmt.Errorf("failed to get catalog: %w", err)
	}
	root := catalog.Get("Pages")
	if root == nil {
		return fmt.Errorf("catalog missing /Pages entry")
	}
	r.pageTree = pages.NewPageTree(root, r)
	return nil
}

// Pages returns all pages in document order
func (r *Reader) Pages() ([]*pages.Page, error) {
	if err := r.ensurePageTree(); err != nil {
		return nil, err
	}
	return r.pageTree.Pages()
}

// PageCount returns the number of pages in the PDF
func (r *Reader) PageCount() (int, error) {
	list, err := r.Pages()
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// GetPage returns the page at the given index (0-based)
func (r *Reader) GetPage(index int) (*pages.Page, error) {
	if err := r.ensurePageTree(); err != nil {
		return nil, err
	}
	return r.pageTree.GetPage(index)
}

// Object returns the current definition of an object
func (r *Reader) Object(num int) (core.Object, error) {
	return r.GetObject(num)
}

// Generations returns the generation of every in-use object
func (r *Reader) Generations() map[int]int {
	return r.xrefTable.Generations()
}

// PageRefs lists, per page, the objects the page is made of. A reference
// that cannot be followed is left out rather than failing the page.
func (r *Reader) PageRefs() ([]analysis.PageRefs, error) {
	list, err := r.Pages()
	if err != nil {
		return nil, err
	}

	refs := make([]analysis.PageRefs, 0, len(list))
	for _, p := range list {
		contents, _ := p.ContentRefs()
		annots, _ := p.AnnotRefs()
		refs = append(refs, analysis.PageRefs{
			Number:   p.Number,
			Object:   p.Ref.Number,
			Contents: refNumbers(contents),
			Annots:   refNumbers(annots),
		})
	}
	return refs, nil
}

func refNumbers(refs []core.IndirectRef) []int {
	out := make([]int, len(refs))
	for i, ref := range refs {
		out[i] = ref.Number
	}
	return out
}

// PageText returns the text drawn on a page (1-based) by every content
// stream except object exclude. When the page draws no text and a
// recognizer is set, its images other than exclude are recognized
// instead.
func (r *Reader) PageText(pageNum, exclude int) (string, error) {
	page, err := r.GetPage(pageNum - 1)
	if err != nil {
		return "", err
	}

	refs, _ := page.ContentRefs()

	extractor := text.NewExtractor()
	for _, data := range r.contentData(page, refs, exclude) {
		if err := extractor.ExtractFromBytes(data); err != nil {
			return "", fmt.Errorf("page %d: %w", pageNum, err)
		}
	}
	pageText := extractor.GetText()

	if strings.TrimSpace(pageText) == "" && r.recognizer != nil {
		return r.recognizePage(page, exclude)
	}
	return pageText, nil
}

// contentData decodes the page's content streams in order, leaving out
// exclude. An inline /Contents stream has no reference and is always
// kept.
func (r *Reader) contentData(page *pages.Page, refs []core.IndirectRef, exclude int) [][]byte {
	var out [][]byte
	if len(refs) == 0 {
		streams, _ := page.Contents()
		for _, s := range streams {
			if data, err := s.Decode(); err == nil {
				out = append(out, data)
			}
		}
		return out
	}

	for _, ref := range refs {
		if ref.Number == exclude {
			continue
		}
		obj, err := r.ResolveReference(ref)
		if err != nil {
			continue
		}
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		data, err := stream.Decode()
		if err != nil {
			continue
		}
		out = append(out, data)
	}
	return out
}

// recognizePage runs OCR over the page's images, joining the results
// with newlines
func (r *Reader) recognizePage(page *pages.Page, exclude int) (string, error) {
	images, err := r.ExtractPageImages(page)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, img := range images {
		if img.Ref.Number == exclude && exclude > 0 {
			continue
		}
		encoded, err := img.Encode()
		if err != nil {
			continue
		}
		s, err := r.recognizer.RecognizeImage(encoded)
		if err != nil {
			return "", fmt.Errorf("OCR of image %s: %w", img.Name, err)
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n"), nil
}
