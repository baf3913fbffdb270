package analysis

import (
	"io"
	"log/slog"

	"github.com/tsawler/pdfrev/core"
)

// PageRefs lists the objects a page is made of
type PageRefs struct {
	Number   int   // 1-based
	Object   int   // the page dictionary's object number, 0 if inline
	Contents []int // content streams, plus an indirect /Contents array itself
	Annots   []int // annotations, plus an indirect /Annots array itself
}

// Document is random access to the document model
type Document interface {
	// Object returns the current definition of an object
	Object(num int) (core.Object, error)
	// Generations maps every in-use object to its generation in the
	// master cross-reference table
	Generations() map[int]int
	// PageRefs lists the pages in order
	PageRefs() ([]PageRefs, error)
}

// TextOracle extracts the plain text of a page
type TextOracle interface {
	// PageText returns the text of page (1-based) drawn by every object
	// except exclude
	PageText(page, exclude int) (string, error)
}

// Context is everything an analysis run reads. It is built once and not
// modified afterwards.
type Context struct {
	data   []byte
	doc    Document
	oracle TextOracle
	logger *slog.Logger
}

// NewContext creates an analysis context. A nil logger discards output.
func NewContext(data []byte, doc Document, oracle TextOracle, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Context{data: data, doc: doc, oracle: oracle, logger: logger}
}

// Data returns the document bytes
func (c *Context) Data() []byte {
	return c.data
}

// Logger returns the context logger
func (c *Context) Logger() *slog.Logger {
	return c.logger
}
