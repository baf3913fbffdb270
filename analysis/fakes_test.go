package analysis

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdfrev/core"
)

// fakeDoc is an in-memory Document
type fakeDoc struct {
	objects map[int]core.Object
	gens    map[int]int
	pages   []PageRefs
	pageErr error
}

func (d *fakeDoc) Object(num int) (core.Object, error) {
	obj, ok := d.objects[num]
	if !ok {
		return nil, fmt.Errorf("object %d not found", num)
	}
	return obj, nil
}

func (d *fakeDoc) Generations() map[int]int {
	if d.gens == nil {
		return map[int]int{}
	}
	return d.gens
}

func (d *fakeDoc) PageRefs() ([]PageRefs, error) {
	return d.pages, d.pageErr
}

type oracleCall struct {
	page, exclude int
}

// fakeOracle returns fixed page text and records its calls
type fakeOracle struct {
	text  map[int]string
	err   error
	calls []oracleCall
}

func (o *fakeOracle) PageText(page, exclude int) (string, error) {
	o.calls = append(o.calls, oracleCall{page, exclude})
	if o.err != nil {
		return "", o.err
	}
	return o.text[page], nil
}

var errOracle = errors.New("oracle failed")

func contentStream(s string) *core.Stream {
	return &core.Stream{Dict: core.Dict{}, Data: []byte(s)}
}
