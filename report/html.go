package report

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/pdfrev/analysis"
)

const stylesheet = `body{font-family:sans-serif;margin:2em}
table{border-collapse:collapse;margin-bottom:1em}
td,th{border:1px solid #ccc;padding:0.2em 0.6em;text-align:left}
.overlay{background:#fdd}
.high{color:#b00}.medium{color:#b60}.low{color:#555}`

// HTML writes rep as a standalone HTML page
func HTML(w io.Writer, rep *analysis.Report) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	head := element(atom.Head,
		withAttr(element(atom.Meta), "charset", "utf-8"),
		element(atom.Title, text("PDF revision report")),
		element(atom.Style, text(stylesheet)),
	)
	body := element(atom.Body, element(atom.H1, text("PDF revision report")))
	body.AppendChild(summaryTable(rep))

	body.AppendChild(element(atom.H2, text("Revisions")))
	body.AppendChild(revisionTable(rep))

	if len(rep.Modifications) > 0 {
		body.AppendChild(element(atom.H2, text("Modified objects")))
		for _, mod := range rep.Modifications {
			body.AppendChild(element(atom.H3, text(objectHeading(mod))))
			if len(mod.Texts) > 0 {
				body.AppendChild(textTable(mod.Texts))
			}
		}
	}

	if len(rep.Patterns) > 0 {
		body.AppendChild(element(atom.H2, text("Patterns")))
		list := element(atom.Ul)
		for _, p := range rep.Patterns {
			item := element(atom.Li, text(fmt.Sprintf("[%s] %s: %s", p.Severity, p.Type, p.Description)))
			list.AppendChild(withAttr(item, "class", p.Severity.String()))
		}
		body.AppendChild(list)
	}

	if len(rep.Skipped) > 0 || rep.PageMapError != "" {
		body.AppendChild(element(atom.H2, text("Diagnostics")))
		list := element(atom.Ul)
		for _, s := range rep.Skipped {
			list.AppendChild(element(atom.Li, text(s.String())))
		}
		if rep.PageMapError != "" {
			list.AppendChild(element(atom.Li, text("page map unavailable: "+rep.PageMapError)))
		}
		body.AppendChild(list)
	}

	doc.AppendChild(withAttr(element(atom.Html, head, body), "lang", "en"))

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}

func summaryTable(rep *analysis.Report) *html.Node {
	return element(atom.Table,
		row(atom.Th, "Revisions", strconv.Itoa(len(rep.Revisions))),
		row(atom.Th, "Modified objects", strconv.Itoa(rep.TotalModified)),
		row(atom.Th, "Confidence", strconv.FormatFloat(rep.Confidence, 'f', 2, 64)),
	)
}

func revisionTable(rep *analysis.Report) *html.Node {
	table := element(atom.Table, row(atom.Th, "#", "Start", "End", "Sections", "startxref"))
	for _, rev := range rep.Revisions {
		table.AppendChild(row(atom.Td,
			strconv.Itoa(rev.Index),
			strconv.FormatInt(rev.Start, 10),
			strconv.FormatInt(rev.End, 10),
			strconv.Itoa(len(rev.XRefOffsets)),
			strconv.FormatInt(rev.StartXRef, 10),
		))
	}
	return table
}

func textTable(texts []analysis.TextModification) *html.Node {
	table := element(atom.Table, row(atom.Th, "Kind", "Text", "X", "Y", "Font"))
	for _, t := range texts {
		content := t.Text
		if t.Kind == analysis.Overlay {
			content += " (over " + t.Overlaid + ")"
		}
		tr := row(atom.Td,
			t.Kind.String(),
			content,
			strconv.FormatFloat(t.X, 'f', 1, 64),
			strconv.FormatFloat(t.Y, 'f', 1, 64),
			t.Font,
		)
		if t.Kind == analysis.Overlay {
			withAttr(tr, "class", "overlay")
		}
		table.AppendChild(tr)
	}
	return table
}

// element builds a node from a tag and its children
func element(a atom.Atom, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

// withAttr adds an attribute and returns the node
func withAttr(n *html.Node, key, val string) *html.Node {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// row builds a table row whose cells all use the cell tag
func row(cell atom.Atom, values ...string) *html.Node {
	tr := element(atom.Tr)
	for _, v := range values {
		tr.AppendChild(element(cell, text(v)))
	}
	return tr
}
