// Package htmlimport reads an existing results table out of an HTML document.
//
// Every element carrying the uomTrack class is examined in document order.
// Elements that are not tables are reported back as skipped; the first table
// supplies the caption and body rows.
package htmlimport

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/okian/trackboard/internal/domain/model"
	"github.com/okian/trackboard/internal/domain/schema"
)

// ClassName marks the tables to import.
const ClassName = "uomTrack"

// Result is what an import found.
type Result struct {
	Caption string
	Rows    []model.Row
	// Skipped holds the tag names of uomTrack elements that are not tables.
	Skipped []string
	// Tables is the number of uomTrack tables found; only the first is used.
	Tables int
}

// Parse reads r and extracts the first uomTrack table. It returns ErrNoTable
// when the document has no uomTrack table, along with whatever was skipped.
func Parse(r io.Reader) (Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var (
		res   Result
		first *html.Node
	)
	for _, n := range findByClass(doc, ClassName) {
		if n.DataAtom != atom.Table {
			res.Skipped = append(res.Skipped, n.Data)
			continue
		}
		res.Tables++
		if first == nil {
			first = n
		}
	}
	if first == nil {
		return res, ErrNoTable
	}

	res.Caption = caption(first)
	res.Rows = bodyRows(first)
	return res, nil
}

func findByClass(root *html.Node, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, class) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, f := range strings.Fields(a.Val) {
			if f == class {
				return true
			}
		}
	}
	return false
}

func caption(table *html.Node) string {
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom == atom.Caption {
			return strings.TrimSpace(text(c))
		}
	}
	return ""
}

// bodyRows reads the rows of every tbody directly under table, skipping rows
// of nested tables.
func bodyRows(table *html.Node) []model.Row {
	rows := []model.Row{}
	for section := table.FirstChild; section != nil; section = section.NextSibling {
		if section.DataAtom != atom.Tbody {
			continue
		}
		for tr := section.FirstChild; tr != nil; tr = tr.NextSibling {
			if tr.DataAtom != atom.Tr {
				continue
			}
			rows = append(rows, rowFrom(tr))
		}
	}
	return rows
}

// rowFrom maps the td cells of tr positionally onto a row. Missing cells get
// the column placeholder and extra cells are dropped.
func rowFrom(tr *html.Node) model.Row {
	vals := schema.PlaceholderRow()
	i := 0
	for td := tr.FirstChild; td != nil && i < schema.Count; td = td.NextSibling {
		if td.DataAtom != atom.Td {
			continue
		}
		vals[i] = cellValue(td)
		i++
	}
	return model.RowFromValues(vals)
}

// cellValue prefers the value of an input already placed in the cell.
func cellValue(td *html.Node) string {
	if in := firstElement(td, atom.Input); in != nil {
		for _, a := range in.Attr {
			if a.Key == "value" {
				return a.Val
			}
		}
	}
	return strings.TrimSpace(text(td))
}

func firstElement(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
		if found := firstElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// text concatenates the text nodes under n, ignoring buttons.
func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if n.DataAtom == atom.Button {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
