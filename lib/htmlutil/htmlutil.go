package htmlutil

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"unicode"

	"sunscrape/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("sunscrape/htmlutil")

// GetText concatenates every text node under `node` in document order.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CellText returns the printable text of the first node in `sel` with line
// breaks removed and whitespace collapsed.
func CellText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return textutil.StripBreaks(removeNonPrintable(GetText(sel.Nodes[0])))
}

// Rows returns the <td> cells of every <tr> in `table`, one slice per row.
// Header cells are not included.
func Rows(table *goquery.Selection) [][]*goquery.Selection {
	var rows [][]*goquery.Selection
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []*goquery.Selection
		tr.ChildrenFiltered("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, td)
		})
		rows = append(rows, cells)
	})
	return rows
}

type Anchor struct {
	Name string
	Href string
	Link *url.URL
}

func GetAnchors(ctx context.Context, sel *goquery.Selection) []Anchor {
	_, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}

		link, err := url.Parse(href)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing url")
			continue
		}

		name := textutil.StripBreaks(removeNonPrintable(GetText(n)))
		anchors = append(anchors, Anchor{
			Name: name,
			Href: href,
			Link: link,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", name),
			attribute.String("url", link.String()),
		))
	}

	return anchors
}
