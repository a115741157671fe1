package htmlutil

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const page = `<table>
	<tr><th>Name</th><th>Status</th></tr>
	<tr><td><a href="ComDetail.asp?account=1">FRIENDS OF
		RON</a></td><td>Active&nbsp;</td></tr>
	<tr><td>only</td></tr>
</table>`

func TestRowsAndCells(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	rows := Rows(doc.Find("table"))
	require.Len(t, rows, 3)
	require.Empty(t, rows[0])
	require.Len(t, rows[1], 2)
	require.Equal(t, "FRIENDS OF RON", CellText(rows[1][0]))
	require.Equal(t, "Active", CellText(rows[1][1]))
	require.Equal(t, "only", CellText(rows[2][0]))
	require.Equal(t, "", CellText(doc.Find("select")))

	anchors := GetAnchors(context.Background(), doc.Find("a"))
	require.Len(t, anchors, 1)
	require.Equal(t, "FRIENDS OF RON", anchors[0].Name)
	require.Equal(t, "1", anchors[0].Link.Query().Get("account"))
}

func TestRemoveNonPrintable(t *testing.T) {
	require.Equal(t, "a b", removeNonPrintable("a\x00 b\u200b"))
}
