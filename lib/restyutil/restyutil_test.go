package restyutil

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	mutex    sync.Mutex
	messages map[string]string
}

func (m *memoryOutput) Write(id string, contents string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.messages[id] = contents
}

func TestDump(t *testing.T) {
	client := resty.New()
	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder(http.MethodPost, "https://portal.test/committees/ComLkupByName.asp",
		httpmock.NewStringResponder(http.StatusOK, "<table></table>"))
	httpmock.RegisterResponder(http.MethodGet, "https://portal.test/",
		httpmock.NewStringResponder(http.StatusNotFound, "missing"))

	out := &memoryOutput{messages: map[string]string{}}
	Dump(client, out)

	_, err := client.R().
		SetFormData(map[string]string{"comName": "Friends"}).
		Post("https://portal.test/committees/ComLkupByName.asp")
	require.NoError(t, err)
	_, err = client.R().Get("https://portal.test/")
	require.NoError(t, err)

	require.Len(t, out.messages, 2)
	message := out.messages["0001_committees_ComLkupByName.asp.txt"]
	require.Contains(t, message, "POST https://portal.test/committees/ComLkupByName.asp")
	require.Contains(t, message, "comName=Friends")
	require.Contains(t, message, "200 https://portal.test/committees/ComLkupByName.asp")
	require.Contains(t, message, "<table></table>")

	message = out.messages["0002.txt"]
	require.Contains(t, message, "GET https://portal.test/")
	require.Contains(t, message, "404 https://portal.test/")
	require.Contains(t, message, "missing")
	require.Contains(t, message, "---- REQUEST ----\n\nGET https://portal.test/\n")
}

func TestRequestBody(t *testing.T) {
	post, err := http.NewRequest(http.MethodPost, "https://portal.test/", strings.NewReader("a=1"))
	require.NoError(t, err)
	get, err := http.NewRequest(http.MethodGet, "https://portal.test/", nil)
	require.NoError(t, err)
	nilBody, err := http.NewRequest(http.MethodGet, "https://portal.test/", nil)
	require.NoError(t, err)
	nilBody.GetBody = func() (io.ReadCloser, error) { return nil, nil }
	failing, err := http.NewRequest(http.MethodGet, "https://portal.test/", nil)
	require.NoError(t, err)
	failing.GetBody = func() (io.ReadCloser, error) { return nil, errors.New("gone") }

	cases := []struct {
		name     string
		req      *http.Request
		expected string
	}{
		{name: "form", req: post, expected: "a=1"},
		{name: "no body", req: get, expected: noBody},
		{name: "nil reader", req: nilBody, expected: noBody},
		{name: "replay error", req: failing, expected: "<UNREADABLE BODY: gone>"},
		{name: "no request", req: nil, expected: noBody},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.expected, requestBody(c.req))
		})
	}
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dumps")
	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	out.Write("0001.txt", "hello")
	contents, err := os.ReadFile(filepath.Join(dir, "0001.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(contents))
}

func TestFormatHeaders(t *testing.T) {
	require.Equal(t, "", formatHeaders(http.Header{}))
	require.Equal(t, "Accept: a\nReferer: b", formatHeaders(http.Header{"Referer": {"b"}, "Accept": {"a"}}))
}
