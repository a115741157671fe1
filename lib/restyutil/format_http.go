package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
)

const noBody = "<NO BODY>"

func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, v := range headers[k] {
			lines = append(lines, k+": "+v)
		}
	}
	return strings.Join(lines, "\n")
}

// requestBody replays the body of `req`. Requests without a body (GET) have
// either no GetBody or one that yields a nil reader.
func requestBody(req *http.Request) string {
	if req == nil || req.GetBody == nil {
		return noBody
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("<UNREADABLE BODY: %v>", err)
	}
	if body == nil || body == http.NoBody {
		return noBody
	}
	defer body.Close()

	contents, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("<UNREADABLE BODY: %v>", err)
	}
	if len(contents) == 0 {
		return noBody
	}
	return string(contents)
}

// finalUrl is the Location the portal sent back, or the requested url.
func finalUrl(res *resty.Response) string {
	if res.RawResponse != nil {
		if location, err := res.RawResponse.Location(); err == nil {
			return location.String()
		}
	}
	return res.Request.URL
}

type section struct {
	title   string
	heading string
	headers http.Header
	body    string
}

func (s section) writeTo(out *strings.Builder) {
	fmt.Fprintf(out, "---- %s ----\n\n%s\n", s.title, s.heading)
	if headers := formatHeaders(s.headers); headers != "" {
		out.WriteString("\n" + headers + "\n")
	}
	out.WriteString("\n" + s.body + "\n")
}

func formatHttpMessage(res *resty.Response) string {
	req := section{
		title:   "REQUEST",
		heading: res.Request.Method + " " + res.Request.URL,
		body:    noBody,
	}
	if raw := res.Request.RawRequest; raw != nil {
		req.headers = raw.Header
		req.body = requestBody(raw)
	}

	body := res.String()
	if body == "" {
		body = noBody
	}
	resp := section{
		title:   "RESPONSE",
		heading: fmt.Sprintf("%d %s", res.StatusCode(), finalUrl(res)),
		headers: res.Header(),
		body:    body,
	}

	var out strings.Builder
	req.writeTo(&out)
	out.WriteString("\n")
	resp.writeTo(&out)
	return out.String()
}
