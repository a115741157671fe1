package restyutil

import (
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type Output interface {
	Write(id string, contents string)
}

var unsafePathRegex = regexp.MustCompile(`[^A-Za-z0-9.]+`)

func messageId(n uint64, res *resty.Response) string {
	path := ""
	if res.Request.RawRequest != nil {
		path = res.Request.RawRequest.URL.Path
	}
	path = strings.Trim(unsafePathRegex.ReplaceAllString(path, "_"), "_")
	if path == "" {
		return fmt.Sprintf("%04d.txt", n)
	}
	return fmt.Sprintf("%04d_%s.txt", n, path)
}

// Dump writes the request and response of every exchange `client` completes
// to `output`, numbered in the order they finish.
func Dump(client *resty.Client, output Output) {
	var counter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		n := atomic.AddUint64(&counter, 1)
		output.Write(messageId(n, res), formatHttpMessage(res))
		return nil
	})
}
