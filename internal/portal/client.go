package portal

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"sunscrape/internal/components/telemetry"
	"sunscrape/internal/roster"
	"sunscrape/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/time/rate"
)

const (
	report_client_request = "client.request"
)

const DefaultBaseURL = "https://dos.elections.myflorida.com"

type Options struct {
	BaseURL string
	// Timeout bounds page requests, DownloadTimeout bounds roster extracts.
	Timeout         time.Duration
	DownloadTimeout time.Duration
	// RequestsPerSecond of 0 disables rate limiting.
	RequestsPerSecond float64
	UserAgent         string
	// DumpDir, when set, receives a copy of every request and response.
	DumpDir string
}

func DefaultOptions() Options {
	return Options{
		BaseURL:           DefaultBaseURL,
		Timeout:           30 * time.Second,
		DownloadTimeout:   60 * time.Second,
		RequestsPerSecond: 2,
		UserAgent:         "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36",
	}
}

// Client talks to the Florida Division of Elections portal. Requests are made
// one at a time by the caller, nothing is retried.
type Client struct {
	http *resty.Client
	opts Options
	tel  telemetry.API
}

func NewClient(opts Options, tel telemetry.API) (*Client, error) {
	defaults := DefaultOptions()
	if opts.BaseURL == "" {
		opts.BaseURL = defaults.BaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.DownloadTimeout <= 0 {
		opts.DownloadTimeout = defaults.DownloadTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaults.UserAgent
	}

	baseUrl, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	tel = telemetry.NewScopedAPI("portal", tel)

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", opts.UserAgent)
	client.SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetHeader("accept-language", "en-US,en;q=0.9")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(max(opts.Timeout, opts.DownloadTimeout))

	if opts.RequestsPerSecond > 0 {
		// burst >= 1 just means that no requests will be dropped
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), max(1, int(opts.RequestsPerSecond)))
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(client, tel)

	if opts.DumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(opts.DumpDir)
		if err != nil {
			return nil, err
		}
		restyutil.Dump(client, output)
	}

	return &Client{http: client, opts: opts, tel: tel}, nil
}

// Resty exposes the underlying http client so tests can stub its transport.
func (c *Client) Resty() *resty.Client {
	return c.http
}

func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

type request struct {
	method  string
	path    string
	timeout time.Duration
	query   url.Values
	form    map[string]string
	referer string
}

// do performs `r` under its own deadline and returns the raw body. Network
// failures and non-2xx responses become a *TransportError.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	timeout := r.timeout
	if timeout <= 0 {
		timeout = c.opts.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := c.http.R().SetContext(ctx)
	if r.query != nil {
		req.SetQueryParamsFromValues(r.query)
	}
	if r.form != nil {
		req.SetFormData(r.form)
		req.SetHeader("origin", c.http.BaseURL)
	}
	if r.referer != "" {
		req.SetHeader("referer", c.http.BaseURL+r.referer)
	}

	fullUrl := c.http.BaseURL + r.path
	res, err := req.Execute(r.method, r.path)
	if err != nil {
		c.tel.ReportWarning(report_client_request, err, r.method, fullUrl)
		return nil, &TransportError{Method: r.method, URL: fullUrl, Err: err}
	}
	if !res.IsSuccess() {
		c.tel.ReportWarning(report_client_request, fmt.Errorf("status %d", res.StatusCode()), r.method, fullUrl)
		return nil, &TransportError{Method: r.method, URL: fullUrl, Status: res.StatusCode()}
	}
	return res.Body(), nil
}

func (c *Client) document(ctx context.Context, r request) (*goquery.Document, error) {
	body, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(decode(body)))
	if err != nil {
		return nil, &roster.FormatError{Source: r.path, Reason: fmt.Sprintf("parse html: %s", err.Error())}
	}
	return doc, nil
}

// decode returns `body` as text. The portal's extracts are usually UTF-8 but
// older rows are Windows-1252, which is used whenever the bytes are not valid
// UTF-8.
func decode(body []byte) string {
	if utf8.Valid(body) {
		return string(body)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(body)
	if err != nil {
		return strings.ToValidUTF8(string(body), "\uFFFD")
	}
	return string(decoded)
}
