package veganify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/unkn0wn-root/veganify/internal/schema"
)

// requestOptions shape a single call.
type requestOptions struct {
	Op     string // label for errors, logs and hooks, e.g. "product lookup"
	Method string // "" => GET
	Path   string // appended to the URL verbatim, see setVerbatimPath
	Header http.Header
	Body   io.Reader
}

// fetcher performs exactly one HTTP attempt per call and trusts nothing it
// has not checked against a schema.
type fetcher struct {
	hc     *http.Client
	header http.Header // sent on every request, below per-call headers
	log    Logger
	hooks  Hooks
	now    func() time.Time
}

func newFetcher(hc *http.Client, header http.Header, log Logger, hooks Hooks) *fetcher {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &fetcher{
		hc:     hc,
		header: header.Clone(),
		log:    coalesce[Logger](log, NopLogger{}),
		hooks:  coalesce[Hooks](hooks, NopHooks{}),
		now:    time.Now,
	}
}

// fetchValidated issues the request and returns the decoded body.
//
//   - non-2xx: *Error via statusError (404 NotFound, 400 Validation, else Service)
//   - transport, body read and JSON syntax errors: returned unchanged
//   - schema mismatch: Validation wrapping the *schema.Violation
func fetchValidated[T any](ctx context.Context, f *fetcher, url string, s schema.Node, opts requestOptions) (T, error) {
	var zero T

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, url, opts.Body)
	if err != nil {
		return zero, err
	}
	if opts.Path != "" {
		setVerbatimPath(req.URL, opts.Path)
		url += opts.Path
	}
	req.Header.Set("Accept", "application/json")
	mergeHeader(req.Header, f.header)
	mergeHeader(req.Header, opts.Header)

	start := f.now()
	resp, err := f.hc.Do(req)
	if err != nil {
		f.done(opts.Op, method, url, 0, start, err)
		return zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		serr := statusError(opts.Op, resp.StatusCode)
		f.done(opts.Op, method, url, resp.StatusCode, start, serr)
		return zero, serr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.done(opts.Op, method, url, resp.StatusCode, start, err)
		return zero, err
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		f.done(opts.Op, method, url, resp.StatusCode, start, err)
		return zero, err
	}
	if err := schema.Validate(s, doc); err != nil {
		verr := validationError(opts.Op+": invalid response", err)
		f.done(opts.Op, method, url, resp.StatusCode, start, verr)
		return zero, verr
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		verr := validationError(opts.Op+": invalid response", err)
		f.done(opts.Op, method, url, resp.StatusCode, start, verr)
		return zero, verr
	}
	f.done(opts.Op, method, url, resp.StatusCode, start, nil)
	return out, nil
}

func (f *fetcher) done(op, method, url string, status int, start time.Time, err error) {
	elapsed := f.now().Sub(start)
	f.hooks.RequestDone(op, status, elapsed, err)
	fields := Fields{"op": op, "method": method, "url": url, "status": status, "elapsed": elapsed}
	if err != nil {
		fields["err"] = err
		f.log.Warn("request failed", fields)
		return
	}
	f.log.Debug("request done", fields)
}

// setVerbatimPath appends p to the path of u without decoding it, so a bare
// '%' in an ingredient reaches the service unchanged. Only bytes that cannot
// appear on a request line are percent-encoded. As with plain string
// concatenation, a '?' in p starts the query and a '#' ends what is sent.
func setVerbatimPath(u *neturl.URL, p string) {
	p, _, _ = strings.Cut(p, "#")
	p, q, hasQuery := strings.Cut(p, "?")
	u.Opaque = u.EscapedPath() + escapeUnsafe(p)
	if hasQuery {
		u.RawQuery = escapeUnsafe(q)
		u.ForceQuery = q == ""
	}
}

func escapeUnsafe(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c <= ' ' || c >= 0x7f,
			c == '"', c == '<', c == '>', c == '`', c == '{', c == '}':
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&15])
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// mergeHeader copies src into dst, replacing keys already set in dst.
func mergeHeader(dst, src http.Header) {
	for k, vs := range src {
		dst.Del(k)
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
}
