package auth

import (
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/jrsteele09/go-valorant-client/session"
)

// recordingJar is a cookie jar that remembers the full name/value/domain/path
// tuples it has seen so they can be folded back into a session afterwards.
// Entries are only ever overwritten, never removed: the provider's cookies
// move the device state forward and a rollback would invalidate it.
type recordingJar struct {
	mu      sync.Mutex
	cookies map[string]session.Cookie // keyed by domain + name
}

var _ http.CookieJar = (*recordingJar)(nil)

func newRecordingJar() *recordingJar {
	return &recordingJar{cookies: make(map[string]session.Cookie)}
}

func (j *recordingJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, c := range cookies {
		domain := strings.TrimPrefix(c.Domain, ".")
		if domain == "" {
			domain = u.Hostname()
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		j.cookies[domain+"\x00"+c.Name] = session.Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: domain,
			Path:   path,
		}
	}
}

func (j *recordingJar) Cookies(u *url.URL) []*http.Cookie {
	host := u.Hostname()
	path := u.Path
	if path == "" {
		path = "/"
	}
	var out []*http.Cookie
	for _, c := range j.all() {
		if domainMatches(host, c.Domain) && pathMatches(path, c.Path) {
			out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	return out
}

// seed loads cookies carried over from a stored session.
func (j *recordingJar) seed(cookies []session.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, c := range cookies {
		j.cookies[c.Domain+"\x00"+c.Name] = c
	}
}

// all returns every recorded cookie in a stable order.
func (j *recordingJar) all() []session.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]session.Cookie, 0, len(j.cookies))
	for _, c := range j.cookies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].Domain != out[k].Domain {
			return out[i].Domain < out[k].Domain
		}
		return out[i].Name < out[k].Name
	})
	return out
}

func domainMatches(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// pathMatches implements RFC 6265 path matching: the cookie path must be the
// request path or a directory prefix of it.
func pathMatches(requestPath, cookiePath string) bool {
	if !strings.HasPrefix(requestPath, cookiePath) {
		return false
	}
	return requestPath == cookiePath ||
		strings.HasSuffix(cookiePath, "/") ||
		requestPath[len(cookiePath)] == '/'
}
