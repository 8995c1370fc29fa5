// ABOUTME: Browser fingerprint profiles and the selection policy used by the transport
// ABOUTME: The pool is an explicit, injectable object so tests can pin a single profile

package fingerprint

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
)

// Policy decides how a profile is chosen for each call
type Policy string

const (
	// PolicyFixed always uses the pinned profile (or the first one)
	PolicyFixed Policy = "fixed"

	// PolicyRandom picks uniformly from the pool on every call
	PolicyRandom Policy = "random"
)

// Profile describes the client a request should resemble. Name doubles as
// the key the transport uses to pick a TLS ClientHello.
type Profile struct {
	Name      string
	UserAgent string

	// Platform is the sec-ch-ua-platform value, empty for non-Chromium browsers
	Platform string

	Mobile bool

	// SecCHUA is the sec-ch-ua brand list, empty for non-Chromium browsers
	SecCHUA string
}

// Chromium reports whether the profile sends client hint headers
func (p Profile) Chromium() bool {
	return p.SecCHUA != ""
}

// DefaultProfiles mirrors the browsers the upstream is known to accept
func DefaultProfiles() []Profile {
	return []Profile{
		{
			Name:      "chrome124",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			Platform:  `"Windows"`,
			SecCHUA:   `"Chromium";v="124", "Google Chrome";v="124", "Not-A.Brand";v="99"`,
		},
		{
			Name:      "chrome120",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			Platform:  `"Windows"`,
			SecCHUA:   `"Not_A Brand";v="8", "Chromium";v="120", "Google Chrome";v="120"`,
		},
		{
			Name:      "chrome119",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
			Platform:  `"Windows"`,
			SecCHUA:   `"Google Chrome";v="119", "Chromium";v="119", "Not?A_Brand";v="24"`,
		},
		{
			Name:      "chrome110",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/110.0.0.0 Safari/537.36",
			Platform:  `"Windows"`,
			SecCHUA:   `"Chromium";v="110", "Not A(Brand";v="24", "Google Chrome";v="110"`,
		},
		{
			Name:      "safari18",
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_5) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.0 Safari/605.1.15",
		},
		{
			Name:      "firefox120",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:120.0) Gecko/20100101 Firefox/120.0",
		},
	}
}

// Named returns the default profiles whose names are listed, in list order.
// Unknown names are skipped; an empty list returns every default profile.
func Named(names []string) []Profile {
	defaults := DefaultProfiles()
	if len(names) == 0 {
		return defaults
	}
	out := make([]Profile, 0, len(names))
	for _, name := range names {
		for _, prof := range defaults {
			if strings.EqualFold(prof.Name, strings.TrimSpace(name)) {
				out = append(out, prof)
				break
			}
		}
	}
	return out
}

// Pool holds the candidate profiles and the selection policy. It is safe for
// concurrent use.
type Pool struct {
	profiles []Profile
	policy   Policy
	pinned   string

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Pool
type Option func(*Pool)

// WithPolicy sets the selection policy
func WithPolicy(policy Policy) Option {
	return func(p *Pool) { p.policy = policy }
}

// WithPinned pins a profile by name and switches the policy to fixed.
// An empty name is ignored.
func WithPinned(name string) Option {
	return func(p *Pool) {
		if name != "" {
			p.pinned = name
			p.policy = PolicyFixed
		}
	}
}

// WithSource sets the random source used by PolicyRandom
func WithSource(src rand.Source) Option {
	return func(p *Pool) { p.rng = rand.New(src) }
}

// NewPool creates a pool over profiles. An empty list falls back to
// DefaultProfiles.
func NewPool(profiles []Profile, opts ...Option) *Pool {
	if len(profiles) == 0 {
		profiles = DefaultProfiles()
	}
	p := &Pool{
		profiles: profiles,
		policy:   PolicyRandom,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Profiles returns the pool members
func (p *Pool) Profiles() []Profile {
	out := make([]Profile, len(p.profiles))
	copy(out, p.profiles)
	return out
}

// Lookup returns the profile with the given name
func (p *Pool) Lookup(name string) (Profile, bool) {
	for _, prof := range p.profiles {
		if strings.EqualFold(prof.Name, name) {
			return prof, true
		}
	}
	return Profile{}, false
}

// Pick selects a profile. A hint naming a pool member always wins; otherwise
// the configured policy decides.
func (p *Pool) Pick(hint string) Profile {
	if hint != "" {
		if prof, ok := p.Lookup(hint); ok {
			return prof
		}
	}

	if p.policy == PolicyFixed {
		if prof, ok := p.Lookup(p.pinned); ok {
			return prof
		}
		return p.profiles[0]
	}

	p.mu.Lock()
	i := p.rng.Intn(len(p.profiles))
	p.mu.Unlock()
	return p.profiles[i]
}

// Headers returns the header set a real browser with this profile would send
// for the given request kind
func Headers(prof Profile, kind domain.RequestKind) map[string]string {
	h := map[string]string{
		"User-Agent":      prof.UserAgent,
		"Accept-Language": "id-ID,id;q=0.9,en-US;q=0.8,en;q=0.7",
		"Accept-Encoding": "gzip, deflate, br",
		"Connection":      "keep-alive",
	}

	switch kind {
	case domain.RequestPage:
		h["Accept"] = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
		h["Upgrade-Insecure-Requests"] = "1"
		h["Sec-Fetch-Dest"] = "document"
		h["Sec-Fetch-Mode"] = "navigate"
		h["Sec-Fetch-Site"] = "none"
		h["Sec-Fetch-User"] = "?1"
	default:
		h["Accept"] = "application/json"
		h["Content-Type"] = "application/json"
		h["Origin"] = "https://www.tokopedia.com"
		h["Referer"] = "https://www.tokopedia.com/"
		h["X-Requested-With"] = "com.tokopedia.tokopedia"
		h["Sec-Fetch-Dest"] = "empty"
		h["Sec-Fetch-Mode"] = "cors"
		h["Sec-Fetch-Site"] = "same-site"
	}

	if prof.Chromium() {
		h["sec-ch-ua"] = prof.SecCHUA
		h["sec-ch-ua-platform"] = prof.Platform
		if prof.Mobile {
			h["sec-ch-ua-mobile"] = "?1"
		} else {
			h["sec-ch-ua-mobile"] = "?0"
		}
	}

	return h
}
