package store

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/amishk599/jobcal/internal/model"
)

// trackingParams are query keys that never identify a posting.
var trackingParams = map[string]bool{
	"gclid":   true,
	"fbclid":  true,
	"msclkid": true,
	"mc_cid":  true,
	"mc_eid":  true,
	"mkt_tok": true,
}

// CanonicalURL returns the key postings are stored under: scheme and host
// lower-cased, fragment dropped, tracking parameters removed and the query
// sorted.
func CanonicalURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("canonical url %q: %w", raw, model.ErrInvalidURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || trackingParams[lk] {
			q.Del(k)
		}
	}

	// Encode sorts keys; sort multi-values too for a stable key.
	for k := range q {
		vals := q[k]
		sort.Strings(vals)
		q[k] = vals
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
