package pipeline

import (
	"net/url"
	"strings"

	"github.com/samber/lo"

	"newsdigest/internal/model"
)

// CanonicalURL normalizes a url for identity comparison: scheme and host are
// lowercased, the fragment is dropped, tracking query parameters are removed,
// and a trailing path slash is trimmed. Strings that do not parse as absolute
// urls are compared verbatim. Stored rows keep the original url untouched;
// canonicalization happens only at compare time.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")

	q := u.Query()
	for key := range q {
		lower := strings.ToLower(key)
		if strings.HasPrefix(lower, "utm_") || lower == "fbclid" || lower == "gclid" {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// Dedup returns the candidates whose canonical url is not in existing, order
// preserved. Candidates repeating a url already accepted earlier in the same
// batch are dropped too.
func Dedup(candidates []model.NewsItem, existing []string) []model.NewsItem {
	seen := make(map[string]struct{}, len(existing))
	for _, u := range existing {
		seen[CanonicalURL(u)] = struct{}{}
	}

	return lo.Filter(candidates, func(item model.NewsItem, _ int) bool {
		key := CanonicalURL(item.URL)
		if _, ok := seen[key]; ok {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
}
