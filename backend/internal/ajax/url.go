package ajax

import (
	"fmt"
	"net/url"
)

// URL returns base with the action marker added to its query and, when set,
// the given extra query values.
func URL(base string, values url.Values) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid ajax base url %q: %w", base, err)
	}
	q := u.Query()
	q.Set(Marker, "true")
	for k, vs := range values {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
