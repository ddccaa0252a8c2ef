package utils

import (
	"net/url"
	"strings"

	"golang.org/x/xerrors"
)

// ResolveURL resolves ref against base the way a browser follows a link.
// Absolute references are returned unchanged.
func ResolveURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", xerrors.Errorf("invalid base URL %q: %w", base, err)
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", xerrors.Errorf("invalid reference %q: %w", ref, err)
	}
	return b.ResolveReference(r).String(), nil
}
