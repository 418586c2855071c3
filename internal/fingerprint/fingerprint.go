package fingerprint

import (
	"fmt"
	"strings"

	"github.com/rohmanhakim/serp-aggregator/pkg/hashutil"
)

// Query returns a deterministic 128-bit (32 hex char) fingerprint for a
// query's cache identity, combining the normalized query with the
// parameters that change what upstream would return for it. Two queries
// that differ only in letter case or internal whitespace normalize to the
// same fingerprint.
func Query(query, country, language string, maxPages int) (string, error) {
	key := fmt.Sprintf("%s|%s|%s|%d", normalizeQuery(query), country, language, maxPages)

	digest, err := hashutil.HashBytes([]byte(key), hashutil.HashAlgoBLAKE3)
	if err != nil {
		return "", err
	}

	return digest[:32], nil
}

// normalizeQuery folds case and collapses runs of internal whitespace so
// "Go Tutorial" and "go  tutorial" hash identically.
func normalizeQuery(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}
