package cloud

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
)

// Sign computes the Cloudinary request signature: the SHA-1 hex digest of the
// signed parameters sorted by name, joined as k=v pairs with '&', followed by
// the API secret. Empty values and unsigned parameters are skipped.
func Sign(params map[string]string, apiSecret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if unsignedParams[k] || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + apiSecret))
	return hex.EncodeToString(sum[:])
}

// NamedTransformation returns the transformation parameter that applies the
// named transformation name. Names already carrying the t_ prefix pass through.
func NamedTransformation(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, namedTransformationPre) {
		return name
	}
	return namedTransformationPre + name
}
