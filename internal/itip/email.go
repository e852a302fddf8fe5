package itip

import "strings"

// AccountSet is the locally-owned address set an extraction is run against
// (spec.md §4.A: "Classification compares against the account address set
// by exact normalized-string equality."). It is built once per extraction
// from the caller's []string so every Classify/FromURI call is an O(1) map
// lookup rather than a scan — a performance refinement only, the equality
// semantics are unchanged from the spec.
type AccountSet map[string]struct{}

// NewAccountSet normalizes every address the same way Classify does, so
// membership tests never have to re-normalize the account side.
func NewAccountSet(addresses []string) AccountSet {
	set := make(AccountSet, len(addresses))
	for _, addr := range addresses {
		norm := normalizeAddress(addr)
		if norm != "" {
			set[norm] = struct{}{}
		}
	}
	return set
}

func normalizeAddress(text string) string {
	s := strings.TrimSpace(text)
	if i := strings.Index(strings.ToLower(s), "mailto:"); i == 0 {
		s = s[len("mailto:"):]
	}
	s = strings.TrimSpace(s)
	return strings.ToLower(s)
}

// Classify parses a bare address or "mailto:" URI and decides local vs
// remote against accounts (spec.md §4.A). It returns false for empty or
// unparsable input — there is no partial Email.
func Classify(text string, accounts AccountSet) (Email, bool) {
	addr := normalizeAddress(text)
	if addr == "" {
		return Email{}, false
	}
	_, local := accounts[addr]
	return Email{Address: addr, IsLocal: local}, true
}

// FromURI extracts the address portion of a calendar URI (DELEGATED-FROM,
// DELEGATED-TO, SENT-BY parameter values are calendar URIs, almost always
// "mailto:" form) and classifies it the same way Classify does.
func FromURI(uri string, accounts AccountSet) (Email, bool) {
	return Classify(uri, accounts)
}
