package origin

import "encoding/json"

// List is an ordered sequence of Origins, index 0 being the most recently
// successful. Duplicates are tolerated on decode but skipped during
// candidate generation.
type List []Origin

// CookieName is the name of the client cookie carrying the JSON-encoded
// List.
const CookieName = "proxyTargets"

// DecodeList parses a proxyTargets cookie value. An empty or malformed
// value decodes to an empty List rather than an error, matching the
// resolver's "absent -> empty list" contract; leading empty entries are
// dropped per the list's invariants.
func DecodeList(value string) List {
	if value == "" {
		return nil
	}
	var raw []string
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil
	}

	list := make(List, 0, len(raw))
	for _, s := range raw {
		if s == "" {
			continue
		}
		list = append(list, Origin(s))
	}
	return list
}

// Encode renders l as the JSON array stored in the proxyTargets cookie.
func (l List) Encode() (string, error) {
	strs := make([]string, len(l))
	for i, o := range l {
		strs[i] = string(o)
	}
	b, err := json.Marshal(strs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// PromoteTruncate implements the list-mutation rule for a successful
// response from list-index k > 0: entries [0, k) are discarded.
func (l List) PromoteTruncate(k int) List {
	if k <= 0 || k >= len(l) {
		return l
	}
	return l[k:]
}

// Prepend implements the list-mutation rule for a successful GET/HTML
// response from an origin with list-index -1: o is prepended unless it is
// already the list's head.
func (l List) Prepend(o Origin) List {
	if len(l) > 0 && l[0] == o {
		return l
	}
	next := make(List, 0, len(l)+1)
	next = append(next, o)
	next = append(next, l...)
	return next
}
