package origin

// Candidate is one (origin, list-index) pair considered during upstream
// fallback. ListIndex is -1 when the candidate was not drawn from the
// client's remembered-origin list (absolute-in-path or fallback origin).
type Candidate struct {
	Origin    Origin
	ListIndex int
}

// Resolution is the OriginResolver's output for one incoming request.
type Resolution struct {
	Candidates   []Candidate
	UpstreamPath string
}

// Resolver decides, per incoming request, which upstream origin(s) to try
// and in what order.
type Resolver struct {
	Fallback Origin
}

// NewResolver creates a Resolver with the given fallback origin.
func NewResolver(fallback Origin) *Resolver {
	return &Resolver{Fallback: fallback}
}

// Resolve applies the resolution policy of §4.1 in priority order:
// absolute-in-path, then the proxyTargets cookie list, then the
// configured fallback.
func (r *Resolver) Resolve(path string, list List) Resolution {
	if o, upstreamPath, ok := SplitEncodedPath(path); ok {
		return Resolution{
			Candidates:   []Candidate{{Origin: o, ListIndex: -1}},
			UpstreamPath: upstreamPath,
		}
	}

	if len(list) > 0 {
		seen := make(map[Origin]bool, len(list))
		candidates := make([]Candidate, 0, len(list))
		for i, o := range list {
			if seen[o] {
				continue
			}
			seen[o] = true
			candidates = append(candidates, Candidate{Origin: o, ListIndex: i})
		}
		return Resolution{Candidates: candidates, UpstreamPath: path}
	}

	return Resolution{
		Candidates:   []Candidate{{Origin: r.Fallback, ListIndex: -1}},
		UpstreamPath: "/",
	}
}

// Mutate applies the post-dispatch list-mutation rules of §4.1 given the
// candidate the dispatcher ultimately used, the response status, the
// request method, and whether the response body is HTML.
func Mutate(list List, chosen Candidate, status int, method string, isHTML bool) List {
	success := status >= 200 && status < 300

	if success && chosen.ListIndex > 0 {
		list = list.PromoteTruncate(chosen.ListIndex)
	}

	if success && method == "GET" && isHTML && chosen.ListIndex == -1 {
		list = list.Prepend(chosen.Origin)
	}

	return list
}
