package dispatch

import (
	"bytes"
	"io"
)

// maxTeeBody bounds how much of a request body dispatch will buffer for
// replay across candidates. Above this size, fallback is unavailable for
// the body: only the first candidate sees it, streamed in full.
const maxTeeBody = 32 << 20 // 32MiB

// bodyTee buffers an incoming request body once so each candidate attempt
// can replay it independently. Candidates are attempted strictly
// sequentially (§5), so a buffer-then-replay tee is equivalent to a live
// fan-out without the concurrent-reader bookkeeping.
type bodyTee struct {
	buf      []byte
	rest     io.Reader
	oversize bool
}

// newBodyTee reads src fully, up to maxTeeBody+1 bytes. If src is nil the
// tee has no body at all (GET/HEAD/TRACE per §4.4.1). If src is larger,
// its unread remainder is kept for the first attempt.
func newBodyTee(src io.Reader) (*bodyTee, error) {
	if src == nil {
		return &bodyTee{}, nil
	}

	limited := io.LimitReader(src, maxTeeBody+1)
	buf, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}

	t := &bodyTee{buf: buf}
	if len(buf) > maxTeeBody {
		t.rest = src
		t.oversize = true
	}
	return t, nil
}

// branch returns a fresh reader over the buffered body for one candidate
// attempt, or nil if there is no body. attemptIndex is the candidate's
// position in the fallback order; per the oversize bound, only the first
// attempt gets the body.
func (t *bodyTee) branch(attemptIndex int) io.Reader {
	if t.buf == nil {
		return nil
	}
	if t.oversize {
		if attemptIndex > 0 {
			return nil
		}
		return io.MultiReader(bytes.NewReader(t.buf), t.rest)
	}
	return bytes.NewReader(t.buf)
}
