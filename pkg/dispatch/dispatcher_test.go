package dispatch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/relayhq/originproxy/pkg/origin"
	"github.com/relayhq/originproxy/pkg/ratelimit"
)

func fingerprint() ratelimit.Fingerprint {
	return ratelimit.Fingerprint{ClientIP: "1.2.3.4", UserAgent: "test", Origin: "", Path: "/"}
}

func TestDispatchFirstSuccessWins(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(200)
		w.Write([]byte("ok"))
	}))
	defer upstream.Close()

	d := New(ratelimit.New(3*time.Second, 10))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resolution := origin.Resolution{
		Candidates:   []origin.Candidate{{Origin: origin.Origin(upstream.URL), ListIndex: -1}},
		UpstreamPath: "/",
	}

	out, err := d.Dispatch(context.Background(), req, resolution, fingerprint())
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if out.StatusCode != 200 || string(out.Body) != "ok" {
		t.Errorf("Outcome = %+v, want 200/ok", out)
	}
	if out.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", out.Attempts)
	}
}

func TestDispatchFallsBackOnFailure(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(503)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("good"))
	}))
	defer good.Close()

	d := New(ratelimit.New(3*time.Second, 10))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resolution := origin.Resolution{
		Candidates: []origin.Candidate{
			{Origin: origin.Origin(bad.URL), ListIndex: 0},
			{Origin: origin.Origin(good.URL), ListIndex: 1},
		},
		UpstreamPath: "/",
	}

	out, err := d.Dispatch(context.Background(), req, resolution, fingerprint())
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if out.StatusCode != 200 || string(out.Body) != "good" {
		t.Errorf("Outcome = %+v, want 200/good", out)
	}
	if out.Chosen.ListIndex != 1 {
		t.Errorf("Chosen.ListIndex = %d, want 1", out.Chosen.ListIndex)
	}
}

func TestDispatchReturnsProvisionalWhenAllFail(t *testing.T) {
	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(503)
		w.Write([]byte("first-failure"))
	}))
	defer first.Close()
	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer second.Close()

	d := New(ratelimit.New(3*time.Second, 10))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resolution := origin.Resolution{
		Candidates: []origin.Candidate{
			{Origin: origin.Origin(first.URL), ListIndex: 0},
			{Origin: origin.Origin(second.URL), ListIndex: 1},
		},
		UpstreamPath: "/",
	}

	out, err := d.Dispatch(context.Background(), req, resolution, fingerprint())
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if out.StatusCode != 503 || string(out.Body) != "first-failure" {
		t.Errorf("Outcome = %+v, want the first (provisional) response", out)
	}
}

func TestDispatchNoCandidatesFails(t *testing.T) {
	d := New(ratelimit.New(3*time.Second, 10))
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := d.Dispatch(context.Background(), req, origin.Resolution{}, fingerprint())
	if _, ok := err.(*NoCandidatesError); !ok {
		t.Errorf("err = %v, want *NoCandidatesError", err)
	}
}

func TestDispatchRateLimitedShortCircuits(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer upstream.Close()

	limiter := ratelimit.New(3*time.Second, 0)
	d := New(limiter)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resolution := origin.Resolution{
		Candidates:   []origin.Candidate{{Origin: origin.Origin(upstream.URL), ListIndex: -1}},
		UpstreamPath: "/",
	}

	_, err := d.Dispatch(context.Background(), req, resolution, fingerprint())
	if _, ok := err.(*RateLimitedError); !ok {
		t.Errorf("err = %v, want *RateLimitedError", err)
	}
}

func TestDispatchInvalidUpstreamURL(t *testing.T) {
	d := New(ratelimit.New(3*time.Second, 10))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resolution := origin.Resolution{
		Candidates:   []origin.Candidate{{Origin: origin.Origin("not-a-url"), ListIndex: -1}},
		UpstreamPath: "/",
	}

	_, err := d.Dispatch(context.Background(), req, resolution, fingerprint())
	if _, ok := err.(*InvalidUpstreamURLError); !ok {
		t.Errorf("err = %v, want *InvalidUpstreamURLError", err)
	}
}

func TestRelayBodyRewritesTextual(t *testing.T) {
	body := []byte(`<a href="https://example.com/x">`)
	got := RelayBody("text/html", body, "proxy.local")
	want := `<a href="http://proxy.local/https.example.com/x">`
	if string(got) != want {
		t.Errorf("RelayBody() = %q, want %q", got, want)
	}
}

func TestRelayBodyLeavesBinaryAlone(t *testing.T) {
	body := []byte{0xff, 0xd8, 0xff}
	got := RelayBody("image/png", body, "proxy.local")
	if string(got) != string(body) {
		t.Errorf("RelayBody() mutated binary body")
	}
}
