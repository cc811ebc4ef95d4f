package archive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pdiddy/archive-engine/internal/httputil"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

func TestVerifyLinks(t *testing.T) {
	s, _ := setupArchive(t)
	ctx := context.Background()

	var flakyCalls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/flaky":
			if atomic.AddInt32(&flakyCalls, 1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	digitized := func(title, link string) {
		doc := plainDoc(title)
		doc.IsDigitized = true
		doc.DigitizedVersionLink = link
		mustCreate(t, s, doc)
	}

	digitized("Scanned minutes", ts.URL+"/ok")
	digitized("Lost scan", ts.URL+"/gone")
	digitized("Rate limited scan", ts.URL+"/flaky")
	mustCreate(t, s, plainDoc("Paper only"))

	stale := plainDoc("Disabled scan")
	stale.IsDigitized = true
	stale.DigitizedVersionLink = ts.URL + "/ok"
	staleDoc := mustCreate(t, s, stale)
	if err := s.Disable(ctx, staleDoc.ID, ""); err != nil {
		t.Fatalf("disable: %v", err)
	}

	report, err := s.VerifyLinks(ctx, ts.Client())
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if len(report) != 3 {
		t.Fatalf("expected 3 probes, got %d: %+v", len(report), report)
	}
	byTitle := map[string]LinkStatus{}
	for _, entry := range report {
		byTitle[entry.Title] = entry
	}

	if entry := byTitle["Scanned minutes"]; !entry.OK {
		t.Errorf("ok link reported broken: %+v", entry)
	}
	if entry := byTitle["Lost scan"]; entry.OK || entry.Detail != "404 Not Found" {
		t.Errorf("missing link: %+v", entry)
	}
	if entry := byTitle["Rate limited scan"]; !entry.OK {
		t.Errorf("flaky link not retried: %+v", entry)
	}
	if atomic.LoadInt32(&flakyCalls) != 2 {
		t.Errorf("flaky endpoint called %d times", flakyCalls)
	}
}

func TestVerifyLinksBadURL(t *testing.T) {
	s, _ := setupArchive(t)

	doc := plainDoc("Mistyped link")
	doc.IsDigitized = true
	doc.DigitizedVersionLink = "::not a url::"
	mustCreate(t, s, doc)

	report, err := s.VerifyLinks(context.Background(), http.DefaultClient)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if len(report) != 1 || report[0].OK {
		t.Fatalf("unexpected report %+v", report)
	}
	if report[0].Detail == "" {
		t.Error("missing failure detail")
	}
}
