package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dgraph-io/badger/v4"
	sentryhttp "github.com/getsentry/sentry-go/http"

	gojson "github.com/goccy/go-json"

	"github.com/stephenreynolds/flamegraph-ai/internal/storageprovider"
)

const eventedDocument = `{
	"shared": {"frames": [{"name": "main", "file": "main.js"}, {"name": "work", "file": "work.js"}]},
	"profiles": [{
		"type": "evented",
		"events": [
			{"type": "O", "frame": 0, "at": 0},
			{"type": "O", "frame": 1, "at": 2},
			{"type": "C", "frame": 1, "at": 6},
			{"type": "C", "frame": 0, "at": 10}
		]
	}]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true))
	if err != nil {
		t.Fatalf("couldn't create an in-memory badgerdb: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	env := environment{
		config:   ServiceConfig{Environment: "test"},
		profiles: &storageprovider.Badger{DB: db},
	}
	router, err := env.newRouter()
	if err != nil {
		t.Fatalf("couldn't set up the router: %v", err)
	}
	server := httptest.NewServer(sentryhttp.New(sentryhttp.Options{}).Handle(router))
	t.Cleanup(server.Close)
	return server
}

func TestPostProfile(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/profile", "application/json", strings.NewReader(eventedDocument))
	if err != nil {
		t.Fatalf("posting a profile should work: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var posted PostProfileResponse
	if err := gojson.NewDecoder(resp.Body).Decode(&posted); err != nil {
		t.Fatalf("decoding the response should work: %v", err)
	}
	if posted.ProfileID == "" {
		t.Fatal("a profile ID should be assigned")
	}
	if posted.Summary == nil || posted.Summary.TotalSamples != 10 {
		t.Fatalf("unexpected summary: %+v", posted.Summary)
	}
	if posted.Summary.Hotspots[0].Name != "main" {
		t.Fatalf("main should lead the ranking: %+v", posted.Summary.Hotspots)
	}

	// The stored document can be fetched and re-analyzed.
	resp, err = http.Get(server.URL + "/profiles/" + posted.ProfileID + "/hotspots")
	if err != nil {
		t.Fatalf("fetching hotspots should work: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/profiles/" + posted.ProfileID)
	if err != nil {
		t.Fatalf("fetching the raw profile should work: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestPostProfileInvalidDocument(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{
			name:    "not JSON",
			body:    "junk",
			message: "invalid JSON payload",
		},
		{
			name:    "missing shared section",
			body:    `{"profiles": [{"type": "sampled"}]}`,
			message: "missing a shared section",
		},
		{
			name: "unbalanced events",
			body: `{
				"shared": {"frames": [{"name": "main"}]},
				"profiles": [{"type": "evented", "events": [
					{"type": "O", "frame": 0, "at": 0},
					{"type": "C", "frame": 0, "at": 1},
					{"type": "C", "frame": 0, "at": 2}
				]}]
			}`,
			message: "no frame is open",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+"/profile", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("posting should work: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestGetRawProfileNotFound(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/profiles/unknown-profile-id")
	if err != nil {
		t.Fatalf("the request should work: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.StatusCode)
	}
}

func TestGetHealth(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("the request should work: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.StatusCode)
	}
}
