package route

import (
	"testing"

	"github.com/corehost-labs/hostbridge/internal/adapters/log"
)

func newTestClassifier(rules Rules) *Classifier {
	return New(rules, log.NewNoopLogger())
}

func TestDecideDefaults(t *testing.T) {
	c := newTestClassifier(Rules{})

	cases := []struct {
		url  string
		want bool
	}{
		{"/api/config", true},
		{"/api/chat/completions", true},
		{"/ws/socket.io", true},
		{"/health", true},
		{"/static/app.css", false},
		{"/index.html", false},
		{"/", false},
	}
	for _, tc := range cases {
		if got := c.Decide(tc.url); got != tc.want {
			t.Fatalf("Decide(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestExcludeBeatsInclude(t *testing.T) {
	c := newTestClassifier(Rules{
		Include: []string{"/api/"},
		Exclude: []string{"/api/stream"},
	})

	if c.Decide("/api/stream/events") {
		t.Fatal("exclude prefix must win regardless of include membership")
	}
	if !c.Decide("/api/config") {
		t.Fatal("non-excluded include path must bridge")
	}
}

func TestIncludeExactMatch(t *testing.T) {
	c := newTestClassifier(Rules{Include: []string{"/custom"}})

	if !c.Decide("/custom") {
		t.Fatal("exact include match must bridge")
	}
	if !c.Decide("/custom/sub") {
		t.Fatal("include prefix match must bridge")
	}
	if c.Decide("/other") {
		t.Fatal("unlisted path outside heuristic must not bridge")
	}
}

func TestDecideAbsoluteURLs(t *testing.T) {
	c := newTestClassifier(Rules{Origin: "http://localhost:5173"})

	if !c.Decide("http://localhost:5173/api/config") {
		t.Fatal("same-origin absolute URL must bridge")
	}
	if c.Decide("https://example.com/api/config") {
		t.Fatal("cross-origin absolute URL must never bridge")
	}
	if c.Decide("//example.com/api/config") {
		t.Fatal("cross-origin protocol-relative URL must never bridge")
	}
}

func TestDecideNoOrigin(t *testing.T) {
	c := newTestClassifier(Rules{})
	if c.Decide("http://localhost:5173/api/config") {
		t.Fatal("absolute URL without a configured origin must not bridge")
	}
	if !c.Decide("/api/config") {
		t.Fatal("relative URL must still bridge without an origin")
	}
}

func TestDecideInternalSchemes(t *testing.T) {
	c := newTestClassifier(Rules{Include: []string{"/"}})

	for _, u := range []string{
		"data:text/plain;base64,aGk=",
		"blob:http://localhost/550e8400",
		"about:blank",
		"tauri://localhost/api/config",
		"wails://wails/api/config",
		"ipc://localhost/api/config",
	} {
		if c.Decide(u) {
			t.Fatalf("internal scheme URL %q must never bridge", u)
		}
	}
}

func TestDecideMalformed(t *testing.T) {
	c := newTestClassifier(Rules{Include: []string{"/"}})

	for _, u := range []string{"", "http://%zz/bad", "://nope"} {
		if c.Decide(u) {
			t.Fatalf("malformed URL %q must never bridge", u)
		}
	}
}

func TestDecideQueryAndFragmentIgnored(t *testing.T) {
	c := newTestClassifier(Rules{})
	if !c.Decide("/api/config?debug=1#top") {
		t.Fatal("query and fragment must not affect the path match")
	}
}
