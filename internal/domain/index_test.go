package domain

import (
	"errors"
	"testing"
)

func TestParseGitHubRepo(t *testing.T) {
	cases := []struct {
		in   string
		want GitHubRepo
	}{
		{"https://github.com/Lessica/TrollFools", GitHubRepo{"Lessica", "TrollFools"}},
		{"https://github.com/Lessica/TrollFools/", GitHubRepo{"Lessica", "TrollFools"}},
		{"https://github.com/Lessica/TrollFools.git", GitHubRepo{"Lessica", "TrollFools"}},
		{" https://GitHub.com/a/b ", GitHubRepo{"a", "b"}},
	}
	for _, c := range cases {
		got, err := ParseGitHubRepo(c.in)
		if err != nil {
			t.Fatalf("ParseGitHubRepo(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseGitHubRepo(%q) = %+v, want %+v", c.in, got, c.want)
		}
		if got.String() != c.want.Owner+"/"+c.want.Name {
			t.Fatalf("unexpected String() %q", got.String())
		}
	}
}

func TestParseGitHubRepoRejects(t *testing.T) {
	for _, in := range []string{
		"http://github.com/a/b",
		"https://gitlab.com/a/b",
		"https://github.com/only",
		"::",
	} {
		if _, err := ParseGitHubRepo(in); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("ParseGitHubRepo(%q): expected ErrInvalidConfig, got %v", in, err)
		}
	}
}

func TestHavocURLs(t *testing.T) {
	ix := RepoIndex{HavocMappings: map[string]string{"com.example.a": "a-id", "com.example.empty": " "}}

	id, ok := ix.HavocID("com.example.a")
	if !ok || id != "a-id" {
		t.Fatalf("expected a-id, got %q %v", id, ok)
	}
	if _, ok := ix.HavocID("com.example.empty"); ok {
		t.Fatalf("blank ids are not mappings")
	}
	if _, ok := ix.HavocID("missing"); ok {
		t.Fatalf("expected no mapping")
	}

	if got := DepictionURL("a-id"); got != "https://havoc.app/depiction/a-id" {
		t.Fatalf("unexpected depiction %q", got)
	}
	if got := SileoDepictionURL("a-id"); got != "https://havoc.app/package/a-id/depiction.json" {
		t.Fatalf("unexpected sileo depiction %q", got)
	}
	if got := IconURL("https://repo.example/", "icons", "a.png"); got != "https://repo.example/icons/a.png" {
		t.Fatalf("unexpected icon url %q", got)
	}
}
