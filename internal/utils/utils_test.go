package utils

import (
	"strings"
	"testing"
)

func TestRenderMarkdownSanitizes(t *testing.T) {
	out := string(RenderMarkdown("**bold** <script>alert(1)</script>"))

	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("expected markdown rendered, got %s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("script tag must be stripped, got %s", out)
	}
}

func TestRenderMarkdownLazyImages(t *testing.T) {
	out := string(RenderMarkdown("![cat](https://example.com/cat.png)"))

	if !strings.Contains(out, `loading="lazy"`) {
		t.Errorf("expected lazy image, got %s", out)
	}
	if !strings.Contains(out, `referrerpolicy="no-referrer"`) {
		t.Errorf("expected referrer policy, got %s", out)
	}
}

func TestRenderMarkdownDemotesHeadings(t *testing.T) {
	tests := []struct {
		src, want string
	}{
		{"# Title", "<h3"},
		{"### Section", "<h5"},
		{"##### Deep", "<h6"},
		{"###### Deepest", "<h6"},
	}
	for _, tt := range tests {
		out := string(RenderMarkdown(tt.src))
		if !strings.Contains(out, tt.want) {
			t.Errorf("RenderMarkdown(%q) = %s, want %s", tt.src, out, tt.want)
		}
	}
	if out := string(RenderMarkdown("# Title")); strings.Contains(out, "<h1") {
		t.Errorf("post text must not produce h1, got %s", out)
	}
}

func TestRenderMarkdownLinksAreNofollow(t *testing.T) {
	out := string(RenderMarkdown("see https://example.com and [docs](https://example.org/docs)"))

	if strings.Count(out, "<a ") != 2 {
		t.Fatalf("expected bare url linkified, got %s", out)
	}
	if strings.Count(out, "nofollow") != 2 {
		t.Errorf("expected every link nofollow, got %s", out)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !CheckPasswordHash("s3cret", hash) {
		t.Errorf("expected password to match")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Errorf("expected mismatch for wrong password")
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in   string
		want uint
		ok   bool
	}{
		{"42", 42, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseID(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseID(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLeadingBlocks(t *testing.T) {
	html := string(RenderMarkdown("one\n\ntwo\n\nthree\n\nfour"))

	got := LeadingBlocks(html, 2)
	if !strings.Contains(got, "one") || !strings.Contains(got, "two") {
		t.Errorf("expected first two paragraphs, got %q", got)
	}
	if strings.Contains(got, "three") {
		t.Errorf("expected later paragraphs dropped, got %q", got)
	}
}
