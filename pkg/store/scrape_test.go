package store

import "testing"

func TestParseSrcset(t *testing.T) {
	srcset := "https://is1-ssl.mzstatic.com/image/thumb/a/300x650bb.webp 300w, " +
		"https://is1-ssl.mzstatic.com/image/thumb/a/600x1300bb.webp 600w"

	candidates := parseSrcset(srcset)
	if len(candidates) != 2 {
		t.Fatalf("parseSrcset() returned %d candidates, want 2", len(candidates))
	}
	// Highest width first, webp swapped for jpg.
	want := "https://is1-ssl.mzstatic.com/image/thumb/a/600x1300bb.jpg"
	if candidates[0].url != want {
		t.Errorf("best candidate = %q, want %q", candidates[0].url, want)
	}
	if candidates[0].score != 600 {
		t.Errorf("best candidate score = %v, want 600", candidates[0].score)
	}
}

func TestParseSrcset_DensityBeatsWidth(t *testing.T) {
	srcset := "https://is1-ssl.mzstatic.com/a.jpg 800w, https://is1-ssl.mzstatic.com/b.jpg 2x"
	candidates := parseSrcset(srcset)
	if len(candidates) != 2 {
		t.Fatalf("parseSrcset() returned %d candidates, want 2", len(candidates))
	}
	if candidates[0].url != "https://is1-ssl.mzstatic.com/b.jpg" {
		t.Errorf("density descriptor should outrank width, got %q first", candidates[0].url)
	}
}

func TestParseSrcset_SkipsRelativeAndEmpty(t *testing.T) {
	candidates := parseSrcset("/relative/path.jpg 300w, , https://is1-ssl.mzstatic.com/ok.jpg 100w")
	if len(candidates) != 1 {
		t.Fatalf("parseSrcset() returned %d candidates, want 1: %v", len(candidates), candidates)
	}
}

func TestExtractScreenshotURLs(t *testing.T) {
	html := []byte(`<html><body>
		<picture>
			<source type="image/jpeg" srcset="https://is1-ssl.mzstatic.com/image/thumb/s1/300x650bb.webp 300w, https://is1-ssl.mzstatic.com/image/thumb/s1/600x1300bb.webp 600w">
		</picture>
		<picture>
			<source type="image/webp" srcset="https://is1-ssl.mzstatic.com/image/thumb/s1/300x650bb.webp 300w">
			<source type="image/jpeg" srcset="https://is1-ssl.mzstatic.com/image/thumb/s2/300x650bb.jpg 300w">
		</picture>
		<picture>
			<source type="image/jpeg" srcset="https://is1-ssl.mzstatic.com/image/thumb/AppIcon-x/300x650bb.jpg 300w">
		</picture>
	</body></html>`)

	urls, err := extractScreenshotURLs(html)
	if err != nil {
		t.Fatalf("extractScreenshotURLs() failed: %v", err)
	}
	want := []string{
		"https://is1-ssl.mzstatic.com/image/thumb/s1/600x1300bb.jpg",
		"https://is1-ssl.mzstatic.com/image/thumb/s2/300x650bb.jpg",
	}
	if len(urls) != len(want) {
		t.Fatalf("got %d urls, want %d: %v", len(urls), len(want), urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestExtractScreenshotURLs_ImgFallback(t *testing.T) {
	html := []byte(`<html><body>
		<img src="https://is1-ssl.mzstatic.com/image/thumb/shot/1290x2796bb.jpg">
		<img src="https://example.com/unrelated.jpg">
		<img src="https://is1-ssl.mzstatic.com/image/thumb/banner/1200x630bb.jpg">
	</body></html>`)

	urls, err := extractScreenshotURLs(html)
	if err != nil {
		t.Fatalf("extractScreenshotURLs() failed: %v", err)
	}
	if len(urls) != 1 {
		t.Fatalf("got %d urls, want 1: %v", len(urls), urls)
	}
	if urls[0] != "https://is1-ssl.mzstatic.com/image/thumb/shot/1290x2796bb.jpg" {
		t.Errorf("unexpected url %q", urls[0])
	}
}

func TestNormalizeImageURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"//is1-ssl.mzstatic.com/a.webp", "https://is1-ssl.mzstatic.com/a.jpg"},
		{"https://is1-ssl.mzstatic.com/a.jpg", "https://is1-ssl.mzstatic.com/a.jpg"},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := normalizeImageURL(tt.in); got != tt.want {
			t.Errorf("normalizeImageURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractSlug(t *testing.T) {
	got := extractSlug("https://apps.apple.com/us/app/demo-app/id123456789", "")
	if got != "demo-app" {
		t.Errorf("extractSlug(trackViewUrl) = %q, want demo-app", got)
	}

	got = extractSlug("", "Demo App 2!")
	if got != "demo-app-2" {
		t.Errorf("extractSlug(name fallback) = %q, want demo-app-2", got)
	}

	if got := extractSlug("", ""); got != "" {
		t.Errorf("extractSlug(empty) = %q, want empty", got)
	}
}

func TestArtworkURL(t *testing.T) {
	entry := &lookupEntry{ArtworkURL100: "https://is1-ssl.mzstatic.com/image/thumb/logo/100x100bb.jpg"}
	want := "https://is1-ssl.mzstatic.com/image/thumb/logo/512x512bb.jpg"
	if got := entry.artworkURL(); got != want {
		t.Errorf("artworkURL() = %q, want %q", got, want)
	}

	empty := &lookupEntry{}
	if got := empty.artworkURL(); got != "" {
		t.Errorf("artworkURL() on empty entry = %q, want empty", got)
	}
}
