package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// srcsetCandidate is one image variant from a srcset attribute, scored
// by its width descriptor so the highest resolution wins.
type srcsetCandidate struct {
	score float64
	order int
	url   string
}

var (
	descriptorPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)([wx])$`)
	thumbSizePattern  = regexp.MustCompile(`/\d+x\d+bb.*$`)
)

// Screenshot variants are exported at a fixed set of device widths;
// anything else in a srcset is chrome (icons, banners, og images).
var screenshotWidths = []string{"1290x", "1284x", "1242x", "1179x", "1170x", "828x", "750x", "640x"}

// scrapeScreenshotURLs loads the storefront page and extracts ordered
// screenshot URLs from its picture/source markup.
func (c *Client) scrapeScreenshotURLs(ctx context.Context, appID, country, slug, locale string) ([]string, error) {
	pageURL := c.storeURL(appID, country, slug, locale, "iphone")

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build storefront request: %w", err)
	}
	if locale != "" {
		req.Header.Set("Accept-Language", strings.ReplaceAll(locale, "_", "-"))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storefront request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("storefront returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read storefront page: %w", err)
	}

	return extractScreenshotURLs(body)
}

// extractScreenshotURLs parses storefront HTML. The primary pass walks
// picture > source elements advertising JPEG variants; when that yields
// nothing (markup changes between storefront revisions) a looser pass
// over img tags runs.
func extractScreenshotURLs(html []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse storefront HTML: %w", err)
	}

	var urls []string
	seenBases := make(map[string]bool)

	doc.Find("picture source").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if mime, _ := s.Attr("type"); !strings.Contains(mime, "image/jpeg") {
			return true
		}
		srcset, _ := s.Attr("srcset")
		if srcset == "" {
			srcset, _ = s.Attr("data-srcset")
		}
		if !strings.Contains(srcset, "mzstatic.com") {
			return true
		}

		candidates := parseSrcset(srcset)
		if len(candidates) == 0 {
			return true
		}
		best := candidates[0].url
		if isExcludedImage(best) {
			return true
		}

		base := thumbSizePattern.ReplaceAllString(best, "")
		if !seenBases[base] {
			seenBases[base] = true
			urls = append(urls, best)
		}
		return len(urls) < maxScreenshots
	})

	if len(urls) == 0 {
		doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			src, _ := s.Attr("src")
			if src == "" {
				src, _ = s.Attr("data-src")
			}
			src = normalizeImageURL(src)
			if !strings.Contains(src, "mzstatic.com") || isExcludedImage(src) {
				return true
			}
			if !hasScreenshotWidth(src) {
				return true
			}
			base := thumbSizePattern.ReplaceAllString(src, "")
			if !seenBases[base] {
				seenBases[base] = true
				urls = append(urls, src)
			}
			return len(urls) < maxScreenshots
		})
	}

	return urls, nil
}

// parseSrcset splits a srcset attribute into scored candidates, best
// first. Width descriptors ("828w") score as-is; density descriptors
// ("2x") are weighted above any width.
func parseSrcset(srcset string) []srcsetCandidate {
	var candidates []srcsetCandidate
	for order, chunk := range strings.Split(srcset, ",") {
		fields := strings.Fields(strings.TrimSpace(chunk))
		if len(fields) == 0 {
			continue
		}
		u := normalizeImageURL(fields[0])
		if !strings.HasPrefix(u, "http") {
			continue
		}

		var score float64
		if len(fields) > 1 {
			if m := descriptorPattern.FindStringSubmatch(fields[1]); m != nil {
				value, _ := strconv.ParseFloat(m[1], 64)
				if m[2] == "w" {
					score = value
				} else {
					score = value * 1000
				}
			}
		}
		candidates = append(candidates, srcsetCandidate{score: score, order: order, url: u})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	return candidates
}

func isExcludedImage(u string) bool {
	return strings.Contains(u, "AppIcon") ||
		strings.Contains(u, "marketing") ||
		strings.Contains(u, "1200x630")
}

func hasScreenshotWidth(u string) bool {
	for _, w := range screenshotWidths {
		if strings.Contains(u, w) {
			return true
		}
	}
	return false
}
