package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/screenaso/appstore-assets/models"
)

const (
	defaultLookupBase = "https://itunes.apple.com"
	defaultStoreBase  = "https://apps.apple.com"

	lookupTimeout   = 15 * time.Second
	downloadTimeout = 30 * time.Second

	// The storefront never shows more than ten screenshots per device.
	maxScreenshots = 10
)

// Client is the production Fetcher. It combines the iTunes lookup API
// with a storefront page scrape for locales the API does not localize.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger

	// Overridable in tests.
	LookupBase string
	StoreBase  string
}

// NewClient builds a Client. proxy may be empty; when set it is applied
// to all outgoing requests.
func NewClient(proxy string, logger *slog.Logger) (*Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url %q: %w", proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Transport: transport},
		logger:     logger,
		LookupBase: defaultLookupBase,
		StoreBase:  defaultStoreBase,
	}, nil
}

// lookupResponse mirrors the fields we consume from the iTunes lookup
// API response.
type lookupResponse struct {
	Results []lookupEntry `json:"results"`
}

type lookupEntry struct {
	TrackName         string   `json:"trackName"`
	TrackViewURL      string   `json:"trackViewUrl"`
	ArtworkURL512     string   `json:"artworkUrl512"`
	ArtworkURL100     string   `json:"artworkUrl100"`
	ArtworkURL60      string   `json:"artworkUrl60"`
	ScreenshotURLs    []string `json:"screenshotUrls"`
	ArtistName        string   `json:"artistName"`
	BundleID          string   `json:"bundleId"`
	Version           string   `json:"version"`
	FormattedPrice    string   `json:"formattedPrice"`
	AverageUserRating float64  `json:"averageUserRating"`
	UserRatingCount   int64    `json:"userRatingCount"`
	PrimaryGenreName  string   `json:"primaryGenreName"`
	ReleaseDate       string   `json:"releaseDate"`
}

// Fetch implements Fetcher against the live store.
func (c *Client) Fetch(ctx context.Context, appID, country, locale string) (*FetchResult, error) {
	entry, err := c.lookup(ctx, appID, country)
	if err != nil {
		return nil, err
	}

	slug := extractSlug(entry.TrackViewURL, entry.TrackName)
	result := &FetchResult{
		AppName:     entry.TrackName,
		AppStoreURL: c.storeURL(appID, country, slug, locale, ""),
		Info:        entry.appInfo(),
	}

	if logoURL := entry.artworkURL(); logoURL != "" {
		logo, err := c.downloadImage(ctx, logoURL)
		if err != nil {
			c.logger.Warn("Logo download failed", "country", country, "url", logoURL, "error", err)
		} else {
			result.Logo = logo
		}
	}

	urls := c.screenshotURLs(ctx, entry, appID, country, locale, slug)
	result.ScreenshotsFound = len(urls)
	for _, u := range urls {
		shot, err := c.downloadImage(ctx, u)
		if err != nil {
			c.logger.Warn("Screenshot download failed", "country", country, "url", u, "error", err)
			continue
		}
		result.Screenshots = append(result.Screenshots, *shot)
	}

	return result, nil
}

// screenshotURLs decides between API-provided screenshots and the
// storefront scrape. The lookup API only serves the English listing, so
// non-English locales prefer scraped URLs and fall back to the API set.
func (c *Client) screenshotURLs(ctx context.Context, entry *lookupEntry, appID, country, locale, slug string) []string {
	apiURLs := make([]string, 0, len(entry.ScreenshotURLs))
	for _, u := range entry.ScreenshotURLs {
		if n := normalizeImageURL(u); n != "" {
			apiURLs = append(apiURLs, n)
		}
		if len(apiURLs) >= maxScreenshots {
			break
		}
	}

	skipAPI := locale != "" && !strings.HasPrefix(strings.ToLower(locale), "en")
	if !skipAPI && len(apiURLs) > 0 {
		return apiURLs
	}

	scraped, err := c.scrapeScreenshotURLs(ctx, appID, country, slug, locale)
	if err != nil {
		c.logger.Warn("Storefront scrape failed", "country", country, "error", err)
	}
	if len(scraped) > 0 {
		return scraped
	}
	return apiURLs
}

// lookup queries the iTunes lookup API for one storefront.
func (c *Client) lookup(ctx context.Context, appID, country string) (*lookupEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	lookupURL := fmt.Sprintf("%s/lookup?id=%s&country=%s&entity=software",
		c.LookupBase, url.QueryEscape(appID), url.QueryEscape(country))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}

	var parsed lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode lookup response: %w", err)
	}
	if len(parsed.Results) == 0 {
		return nil, &NotFoundError{AppID: appID, Country: country}
	}
	return &parsed.Results[0], nil
}

// downloadImage fetches one image and sniffs its content type.
func (c *Client) downloadImage(ctx context.Context, imageURL string) (*Asset, error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image fetch returned an empty body")
	}

	return &Asset{
		URL:         imageURL,
		Data:        data,
		ContentType: http.DetectContentType(data),
	}, nil
}

// storeURL builds the public storefront page URL for an app.
func (c *Client) storeURL(appID, country, slug, locale, platform string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s/%s/app", c.StoreBase, strings.ToLower(country))
	if slug != "" {
		fmt.Fprintf(&sb, "/%s", slug)
	}
	fmt.Fprintf(&sb, "/id%s", appID)

	params := url.Values{}
	if locale != "" {
		params.Set("l", locale)
	}
	if platform != "" {
		params.Set("platform", platform)
	}
	if encoded := params.Encode(); encoded != "" {
		sb.WriteString("?")
		sb.WriteString(encoded)
	}
	return sb.String()
}

var (
	artworkSizePattern = regexp.MustCompile(`/\d+x\d+bb\.`)
	slugPattern        = regexp.MustCompile(`/app/([^/]+)/id\d+`)
	nonSlugPattern     = regexp.MustCompile(`[^a-z0-9]+`)
)

// artworkURL returns the best logo URL, forced to the 512x512 variant.
func (e *lookupEntry) artworkURL() string {
	u := e.ArtworkURL512
	if u == "" {
		u = e.ArtworkURL100
	}
	if u == "" {
		u = e.ArtworkURL60
	}
	if u == "" {
		return ""
	}
	return artworkSizePattern.ReplaceAllString(u, "/512x512bb.")
}

func (e *lookupEntry) appInfo() models.AppInfo {
	return models.AppInfo{
		Developer:    e.ArtistName,
		BundleID:     e.BundleID,
		Version:      e.Version,
		Price:        e.FormattedPrice,
		Rating:       e.AverageUserRating,
		RatingCount:  e.UserRatingCount,
		PrimaryGenre: e.PrimaryGenreName,
		ReleaseDate:  e.ReleaseDate,
	}
}

// extractSlug derives the URL slug from trackViewUrl, falling back to a
// slugified app name.
func extractSlug(trackViewURL, trackName string) string {
	if m := slugPattern.FindStringSubmatch(trackViewURL); len(m) > 1 {
		return m[1]
	}
	if trackName == "" {
		return ""
	}
	slug := nonSlugPattern.ReplaceAllString(strings.ToLower(trackName), "-")
	return strings.Trim(slug, "-")
}

// normalizeImageURL fixes protocol-relative CDN URLs and swaps webp for
// jpg, which the CDN serves for the same path.
func normalizeImageURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "//") {
		u = "https:" + u
	}
	return strings.ReplaceAll(u, ".webp", ".jpg")
}
