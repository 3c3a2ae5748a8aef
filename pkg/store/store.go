// Package store retrieves App Store marketing assets. The Fetcher
// interface is the only network-facing boundary; everything above it
// works on byte slices and can be tested with a stub.
package store

import (
	"context"
	"fmt"

	"github.com/screenaso/appstore-assets/models"
)

// Asset is one downloaded image with enough context to name its file.
type Asset struct {
	URL         string
	Data        []byte
	ContentType string // sniffed from the bytes, e.g. "image/jpeg"
}

// FetchResult holds everything retrieved for one (app, country, locale)
// tuple. Screenshots preserve the storefront's display order.
// ScreenshotsFound counts the URLs discovered; when it exceeds
// len(Screenshots), some downloads failed.
type FetchResult struct {
	AppName          string
	AppStoreURL      string
	Info             models.AppInfo
	Logo             *Asset
	Screenshots      []Asset
	ScreenshotsFound int
}

// Fetcher is the capability consumed by the per-country downloader.
type Fetcher interface {
	Fetch(ctx context.Context, appID, country, locale string) (*FetchResult, error)
}

// NotFoundError reports that the app does not exist in a storefront.
type NotFoundError struct {
	AppID   string
	Country string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("app %s not found in storefront %s", e.AppID, e.Country)
}
