package repository

import (
	"context"

	"go-banner-qa/internal/storage"
	"go-banner-qa/pkg/validation"
)

// BannerRepository defines the interface for banner data access operations
type BannerRepository interface {
	// FetchBanner retrieves a banner creative from a URL
	FetchBanner(ctx context.Context, bannerURL string) (*storage.Banner, error)

	// ValidateBannerURL validates if the provided URL is acceptable
	ValidateBannerURL(bannerURL string) error
}

// fetcherBannerRepository implements BannerRepository over a storage fetcher
type fetcherBannerRepository struct {
	fetcher storage.BannerFetcher
}

// NewBannerRepository creates a banner repository backed by the given fetcher
func NewBannerRepository(fetcher storage.BannerFetcher) BannerRepository {
	return &fetcherBannerRepository{
		fetcher: fetcher,
	}
}

// FetchBanner retrieves a banner creative from a URL
func (r *fetcherBannerRepository) FetchBanner(ctx context.Context, bannerURL string) (*storage.Banner, error) {
	if err := r.ValidateBannerURL(bannerURL); err != nil {
		return nil, err
	}
	return r.fetcher.FetchBanner(ctx, bannerURL)
}

// ValidateBannerURL validates if the provided URL is acceptable
func (r *fetcherBannerRepository) ValidateBannerURL(bannerURL string) error {
	return validation.ValidateBannerURL(bannerURL)
}
