package repository

import "errors"

var (
	// ErrInvalidBannerURL indicates an invalid banner URL
	ErrInvalidBannerURL = errors.New("invalid banner URL")

	// ErrBannerNotFound indicates the banner was not found
	ErrBannerNotFound = errors.New("banner not found")

	// ErrRepositoryUnavailable indicates the repository is unavailable
	ErrRepositoryUnavailable = errors.New("repository unavailable")
)
