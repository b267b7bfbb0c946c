package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureBannerFetcher retrieves banner creatives from Azure blob storage.
// URLs address the container in the path and the blob via the "blob"
// query parameter.
type AzureBannerFetcher struct {
	client   *azblob.Client
	maxBytes int64
}

// NewAzureBannerFetcher creates a blob-backed banner fetcher using shared
// key credentials.
func NewAzureBannerFetcher(accountName, accountKey string, maxBytes int64) (*AzureBannerFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	if maxBytes <= 0 {
		maxBytes = 32 << 20
	}
	return &AzureBannerFetcher{client: client, maxBytes: maxBytes}, nil
}

// FetchBanner downloads the blob and decodes its pixel dimensions.
func (s *AzureBannerFetcher) FetchBanner(ctx context.Context, bannerURL string) (*Banner, error) {
	parsedURL, err := url.Parse(bannerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid blob URL: %w", err)
	}
	if len(parsedURL.Path) < 2 {
		return nil, fmt.Errorf("blob URL missing container: %s", bannerURL)
	}

	containerName := parsedURL.Path[1:]
	blobName := parsedURL.Query().Get("blob")
	if blobName == "" {
		return nil, fmt.Errorf("blob URL missing blob parameter: %s", bannerURL)
	}

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	retryReader := downloadResponse.Body
	defer retryReader.Close()

	data, err := io.ReadAll(io.LimitReader(retryReader, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("banner exceeds size limit of %d bytes", s.maxBytes)
	}

	return decodeBanner(bannerURL, data)
}
