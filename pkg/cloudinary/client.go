// Package cloudinary wraps the asset store the catalog keeps product photos
// in. The catalog only ever uploads, destroys and pings; everything else the
// provider offers stays out of the interface.
package cloudinary

import (
	"context"
	"fmt"

	sdk "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/storehub/catalog-service/internal/models"
)

type Client interface {
	Upload(ctx context.Context, localPath string) (*models.Photo, error)
	Destroy(ctx context.Context, assetID string) error
	Ping(ctx context.Context) error
}

type client struct {
	cld    *sdk.Cloudinary
	folder string
}

func New(cloudName, apiKey, apiSecret, folder string) (Client, error) {
	cld, err := sdk.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}

	return &client{cld: cld, folder: folder}, nil
}

func (c *client) Upload(ctx context.Context, localPath string) (*models.Photo, error) {
	resp, err := c.cld.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder: c.folder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload asset %s: %w", localPath, err)
	}

	// the SDK reports some API-level failures in the response body instead
	// of the error return
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("failed to upload asset %s: %s", localPath, resp.Error.Message)
	}

	return &models.Photo{AssetID: resp.PublicID, URL: resp.SecureURL}, nil
}

func (c *client) Destroy(ctx context.Context, assetID string) error {
	resp, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: assetID})
	if err != nil {
		return fmt.Errorf("failed to destroy asset %s: %w", assetID, err)
	}

	// "not found" counts as released: the end state is the same
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("failed to destroy asset %s: %s", assetID, resp.Result)
	}

	return nil
}

func (c *client) Ping(ctx context.Context) error {
	resp, err := c.cld.Admin.Ping(ctx)
	if err != nil {
		return fmt.Errorf("cloudinary ping failed: %w", err)
	}

	if resp.Status != "ok" {
		return fmt.Errorf("cloudinary ping returned status %q", resp.Status)
	}

	return nil
}
