package mocks

import (
	"context"

	"github.com/storehub/catalog-service/internal/models"
	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (m *Client) Upload(ctx context.Context, localPath string) (*models.Photo, error) {
	args := m.Called(ctx, localPath)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Photo), args.Error(1)
}

func (m *Client) Destroy(ctx context.Context, assetID string) error {
	args := m.Called(ctx, assetID)

	return args.Error(0)
}

func (m *Client) Ping(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
