package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailClient struct {
	mock.Mock
}

func (m *EmailClient) Send(ctx context.Context, to, subject, plainContent, htmlContent string) error {
	args := m.Called(ctx, to, subject, plainContent, htmlContent)

	return args.Error(0)
}
