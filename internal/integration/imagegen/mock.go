package imagegen

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/adforge/adgen-backend/internal/imaging"
)

// MockConnector renders placeholders instead of calling the model.
// Used in local development and tests.
type MockConnector struct {
	delay  time.Duration
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		delay:  50 * time.Millisecond,
		logger: logger,
	}
}

func (c *MockConnector) Generate(ctx context.Context, req Request) ([]byte, error) {
	select {
	case <-time.After(c.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	c.logger.Debug("mock creative generated",
		zap.String("request_id", req.RequestID),
		zap.Int("variation_index", req.Index),
	)

	return imaging.Placeholder(req.Index, req.RequestID)
}
