// Package imagegen generates ad creatives through the Gemini image model.
// The connector is transport-only: prompt construction and fallback
// handling belong to the callers.
package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	retrygo "github.com/avast/retry-go/v4"
	"go.uber.org/zap"

	"github.com/adforge/adgen-backend/internal/pkg/retry"
	pkghttp "github.com/adforge/adgen-backend/pkg/http"
)

// Request carries everything one variation generation needs.
type Request struct {
	Prompt    string
	Image     []byte // product photo, passed inline to the model
	MIMEType  string
	Index     int    // variation index, 0-based
	RequestID string // generation request id, used for labeling fallbacks
}

type Config struct {
	BaseURL               string
	APIKey                string
	Model                 string
	RequestTimeout        time.Duration
	ConnTimeout           time.Duration
	KeepAlive             time.Duration
	IdleConnTimeout       time.Duration
	ResponseHeaderTimeout time.Duration
	Retry                 *retry.RetryConfig
}

// Connector calls the Gemini generateContent endpoint and extracts the
// first inline image from the response.
type Connector struct {
	connector *pkghttp.Connector
	model     string
	retryCfg  *retry.RetryConfig
	logger    *zap.Logger
}

func NewConnector(cfg Config, logger *zap.Logger) *Connector {
	httpConnector := pkghttp.NewConnector(
		&pkghttp.ConnectorConfig{
			BaseURL: cfg.BaseURL,
			Logger:  logger,
		},
		pkghttp.WithRequestTimeout(cfg.RequestTimeout),
		pkghttp.WithConnClientTimeout(cfg.ConnTimeout),
		pkghttp.WithClientKeepAlive(cfg.KeepAlive),
		pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkghttp.WithAuthHeader("x-goog-api-key", cfg.APIKey),
		pkghttp.WithRequestLogging(),
	)

	retryCfg := cfg.Retry
	if retryCfg == nil {
		retryCfg = retry.DefaultRetryConfig()
	}

	return &Connector{
		connector: httpConnector,
		model:     cfg.Model,
		retryCfg:  retryCfg,
		logger:    logger,
	}
}

// Generate produces one creative. It returns raw PNG bytes or an error;
// it never substitutes fallback content itself.
func (c *Connector) Generate(ctx context.Context, req Request) ([]byte, error) {
	parts := []geminiPart{{Text: req.Prompt}}
	if len(req.Image) > 0 {
		mimeType := req.MIMEType
		if mimeType == "" {
			mimeType = "image/png"
		}
		parts = append(parts, geminiPart{
			InlineData: &geminiBlobData{
				MIMEType: mimeType,
				Data:     base64.StdEncoding.EncodeToString(req.Image),
			},
		})
	}

	body := geminiRequest{
		Contents: []geminiContent{{Parts: parts}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"IMAGE"},
		},
	}

	endpoint := fmt.Sprintf("/models/%s:generateContent", c.model)

	var resp geminiResponse
	err := retrygo.Do(
		func() error {
			resp = geminiResponse{}
			return c.connector.DoRequest(ctx, http.MethodPost, endpoint, body, &resp)
		},
		c.retryCfg.ToRetryOptions(ctx)...,
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	if resp.Error != nil {
		return nil, fmt.Errorf("gemini error %d (%s): %s", resp.Error.Code, resp.Error.Status, resp.Error.Message)
	}

	img, err := extractImage(&resp)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("generated creative",
		zap.String("request_id", req.RequestID),
		zap.Int("variation_index", req.Index),
		zap.Int("bytes", len(img)),
	)

	return img, nil
}

func extractImage(resp *geminiResponse) ([]byte, error) {
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("decode inline image: %w", err)
			}
			return data, nil
		}
	}
	return nil, fmt.Errorf("response contained no image data")
}
