package capability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"credit-assist/internal/common/config"
	"credit-assist/internal/common/logger"

	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrTagFailed  = errors.New("TAG_FAILED")
	ErrTagTimeout = errors.New("TAG_TIMEOUT")
)

const tagResponseSchema = `{
	"type": "object",
	"properties": {
		"spans": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"text":  {"type": "string"},
					"type":  {"type": "string"},
					"start": {"type": "integer", "minimum": 0},
					"end":   {"type": "integer", "minimum": 0}
				},
				"required": ["text", "type", "start", "end"]
			}
		}
	},
	"required": ["spans"]
}`

// NERClient is an HTTP-backed Tagger against a token-classification endpoint.
type NERClient struct {
	cfg    config.Endpoint
	client *http.Client
	schema *gojsonschema.Schema
	logger logger.Logger
}

func NewNERClient(cfg config.Endpoint, log logger.Logger) *NERClient {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(tagResponseSchema))
	if err != nil {
		panic(fmt.Sprintf("tag response schema is invalid: %v", err))
	}

	return &NERClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		schema: schema,
		logger: log.With(map[string]interface{}{"capability": "tagger"}),
	}
}

func (c *NERClient) Tag(ctx context.Context, text string) ([]Span, error) {
	body, _ := json.Marshal(map[string]interface{}{"text": text})

	var raw []byte
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrTagTimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/tag", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTagFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, ErrTagTimeout
		}
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			continue
		}

		raw, err = io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		lastErr = nil
		break
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrTagFailed, lastErr)
	}

	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: schema check: %v", ErrTagFailed, err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrTagFailed, result.Errors())
	}

	var out struct {
		Spans []Span `json:"spans"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrTagFailed, err)
	}
	return out.Spans, nil
}
