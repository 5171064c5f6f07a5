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
	ErrClassifyFailed  = errors.New("CLASSIFY_FAILED")
	ErrClassifyTimeout = errors.New("CLASSIFY_TIMEOUT")
)

const classifyResponseSchema = `{
	"type": "object",
	"properties": {
		"label":      {"type": "string", "minLength": 1},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1}
	},
	"required": ["label", "confidence"],
	"additionalProperties": true
}`

// IntentClient is an HTTP-backed Classifier against a model-serving endpoint.
type IntentClient struct {
	cfg    config.Endpoint
	client *http.Client
	schema *gojsonschema.Schema
	logger logger.Logger
	loaded bool
}

// NewIntentClient probes the endpoint once; a failed probe constructs the
// client in the not-loaded state so the resolver starts in fallback mode.
func NewIntentClient(cfg config.Endpoint, log logger.Logger) *IntentClient {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(classifyResponseSchema))
	if err != nil {
		panic(fmt.Sprintf("classify response schema is invalid: %v", err))
	}

	c := &IntentClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		schema: schema,
		logger: log.With(map[string]interface{}{"capability": "classifier"}),
	}
	c.loaded = c.probe()
	return c
}

func (c *IntentClient) probe() bool {
	if c.cfg.BaseURL == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("classifier health probe failed", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *IntentClient) Loaded() bool {
	return c.loaded
}

func (c *IntentClient) Classify(ctx context.Context, text string) (Classification, error) {
	body, _ := json.Marshal(map[string]interface{}{"text": text})

	raw, err := c.post(ctx, "/api/classify", body)
	if err != nil {
		return Classification{}, err
	}

	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return Classification{}, fmt.Errorf("%w: schema check: %v", ErrClassifyFailed, err)
	}
	if !result.Valid() {
		return Classification{}, fmt.Errorf("%w: malformed response: %v", ErrClassifyFailed, result.Errors())
	}

	var out Classification
	if err := json.Unmarshal(raw, &out); err != nil {
		return Classification{}, fmt.Errorf("%w: decode error: %v", ErrClassifyFailed, err)
	}
	return out, nil
}

// post issues the request with bounded retries and exponential backoff.
func (c *IntentClient) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrClassifyTimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrClassifyFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, ErrClassifyTimeout
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

		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return raw, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrClassifyFailed, lastErr)
}
