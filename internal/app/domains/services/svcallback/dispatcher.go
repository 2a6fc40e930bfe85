package svcallback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gmar02/tccprot/internal/app/domains/entity/etdemand"
	"github.com/gmar02/tccprot/pkg/errorutil"
	"github.com/gmar02/tccprot/pkg/logger"
)

// Dispatcher delivers classification results to the caller-supplied
// webhook. One bounded attempt, no internal retry: the worker's
// acknowledgment policy does not depend on the outcome here.
type Dispatcher struct {
	client *http.Client
	logger logger.Logger
}

// NewDispatcher creates a dispatcher whose deliveries time out after
// timeout.
func NewDispatcher(timeout time.Duration, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		client: &http.Client{Timeout: timeout},
		logger: log,
	}
}

// Deliver POSTs the payload to callbackURL. Any transport error or
// non-2xx status is a non-retryable failure, reported for observability
// only.
func (d *Dispatcher) Deliver(ctx context.Context, callbackURL string, payload *etdemand.CallbackPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errorutil.NonRetriableWrap("marshal callback payload failed", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, callbackURL, bytes.NewReader(body))
	if err != nil {
		return errorutil.NonRetriableWrap("build callback request failed", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := d.client.Do(req)
	if err != nil {
		return errorutil.NonRetriableWrap("callback request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorutil.NonRetriable(fmt.Sprintf("callback answered status %d", resp.StatusCode))
	}

	d.logger.Infof(ctx, "callback delivered: url=%s, id_processamento=%s", callbackURL, payload.ProcessingID)
	return nil
}
