// Package callback delivers the final validation result to the upstream
// backend. Delivery is best-effort: every failure mode is captured in the
// returned status and logged, never raised to the pipeline.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"validator-engine/internal/usecase/validation"
)

const updatePath = "/api/submission/update"

// Cap on error-body detail kept in the status.
const detailLimit = 512

type Notifier struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

func NewNotifier(baseURL string, timeout time.Duration, log *slog.Logger) *Notifier {
	return &Notifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Notify PATCHes {submissionId, aiSummary} to the backend's submission
// update endpoint.
func (n *Notifier) Notify(ctx context.Context, submissionID string, result *validation.Result) validation.DeliveryStatus {
	payload, err := json.Marshal(map[string]any{
		"submissionId": submissionID,
		"aiSummary":    result,
	})
	if err != nil {
		return validation.DeliveryStatus{Success: false, Detail: "encode payload: " + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, n.baseURL+updatePath, bytes.NewReader(payload))
	if err != nil {
		return validation.DeliveryStatus{Success: false, Detail: "build request: " + err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return validation.DeliveryStatus{Success: false, Detail: "request failed: " + err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, detailLimit))
		return validation.DeliveryStatus{
			Success:    false,
			StatusCode: resp.StatusCode,
			Detail:     string(body),
		}
	}

	n.log.Info("result callback delivered",
		slog.String("submission_id", submissionID),
		slog.Int("status_code", resp.StatusCode),
	)
	return validation.DeliveryStatus{Success: true, StatusCode: resp.StatusCode}
}
