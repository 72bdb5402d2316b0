package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/nischala755/navix-ai/internal/models"
)

// ErrNotFound is returned when the backend reports an unknown job or route
var ErrNotFound = errors.New("not found")

// ErrTransport is returned when a request to the optimizer backend fails at
// the transport level: network error, non-2xx status, or an unparseable
// body. It is distinct from a job that reports status "failed".
type ErrTransport struct {
	Op     string
	Status int
	Reason string
}

func (e *ErrTransport) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("optimizer %s failed: HTTP %d: %s", e.Op, e.Status, e.Reason)
	}
	return fmt.Sprintf("optimizer %s failed: %s", e.Op, e.Reason)
}

// Client provides access to the remote navix-ai optimization backend.
// The optimization algorithms themselves are opaque to this process; the
// client only submits jobs and reads their results.
type Client interface {
	SubmitOptimization(ctx context.Context, req *models.OptimizationRequest) (*models.OptimizationAck, error)
	GetJobStatus(ctx context.Context, jobID string) (*models.Job, error)
	CancelJob(ctx context.Context, jobID string) error
	GetRoutes(ctx context.Context, jobID string) (*models.RouteList, error)
	GetExplanation(ctx context.Context, routeID string) (json.RawMessage, error)
	GetMapLayer(ctx context.Context, name string) (json.RawMessage, error)
}

type httpClient struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the backend at baseURL
func New(baseURL string) Client {
	return &httpClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *httpClient) SubmitOptimization(ctx context.Context, req *models.OptimizationRequest) (*models.OptimizationAck, error) {
	log.Printf("[OPTIMIZER] Submit: origin=%s dest=%s ship=%s algorithm=%s",
		req.OriginLocode, req.DestinationLocode, req.ShipID, req.Algorithm)

	var ack models.OptimizationAck
	if err := c.do(ctx, "submit", http.MethodPost, "/optimize", req, &ack); err != nil {
		return nil, err
	}

	log.Printf("[OPTIMIZER] Submitted: job_id=%s status=%s", ack.JobID, ack.Status)
	return &ack, nil
}

func (c *httpClient) GetJobStatus(ctx context.Context, jobID string) (*models.Job, error) {
	var job models.Job
	if err := c.do(ctx, "job status", http.MethodGet, "/jobs/"+jobID, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *httpClient) CancelJob(ctx context.Context, jobID string) error {
	log.Printf("[OPTIMIZER] Cancel: job_id=%s", jobID)
	return c.do(ctx, "job cancel", http.MethodDelete, "/jobs/"+jobID, nil, nil)
}

func (c *httpClient) GetRoutes(ctx context.Context, jobID string) (*models.RouteList, error) {
	var list models.RouteList
	if err := c.do(ctx, "routes", http.MethodGet, "/routes/"+jobID, nil, &list); err != nil {
		return nil, err
	}

	log.Printf("[OPTIMIZER] Routes fetched: job_id=%s count=%d", jobID, len(list.Routes))
	return &list, nil
}

func (c *httpClient) GetExplanation(ctx context.Context, routeID string) (json.RawMessage, error) {
	// The explanation payload is consumed as opaque data by the frontend
	var raw json.RawMessage
	if err := c.do(ctx, "explanation", http.MethodGet, "/explain/"+routeID, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *httpClient) GetMapLayer(ctx context.Context, name string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "map layer", http.MethodGet, "/map/layer/"+name, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *httpClient) do(ctx context.Context, op, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &ErrTransport{Op: op, Reason: err.Error()}
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &ErrTransport{Op: op, Reason: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[ERROR] Optimizer %s request failed: %v", op, err)
		return &ErrTransport{Op: op, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("[ERROR] Optimizer %s error: status=%d body=%s", op, resp.StatusCode, string(detail))
		return &ErrTransport{Op: op, Status: resp.StatusCode, Reason: string(detail)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Printf("[ERROR] Failed to decode optimizer %s response: %v", op, err)
		return &ErrTransport{Op: op, Reason: "invalid response: " + err.Error()}
	}
	return nil
}
