package optimizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nischala755/navix-ai/internal/models"
)

func newTestClient(handler http.HandlerFunc) (Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := &httpClient{baseURL: server.URL, httpClient: server.Client()}
	return client, server
}

func TestSubmitOptimization(t *testing.T) {
	var captured models.OptimizationRequest
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/optimize", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(models.OptimizationAck{
			JobID:   "4b1e8a1c-9d0a-4f6b-8f35-6a2e8f0b1c2d",
			Status:  "pending",
			Message: "Optimization job submitted. Algorithm: hacopso",
		})
	})
	defer server.Close()

	req := &models.OptimizationRequest{
		OriginLocode:      "SGSIN",
		DestinationLocode: "NLRTM",
		ShipID:            "container_large",
		Algorithm:         "hacopso",
		Weights:           models.DefaultWeights(),
	}
	ack, err := client.SubmitOptimization(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "4b1e8a1c-9d0a-4f6b-8f35-6a2e8f0b1c2d", ack.JobID)
	assert.Equal(t, "pending", ack.Status)

	// Weights are forwarded verbatim, never renormalized
	assert.Equal(t, models.DefaultWeights(), captured.Weights)
	assert.Equal(t, "SGSIN", captured.OriginLocode)
}

func TestGetJobStatus(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/jobs/abc-123", r.URL.Path)
		w.Write([]byte(`{
			"job_id": "abc-123",
			"status": "running",
			"algorithm": "hacopso",
			"origin": "SGSIN",
			"destination": "NLRTM",
			"created_at": "2026-08-30T10:00:00Z",
			"iterations_completed": 90,
			"solutions_count": 0,
			"error_message": null,
			"progress_pct": 45.0
		}`))
	})
	defer server.Close()

	job, err := client.GetJobStatus(context.Background(), "abc-123")
	require.NoError(t, err)

	assert.Equal(t, models.JobRunning, job.Status)
	assert.Equal(t, 45.0, job.ProgressPct)
	assert.Empty(t, job.ErrorMessage)
}

func TestGetJobStatus_NotFound(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "Job not found"}`, http.StatusNotFound)
	})
	defer server.Close()

	_, err := client.GetJobStatus(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetJobStatus_ServerError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := client.GetJobStatus(context.Background(), "abc-123")

	var transportErr *ErrTransport
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusInternalServerError, transportErr.Status)
}

func TestGetJobStatus_MalformedBody(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	})
	defer server.Close()

	_, err := client.GetJobStatus(context.Background(), "abc-123")

	var transportErr *ErrTransport
	assert.ErrorAs(t, err, &transportErr)
}

func TestGetRoutes(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/routes/abc-123", r.URL.Path)
		w.Write([]byte(`{
			"job_id": "abc-123",
			"solutions_count": 2,
			"routes": [
				{
					"route_id": "r1", "job_id": "abc-123", "rank": 0,
					"objectives": {"fuel_tonnes": 410.2, "travel_time_hours": 280.5, "risk_score": 0.12, "co2_emissions_tonnes": 1280.1, "comfort_score": 0.8},
					"total_distance_nm": 8300.4, "waypoint_count": 2,
					"waypoints": [
						{"sequence": 0, "latitude": 1.29, "longitude": 103.85},
						{"sequence": 1, "latitude": 51.95, "longitude": 4.48}
					]
				},
				{
					"route_id": "r2", "job_id": "abc-123", "rank": 1,
					"objectives": {"fuel_tonnes": 395.7, "travel_time_hours": 301.2, "risk_score": 0.09, "co2_emissions_tonnes": 1234.9, "comfort_score": 0.85},
					"total_distance_nm": 8411.0, "waypoint_count": 2,
					"waypoints": [
						{"sequence": 0, "latitude": 1.29, "longitude": 103.85},
						{"sequence": 1, "latitude": 51.95, "longitude": 4.48}
					]
				}
			]
		}`))
	})
	defer server.Close()

	list, err := client.GetRoutes(context.Background(), "abc-123")
	require.NoError(t, err)

	require.Len(t, list.Routes, 2)
	assert.Equal(t, "r1", list.Routes[0].RouteID)
	assert.Equal(t, 0, list.Routes[0].Rank)
	assert.Equal(t, 410.2, list.Routes[0].Objectives.FuelTonnes)
	assert.Len(t, list.Routes[0].Path(), 2)
}

func TestGetExplanation_Opaque(t *testing.T) {
	payload := `{"summary": "fuel-optimal via Suez", "decisions": [{"factor": "weather", "impact": 0.3}]}`
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/explain/r1", r.URL.Path)
		w.Write([]byte(payload))
	})
	defer server.Close()

	raw, err := client.GetExplanation(context.Background(), "r1")
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(raw))
}

func TestCancelJob(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/jobs/abc-123", r.URL.Path)
		w.Write([]byte(`{"message": "Job cancelled", "job_id": "abc-123"}`))
	})
	defer server.Close()

	assert.NoError(t, client.CancelJob(context.Background(), "abc-123"))
}
