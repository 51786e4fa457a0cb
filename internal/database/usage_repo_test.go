package database

import (
	"context"
	"testing"
	"time"
)

func TestUsageRepository_RecordAndSummary(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUsageRepository(db)
	ctx := context.Background()

	repo.Record(ctx, "upload-service", "POST /photos", "alice")
	repo.Record(ctx, "upload-service", "GET /photos", "alice")
	repo.Record(ctx, "upload-service", "GET /photos", "bob")
	repo.Record(ctx, "search-service", "GET /search", "")

	summary, err := repo.Summary(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Failed to summarize usage: %v", err)
	}

	if summary.TotalRequests != 4 {
		t.Errorf("Expected 4 total requests, got %d", summary.TotalRequests)
	}
	if summary.ByService["upload-service"] != 3 {
		t.Errorf("Expected 3 upload-service requests, got %d", summary.ByService["upload-service"])
	}
	if summary.ByEndpoint["GET /photos"] != 2 {
		t.Errorf("Expected 2 GET /photos requests, got %d", summary.ByEndpoint["GET /photos"])
	}

	// The grouped sums must agree with the total.
	endpointSum, serviceSum := 0, 0
	for _, count := range summary.ByEndpoint {
		endpointSum += count
	}
	for _, count := range summary.ByService {
		serviceSum += count
	}
	if endpointSum != summary.TotalRequests || serviceSum != summary.TotalRequests {
		t.Errorf("Expected sums to agree: total=%d endpoints=%d services=%d",
			summary.TotalRequests, endpointSum, serviceSum)
	}
}

func TestUsageRepository_Summary_EmptyWindow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUsageRepository(db)
	ctx := context.Background()

	repo.Record(ctx, "upload-service", "POST /photos", "alice")

	// A window entirely in the past sees nothing.
	summary, err := repo.Summary(ctx, time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Failed to summarize usage: %v", err)
	}
	if summary.TotalRequests != 0 {
		t.Errorf("Expected 0 requests in empty window, got %d", summary.TotalRequests)
	}
	if len(summary.ByEndpoint) != 0 || len(summary.ByService) != 0 {
		t.Error("Expected empty grouping maps for empty window")
	}
}
