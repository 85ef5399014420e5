package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/repos/testutil"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/types"
)

func TestRenderJobRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewRenderJobRepo(db, testutil.Logger(t))

	product := testutil.SeedProduct(t, ctx, tx, "caneca-claim")
	template := testutil.SeedLayoutTemplate(t, ctx, tx, product.ID, "")
	custom := testutil.SeedCustomization(t, ctx, tx, product.ID, template.ID)

	jobA := &types.RenderJob{
		ID:              uuid.New(),
		CustomizationID: custom.ID,
		Kind:            "production",
		Status:          "queued",
		Width:           1000,
		Height:          1000,
	}
	jobB := &types.RenderJob{
		ID:              uuid.New(),
		CustomizationID: custom.ID,
		Kind:            "production",
		Status:          "queued",
		Width:           1000,
		Height:          1000,
	}
	if _, err := repo.Create(ctx, tx, []*types.RenderJob{jobA}); err != nil {
		t.Fatalf("Create jobA: %v", err)
	}
	if _, err := repo.Create(ctx, tx, []*types.RenderJob{jobB}); err != nil {
		t.Fatalf("Create jobB: %v", err)
	}

	if got, err := repo.GetByID(ctx, tx, jobA.ID); err != nil || got == nil || got.ID != jobA.ID {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{jobA.ID, jobB.ID}); err != nil || len(got) != 2 {
		t.Fatalf("GetByIDs: len=%d err=%v", len(got), err)
	}

	maxAttempts := 5
	retryDelay := 30 * time.Second
	staleRunning := 2 * time.Minute

	// Oldest queued job wins.
	claimed, err := repo.ClaimNextRunnable(ctx, tx, maxAttempts, retryDelay, staleRunning)
	if err != nil || claimed == nil || claimed.ID != jobA.ID {
		t.Fatalf("ClaimNextRunnable first: got=%v err=%v", claimed, err)
	}
	if got, err := repo.GetByID(ctx, tx, jobA.ID); err != nil || got == nil || got.Status != "running" || got.Attempts != 1 {
		t.Fatalf("claimed jobA state: got=%+v err=%v", got, err)
	}

	claimed, err = repo.ClaimNextRunnable(ctx, tx, maxAttempts, retryDelay, staleRunning)
	if err != nil || claimed == nil || claimed.ID != jobB.ID {
		t.Fatalf("ClaimNextRunnable second: got=%v err=%v", claimed, err)
	}

	// Both running with fresh heartbeats, nothing left to claim.
	claimed, err = repo.ClaimNextRunnable(ctx, tx, maxAttempts, retryDelay, staleRunning)
	if err != nil || claimed != nil {
		t.Fatalf("ClaimNextRunnable drained: got=%v err=%v", claimed, err)
	}

	// Failed job with attempts exhausted must stay unclaimed.
	oldError := time.Now().Add(-time.Hour)
	if err := repo.UpdateFields(ctx, tx, jobA.ID, map[string]interface{}{
		"status":        "failed",
		"attempts":      maxAttempts,
		"error":         "compose failed",
		"last_error_at": oldError,
	}); err != nil {
		t.Fatalf("UpdateFields fail jobA: %v", err)
	}
	claimed, err = repo.ClaimNextRunnable(ctx, tx, maxAttempts, retryDelay, staleRunning)
	if err != nil || claimed != nil {
		t.Fatalf("ClaimNextRunnable exhausted: got=%v err=%v", claimed, err)
	}

	// Failed job under the attempt cap becomes claimable after the retry delay.
	if err := repo.UpdateFields(ctx, tx, jobA.ID, map[string]interface{}{"attempts": 1}); err != nil {
		t.Fatalf("UpdateFields attempts jobA: %v", err)
	}
	claimed, err = repo.ClaimNextRunnable(ctx, tx, maxAttempts, retryDelay, staleRunning)
	if err != nil || claimed == nil || claimed.ID != jobA.ID {
		t.Fatalf("ClaimNextRunnable retry: got=%v err=%v", claimed, err)
	}

	// Stale running job is reclaimed, fresh one is not.
	staleBeat := time.Now().Add(-10 * time.Minute)
	if err := repo.UpdateFields(ctx, tx, jobB.ID, map[string]interface{}{"heartbeat_at": staleBeat}); err != nil {
		t.Fatalf("UpdateFields stale jobB: %v", err)
	}
	claimed, err = repo.ClaimNextRunnable(ctx, tx, maxAttempts, retryDelay, staleRunning)
	if err != nil || claimed == nil || claimed.ID != jobB.ID {
		t.Fatalf("ClaimNextRunnable stale: got=%v err=%v", claimed, err)
	}
	if got, err := repo.GetByID(ctx, tx, jobB.ID); err != nil || got == nil || got.Attempts != 2 {
		t.Fatalf("reclaimed jobB attempts: got=%+v err=%v", got, err)
	}

	if err := repo.Heartbeat(ctx, tx, jobB.ID); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
	if got, err := repo.GetByID(ctx, tx, jobB.ID); err != nil || got == nil || got.HeartbeatAt == nil || !got.HeartbeatAt.After(staleBeat) {
		t.Fatalf("Heartbeat verify: got=%+v err=%v", got, err)
	}
}

func TestRenderJobRepoLatestByCustomization(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewRenderJobRepo(db, testutil.Logger(t))

	product := testutil.SeedProduct(t, ctx, tx, "caneca-latest")
	template := testutil.SeedLayoutTemplate(t, ctx, tx, product.ID, "")
	custom := testutil.SeedCustomization(t, ctx, tx, product.ID, template.ID)

	production := testutil.SeedRenderJob(t, ctx, tx, custom.ID, "succeeded")
	preview := &types.RenderJob{
		ID:              uuid.New(),
		CustomizationID: custom.ID,
		Kind:            "preview",
		Status:          "succeeded",
		Width:           800,
		Height:          800,
	}
	if _, err := repo.Create(ctx, tx, []*types.RenderJob{preview}); err != nil {
		t.Fatalf("Create preview: %v", err)
	}

	if got, err := repo.GetLatestByCustomizationID(ctx, tx, custom.ID, ""); err != nil || got == nil || got.ID != preview.ID {
		t.Fatalf("GetLatestByCustomizationID any: got=%v err=%v", got, err)
	}
	if got, err := repo.GetLatestByCustomizationID(ctx, tx, custom.ID, "production"); err != nil || got == nil || got.ID != production.ID {
		t.Fatalf("GetLatestByCustomizationID production: got=%v err=%v", got, err)
	}
	if got, err := repo.GetLatestByCustomizationID(ctx, tx, uuid.New(), ""); err != nil || got != nil {
		t.Fatalf("GetLatestByCustomizationID missing: got=%v err=%v", got, err)
	}
}
