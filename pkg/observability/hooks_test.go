package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingPipelineHooks struct {
	NoopPipelineHooks
	mu         sync.Mutex
	packStarts int
}

func (r *recordingPipelineHooks) OnPackStart(_ context.Context, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packStarts++
}

type recordingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (r *recordingCacheHooks) OnCacheHit(_ context.Context, _ string) {
	r.hits++
}

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()

	ctx := context.Background()

	// Should not panic.
	Pipeline().OnLoadStart(ctx, "dir")
	Pipeline().OnPackStart(ctx, 3)
	Pipeline().OnPackComplete(ctx, 3, time.Millisecond, nil)
	Pipeline().OnEncodeComplete(ctx, []string{"png", "css"}, time.Millisecond, nil)
	Cache().OnCacheHit(ctx, "sheet")
	Cache().OnCacheMiss(ctx, "bitmap")
	Cache().OnCacheSet(ctx, "artifact", 128)
	Converter().OnConvert(ctx, "a.tex")
	Converter().OnConvertComplete(ctx, "a.tex", time.Millisecond, nil)
}

func TestSetPipelineHooks(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)

	Pipeline().OnPackStart(context.Background(), 5)
	Pipeline().OnPackStart(context.Background(), 5)

	if rec.packStarts != 2 {
		t.Errorf("packStarts = %d, want 2", rec.packStarts)
	}
}

func TestSetCacheHooks(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	rec := &recordingCacheHooks{}
	SetCacheHooks(rec)

	Cache().OnCacheHit(context.Background(), "sheet")

	if rec.hits != 1 {
		t.Errorf("hits = %d, want 1", rec.hits)
	}
}

func TestSetNilHooksIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	SetConverterHooks(nil)

	if Pipeline() == nil || Cache() == nil || Converter() == nil {
		t.Fatal("nil hooks should be ignored, defaults retained")
	}
}

func TestReset(t *testing.T) {
	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)
	Reset()

	Pipeline().OnPackStart(context.Background(), 1)

	if rec.packStarts != 0 {
		t.Errorf("hooks still registered after Reset, packStarts = %d", rec.packStarts)
	}
}
