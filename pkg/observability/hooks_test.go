package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// recorder counts calls made through the global registry.
type recorder struct {
	NoopPipelineHooks
	NoopCacheHooks
	NoopHTTPHooks

	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) OnLayoutComplete(_ context.Context, family string, rep LayoutReport, _ time.Duration, err error) {
	if err != nil {
		r.add("layout-failed:" + family)
		return
	}
	r.add("layout:" + family)
}

func (r *recorder) OnCacheHit(_ context.Context, keyType string) { r.add("hit:" + keyType) }

func (r *recorder) OnResponse(_ context.Context, method, route string, _ int, _ time.Duration) {
	r.add(method + " " + route)
}

func TestNoopHooks(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnLayoutStart(ctx, "smiths", 12)
	p.OnLayoutComplete(ctx, "smiths", LayoutReport{Nodes: 14}, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/layout")
	h.OnResponse(ctx, "POST", "/v1/layout", 200, time.Second)
}

func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	assert.IsType(t, NoopPipelineHooks{}, Pipeline())
	assert.IsType(t, NoopCacheHooks{}, Cache())
	assert.IsType(t, NoopHTTPHooks{}, HTTP())

	rec := &recorder{}
	SetPipelineHooks(rec)
	SetCacheHooks(rec)
	SetHTTPHooks(rec)

	ctx := context.Background()
	Pipeline().OnLayoutComplete(ctx, "smiths", LayoutReport{}, 0, nil)
	Pipeline().OnLayoutComplete(ctx, "joneses", LayoutReport{}, 0, errors.New("boom"))
	Cache().OnCacheHit(ctx, "layout")
	HTTP().OnResponse(ctx, "GET", "/healthz", 200, 0)

	assert.Equal(t, []string{"layout:smiths", "layout-failed:joneses", "hit:layout", "GET /healthz"}, rec.events)

	Reset()
	assert.IsType(t, NoopPipelineHooks{}, Pipeline())
}

func TestSetNilIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	rec := &recorder{}
	SetPipelineHooks(rec)
	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	SetHTTPHooks(nil)

	assert.Same(t, rec, Pipeline())
	assert.IsType(t, NoopCacheHooks{}, Cache())
}

func TestRegistryConcurrent(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetCacheHooks(&recorder{})
		}()
		go func() {
			defer wg.Done()
			Cache().OnCacheMiss(context.Background(), "layout")
		}()
	}
	wg.Wait()
}
