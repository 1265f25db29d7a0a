package web

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/sheet2db/internal/database"
)

func TestImportLimiter_AcquireRelease(t *testing.T) {
	l := newImportLimiter(2, time.Second)
	ctx := context.Background()

	assert.Equal(t, limiterStatus{Active: 0, Available: 2, MaxConcurrent: 2}, l.status())

	require.NoError(t, l.acquire(ctx))
	require.NoError(t, l.acquire(ctx))
	assert.Equal(t, limiterStatus{Active: 2, Available: 0, MaxConcurrent: 2}, l.status())

	l.release()
	assert.Equal(t, limiterStatus{Active: 1, Available: 1, MaxConcurrent: 2}, l.status())
	l.release()
	assert.Equal(t, 0, l.status().Active)
}

func TestImportLimiter_Defaults(t *testing.T) {
	l := newImportLimiter(0, 0)
	assert.Equal(t, defaultMaxConcurrentImports, l.status().MaxConcurrent)
	assert.Equal(t, defaultMaxWait, l.maxWait)
}

func TestImportLimiter_TimesOutWhenFull(t *testing.T) {
	l := newImportLimiter(1, 20*time.Millisecond)
	require.NoError(t, l.acquire(context.Background()))
	defer l.release()

	err := l.acquire(context.Background())
	assert.ErrorIs(t, err, errTooManyImports)
}

func TestImportLimiter_CancelledContext(t *testing.T) {
	l := newImportLimiter(1, time.Minute)
	require.NoError(t, l.acquire(context.Background()))
	defer l.release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImportLimiter_NeverExceedsMax(t *testing.T) {
	const limit = 3
	l := newImportLimiter(limit, time.Second)

	var running, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.acquire(context.Background()); err != nil {
				t.Error(err)
				return
			}
			defer l.release()

			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(limit))
	assert.Equal(t, 0, l.status().Active)
}

func TestImport_BusyServer(t *testing.T) {
	cfg := testConfig()
	cfg.Upload.MaxConcurrent = 1
	cfg.Upload.MaxWait = 10 * time.Millisecond
	s := NewServer(cfg, func(context.Context) (database.Conn, error) {
		t.Error("busy server must not connect")
		return &fakeConn{}, nil
	})

	require.NoError(t, s.limiter.acquire(context.Background()))
	defer s.limiter.release()

	rec := serve(s, uploadRequest(t, "/api/import", xlsx(t, ordersRows), nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
	assert.Equal(t, "5", rec.Header().Get("Retry-After"))
	assert.Equal(t, "SRV001", decodeError(t, rec).Code)
}
