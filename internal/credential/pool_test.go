package credential

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, tokens ...string) *Pool {
	t.Helper()
	pool, err := NewPool(tokens)
	require.NoError(t, err)
	return pool
}

func TestNewPoolRejectsEmpty(t *testing.T) {
	_, err := NewPool(nil)
	assert.Error(t, err)

	_, err = NewPool([]string{"", ""})
	assert.Error(t, err)
}

func TestAcquireRoundRobin(t *testing.T) {
	pool := newTestPool(t, "a", "b", "c")

	var got []string
	for i := 0; i < 4; i++ {
		cred, err := pool.Acquire()
		require.NoError(t, err)
		got = append(got, cred.Token)
	}
	assert.Equal(t, []string{"a", "b", "c", "a"}, got)
}

func TestAcquireSkipsExhausted(t *testing.T) {
	pool := newTestPool(t, "a", "b", "c")

	a, err := pool.Acquire()
	require.NoError(t, err)
	require.Equal(t, "a", a.Token)

	b, err := pool.Acquire()
	require.NoError(t, err)
	require.Equal(t, "b", b.Token)

	pool.ReportLimited(b, time.Now().Add(time.Hour))

	var got []string
	for i := 0; i < 3; i++ {
		cred, err := pool.Acquire()
		require.NoError(t, err)
		got = append(got, cred.Token)
	}
	assert.NotContains(t, got, "b")
}

func TestPoolExhaustedAfterAllLimited(t *testing.T) {
	pool := newTestPool(t, "a", "b", "c")
	resetAt := time.Now().Add(time.Hour)

	for i := 0; i < pool.Size(); i++ {
		cred, err := pool.Acquire()
		require.NoError(t, err)
		pool.ReportLimited(cred, resetAt)
	}

	_, err := pool.Acquire()
	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.WithinDuration(t, resetAt, exhausted.ResetAt, time.Second)
	assert.Greater(t, exhausted.RetryAfter, time.Duration(0))
}

func TestExhaustedCredentialReactivatesAfterReset(t *testing.T) {
	pool := newTestPool(t, "c1", "c2")

	now := time.Now()
	pool.now = func() time.Time { return now }
	resetAt := now.Add(60 * time.Second)

	c1, err := pool.Acquire()
	require.NoError(t, err)
	pool.ReportLimited(c1, resetAt)

	c2, err := pool.Acquire()
	require.NoError(t, err)
	require.Equal(t, "c2", c2.Token)
	pool.ReportLimited(c2, resetAt)

	_, err = pool.Acquire()
	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)

	// Advance past the reset, both credentials become usable again
	now = now.Add(61 * time.Second)
	cred, err := pool.Acquire()
	require.NoError(t, err)
	assert.Equal(t, Active, cred.State)
}

func TestInvalidIsTerminal(t *testing.T) {
	pool := newTestPool(t, "bad", "good")

	bad, err := pool.Acquire()
	require.NoError(t, err)
	pool.ReportInvalid(bad)

	// A later rate-limit report must not resurrect an invalid credential
	pool.ReportLimited(bad, time.Now().Add(-time.Hour))

	for i := 0; i < 3; i++ {
		cred, err := pool.Acquire()
		require.NoError(t, err)
		assert.Equal(t, "good", cred.Token)
	}
}

func TestAllInvalid(t *testing.T) {
	pool := newTestPool(t, "a", "b")

	for i := 0; i < pool.Size(); i++ {
		cred, err := pool.Acquire()
		require.NoError(t, err)
		pool.ReportInvalid(cred)
	}

	_, err := pool.Acquire()
	assert.True(t, errors.Is(err, ErrNoCredentials))
}

func TestUpdateQuotaOnlyTouchesActive(t *testing.T) {
	pool := newTestPool(t, "a")

	cred, err := pool.Acquire()
	require.NoError(t, err)

	pool.UpdateQuota(cred, 42)
	assert.Equal(t, 42, cred.Remaining)

	pool.ReportLimited(cred, time.Now().Add(time.Hour))
	pool.UpdateQuota(cred, 99)
	assert.Equal(t, 0, cred.Remaining)
}

func TestConcurrentAcquire(t *testing.T) {
	pool := newTestPool(t, "a", "b", "c")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				cred, err := pool.Acquire()
				require.NoError(t, err)
				require.NotNil(t, cred)
				pool.UpdateQuota(cred, j)
			}
		}()
	}
	wg.Wait()
}
