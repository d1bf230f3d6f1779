package db4d

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewExponentialBackoff_Success(t *testing.T) {
	backoff := newExponentialBackoff()
	assert.Equal(t, 200*time.Millisecond, backoff.backoffInterval)
	assert.Equal(t, 100*time.Millisecond, backoff.jitterInterval)
	assert.Equal(t, 2*time.Second, backoff.maxInterval)
	assert.Equal(t, int64(2), backoff.multiplier)
}

func TestExponentialBackoff_NextInterval(t *testing.T) {
	backoff := newExponentialBackoff()

	assert.Equal(t, time.Duration(0), backoff.NextInterval(-1))
	assert.Equal(t, time.Duration(0), backoff.NextInterval(0))

	next := backoff.NextInterval(1)
	assert.True(t, next >= backoff.backoffInterval)
	assert.True(t, next <= backoff.backoffInterval+backoff.jitterInterval)

	next = backoff.NextInterval(2)
	base := time.Duration(math.Pow(float64(backoff.multiplier), 1)) * backoff.backoffInterval
	assert.True(t, next >= base)
	assert.True(t, next <= base+backoff.jitterInterval)

	// order 5 saturates at maxInterval plus jitter.
	next = backoff.NextInterval(5)
	assert.True(t, next <= backoff.maxInterval+backoff.jitterInterval)
}

func TestNoBackoff_NextInterval(t *testing.T) {
	var b noBackoff
	for _, order := range []int{-1, 0, 1, 2, 5} {
		assert.Equal(t, time.Duration(0), b.NextInterval(order))
	}
}
