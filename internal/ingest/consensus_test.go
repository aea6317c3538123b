package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func key(b byte) []byte {
	k := make([]byte, 32)
	k[0] = b
	return k
}

func TestGeoCluster_ConfidenceGrowsWithUniqueReporters(t *testing.T) {
	t.Parallel()

	var c geoCluster
	c.observe(key(1), 0)
	oneReporter := c.confidence()

	c.observe(key(2), 0)
	c.observe(key(3), 0)
	threeReporters := c.confidence()

	assert.Greater(t, threeReporters, oneReporter)
	assert.LessOrEqual(t, threeReporters, 1.0)
}

func TestGeoCluster_DuplicateReportsDoNotInflateConfidence(t *testing.T) {
	t.Parallel()

	var c geoCluster
	c.observe(key(1), 0)
	single := c.confidence()

	for i := 0; i < 10; i++ {
		c.observe(key(1), 0) // same device, repeated
	}
	repeated := c.confidence()

	assert.Less(t, repeated, single, "spam from a single repeated signer must be penalized, not rewarded")
}

func TestGeoCluster_ConsensusReachedAtThreshold(t *testing.T) {
	t.Parallel()

	var c geoCluster
	c.observe(key(1), 0)
	c.observe(key(2), 0)
	assert.False(t, c.consensusReached(3), "2 unique devices should be below a 3-device threshold")

	c.observe(key(3), 0)
	assert.True(t, c.consensusReached(3), "3 unique devices should reach a 3-device threshold")
}

func TestClusterStore_SameGeoAndMinuteShareACluster(t *testing.T) {
	t.Parallel()

	s := newClusterStore()
	p1 := Packet{LatE7: 410123456, LonE7: 289876543, CreatedAtMs: 1_700_000_000_000, PublicKey: key(1)}
	p2 := Packet{LatE7: 410123460, LonE7: 289876540, CreatedAtMs: 1_700_000_000_500, PublicKey: key(2)}

	c1 := s.observe(p1)
	c2 := s.observe(p2)

	assert.Same(t, c1, c2)
	assert.Len(t, c1.keys, 2)
}

func TestRateLimiter_BlocksAfterMaxWithinWindow(t *testing.T) {
	t.Parallel()

	r := newRateLimiter(60_000_000_000, 2) // 60s window in nanoseconds, max 2
	assert.True(t, r.Allow("k", 1000))
	assert.True(t, r.Allow("k", 1000))
	assert.False(t, r.Allow("k", 1000), "third request within the same window must be blocked")
}

func TestRateLimiter_ResetsAfterWindowElapses(t *testing.T) {
	t.Parallel()

	r := newRateLimiter(60_000_000_000, 1)
	assert.True(t, r.Allow("k", 0))
	assert.False(t, r.Allow("k", 1))
	assert.True(t, r.Allow("k", 70_000), "a new window should allow a fresh request")
}
