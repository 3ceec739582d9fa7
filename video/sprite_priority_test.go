package video

import "testing"

import "github.com/stretchr/testify/assert"

func TestLowerXWinsOverlap(t *testing.T) {
	var sp spritePriority
	sp.reset()

	for px := 5; px < 13; px++ {
		sp.claim(px, 0, 5) // sprite 0 at X=5
	}
	for px := 10; px < 18; px++ {
		sp.claim(px, 1, 10) // sprite 1 at X=10, overlaps 10-12
	}

	assert.Equal(t, 0, sp.owner(10))
	assert.Equal(t, 0, sp.owner(12))
	assert.Equal(t, 1, sp.owner(13))
}

func TestSameXLowerOAMIndexWins(t *testing.T) {
	var sp spritePriority
	sp.reset()

	sp.claim(12, 3, 12)
	sp.claim(12, 1, 12) // lower OAM index, same X: should win even though claimed second

	assert.Equal(t, 1, sp.owner(12))
}

func TestUnclaimedPixelHasNoOwner(t *testing.T) {
	var sp spritePriority
	sp.reset()
	assert.Equal(t, -1, sp.owner(50))
}

func TestClaimOutOfBoundsIsIgnored(t *testing.T) {
	var sp spritePriority
	sp.reset()
	assert.False(t, sp.claim(-1, 0, 0))
	assert.False(t, sp.claim(FramebufferWidth, 0, 0))
}
