package riscv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegcacheReusesResidentValue(t *testing.T) {
	c := newRegcache()
	r1 := c.acquire(1)
	if got, ok := c.lookup(1); ok {
		assert.Equal(t, r1, got)
	} else {
		t.Fatal("expected key 1 to be resident after acquire")
	}
}

func TestRegcacheEvictsLeastRecentlyTouched(t *testing.T) {
	c := newRegcache()
	require.Len(t, cacheRegs, 6)

	var regs []string
	for i := 0; i < 6; i++ {
		regs = append(regs, c.acquire(cacheKey(i)))
	}
	// Touch every key except 0, so key 0 becomes the oldest.
	for i := 1; i < 6; i++ {
		c.lookup(cacheKey(i))
	}

	victimReg := regs[0]
	newReg := c.acquire(cacheKey(100))
	assert.Equal(t, victimReg, newReg)

	_, stillThere := c.lookup(cacheKey(0))
	assert.False(t, stillThere)
}

func TestRegcacheAcquireExcludingProtectsRegisters(t *testing.T) {
	c := newRegcache()
	var regs []string
	for i := 0; i < 6; i++ {
		regs = append(regs, c.acquire(cacheKey(i)))
	}
	// Protect every register except the last; the evicted victim must be that one.
	got := c.acquireExcluding(cacheKey(100), regs[:5]...)
	assert.Equal(t, regs[5], got)
}

func TestRegcacheResetDropsAllResidency(t *testing.T) {
	c := newRegcache()
	c.acquire(1)
	c.reset()
	_, ok := c.lookup(1)
	assert.False(t, ok)
}
