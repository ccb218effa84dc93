package riscv

// regcache is a small write-through cache over the six allocatable temps (cacheRegs):
// every produced value is stored to its stack slot the moment it's computed, so the cache
// never needs an explicit spill step — eviction just forgets a resident binding. When no
// register is free, the entry with the oldest touch is evicted, mirroring the teacher's
// seq-stamped lruI/lruF scan (hhramberg-go-vslc backend/riscv/riscv.go) generalized from a
// per-register sequence number to this cache's own monotonic touch counter.
type regcache struct {
	held  map[string]cacheKey // register -> resident value key
	resOf map[cacheKey]string // value key -> register, the inverse
	touch map[string]int
	tick  int
}

// cacheKey identifies a cacheable binding. Most are koopa.Value handles; the frame
// pointer/address registers never go through the cache (see materialize).
type cacheKey int

func newRegcache() *regcache {
	return &regcache{
		held:  make(map[string]cacheKey),
		resOf: make(map[cacheKey]string),
		touch: make(map[string]int),
	}
}

// reset drops all residency; called at the start of each basic block, since a register
// resident across a branch would require cross-block liveness analysis this cache doesn't
// do (spec.md §9 Design Notes' simplified register model).
func (c *regcache) reset() {
	c.held = make(map[string]cacheKey)
	c.resOf = make(map[cacheKey]string)
}

// lookup returns the register currently holding key, if any.
func (c *regcache) lookup(key cacheKey) (string, bool) {
	reg, ok := c.resOf[key]
	if ok {
		c.tick++
		c.touch[reg] = c.tick
	}
	return reg, ok
}

// acquire returns a register to compute a fresh binding for key into, evicting the
// least-recently-touched resident entry if all six are occupied. The caller is
// responsible for writing key's value through to memory before the register can be
// reused for anything else (every value-producing emitter calls funcCodegen.store right
// after computing into the acquired register).
func (c *regcache) acquire(key cacheKey) string {
	return c.acquireExcluding(key)
}

// acquireExcluding is acquire, but never picks a register in protect as the eviction
// victim — used while an instruction still has one or more operands resident that it
// hasn't finished consuming yet.
func (c *regcache) acquireExcluding(key cacheKey, protect ...string) string {
	isProtected := func(r string) bool {
		for _, p := range protect {
			if r == p {
				return true
			}
		}
		return false
	}
	for _, r := range cacheRegs {
		if _, busy := c.held[r]; !busy {
			c.bindReg(r, key)
			return r
		}
	}
	var victim string
	for _, r := range cacheRegs {
		if isProtected(r) {
			continue
		}
		if victim == "" || c.touch[r] < c.touch[victim] {
			victim = r
		}
	}
	delete(c.resOf, c.held[victim])
	c.bindReg(victim, key)
	return victim
}

func (c *regcache) bindReg(reg string, key cacheKey) {
	c.held[reg] = key
	c.resOf[key] = reg
	c.tick++
	c.touch[reg] = c.tick
}
