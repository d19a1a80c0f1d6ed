package mesh

// observer is the per-kind hook set every attribute implements. The mesh
// drives it in lockstep with its own arrays.
type observer interface {
	resize(n int)
	reset(i int)
	resetAll()
	permute(swaps []swap)
}

type swap struct{ a, b int32 }

type registryEntry struct {
	gen uint32
	// live returns nil once the attribute is released or collected.
	live func() observer
}

// registry is a slot map of weakly held attributes of one kind. Slots are
// recycled; the generation counter makes stale releases harmless.
type registry struct {
	entries  []registryEntry
	free     []int
	capacity int
}

func (r *registry) register(live func() observer) (slot int, gen uint32) {
	if n := len(r.free); n > 0 {
		slot = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		slot = len(r.entries)
		r.entries = append(r.entries, registryEntry{})
	}
	r.entries[slot].live = live
	return slot, r.entries[slot].gen
}

func (r *registry) unregister(slot int, gen uint32) {
	if slot < 0 || slot >= len(r.entries) {
		return
	}
	e := &r.entries[slot]
	if e.gen != gen || e.live == nil {
		return
	}
	e.live = nil
	e.gen++
	r.free = append(r.free, slot)
}

// each visits every live attribute and drops collected ones.
func (r *registry) each(fn func(observer)) {
	for i := range r.entries {
		e := &r.entries[i]
		if e.live == nil {
			continue
		}
		obs := e.live()
		if obs == nil {
			r.unregister(i, e.gen)
			continue
		}
		fn(obs)
	}
}

// len counts live attributes.
func (r *registry) len() int {
	n := 0
	r.each(func(observer) { n++ })
	return n
}

// ensure grows attribute storage to hold at least n slots, using a looser
// ratio than the topology arrays.
func (r *registry) ensure(n int) {
	if n <= r.capacity {
		return
	}
	r.capacity = max(n, 1+r.capacity+r.capacity/2)
	c := r.capacity
	r.each(func(o observer) { o.resize(c) })
}

func (r *registry) shrink(n int) {
	r.capacity = n
	r.each(func(o observer) { o.resize(n) })
}

func (r *registry) reset(i int) {
	r.each(func(o observer) { o.reset(i) })
}

func (r *registry) resetAll() {
	r.each(func(o observer) { o.resetAll() })
}

func (r *registry) permute(swaps []swap) {
	if len(swaps) == 0 {
		return
	}
	r.each(func(o observer) { o.permute(swaps) })
}

// AttributeCount returns the number of live attributes registered for kind.
func (m *Mesh) AttributeCount(k Kind) int {
	if k >= kindCount {
		return 0
	}
	return m.attrs[k].len()
}
