package registry

// PopulatorCache caches the most recent value a type's Populator
// produced, and the value from the previous poll cycle, so callers
// responding to repeated requests for the same populated type (e.g. a
// telemetry snapshot requested every beacon interval) don't have to
// invoke a potentially expensive Populator on every single request if
// nothing has asked for a fresh cycle boundary yet.
//
// The cache is a current/previous double buffer: each EndCycle swaps
// "current" into "previous" and starts a fresh "current" map, so a
// caller can tell whether a given type was populated at all during the
// cycle that just ended.
//
// PopulatorCache is NOT threadsafe, matching the single-threaded
// cooperative model the rest of the library assumes.
type PopulatorCache struct {
	current  map[TypeID]interface{}
	previous map[TypeID]interface{}
	cycles   int64
}

// NewPopulatorCache creates an empty cache.
func NewPopulatorCache() *PopulatorCache {
	return &PopulatorCache{
		current:  make(map[TypeID]interface{}),
		previous: make(map[TypeID]interface{}),
	}
}

// Get invokes the registry's Populator for id if this cycle hasn't
// already populated it, caching (and returning) the result. Subsequent
// Gets for the same id within the same cycle return the cached value
// without re-invoking the populator.
func (c *PopulatorCache) Get(r *Registry, id TypeID) (interface{}, error) {
	if v, ok := c.current[id]; ok {
		return v, nil
	}
	v, err := r.Populate(id)
	if err != nil {
		return nil, err
	}
	c.current[id] = v
	return v, nil
}

// EndCycle marks the completion of one polling round. It returns the
// values cached in the cycle before the one now ending (the previous
// map, from two cycles back), whether or not those types were populated
// again since - the counterpart of Cache.EndCycle's eviction return
// value.
func (c *PopulatorCache) EndCycle() map[TypeID]interface{} {
	stale := c.previous
	c.previous = c.current
	c.current = make(map[TypeID]interface{}, len(c.previous))
	c.cycles++
	return stale
}

// CycleCount returns the number of completed EndCycle calls.
func (c *PopulatorCache) CycleCount() int64 {
	return c.cycles
}
