package batch

import "sync/atomic"

// proxyCursor assigns proxy endpoints round-robin across workers. The
// cursor is a single atomic increment, the only synchronization the
// assignment needs.
type proxyCursor struct {
	endpoints []string
	cursor    atomic.Int64
}

func newProxyCursor(endpoints []string) *proxyCursor {
	return &proxyCursor{endpoints: endpoints}
}

// next returns the next endpoint in rotation, or "" when no proxies are
// configured (direct fetches).
func (p *proxyCursor) next() string {
	if len(p.endpoints) == 0 {
		return ""
	}
	n := p.cursor.Add(1) - 1
	return p.endpoints[int(n)%len(p.endpoints)]
}
