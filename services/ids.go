package services

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

const idPrefix = "music_"

// idGenerator hands out music_<unix millis> ids. Two calls in the same
// millisecond, or a clock that steps backwards, still yield increasing ids.
type idGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newIDGenerator(existing []string) *idGenerator {
	g := &idGenerator{now: time.Now}
	for _, id := range existing {
		if ms, ok := parseID(id); ok && ms > g.last {
			g.last = ms
		}
	}
	return g
}

func (g *idGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms

	return fmt.Sprintf("%s%d", idPrefix, ms)
}

func parseID(id string) (int64, bool) {
	raw, ok := strings.CutPrefix(id, idPrefix)
	if !ok {
		return 0, false
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return ms, true
}
