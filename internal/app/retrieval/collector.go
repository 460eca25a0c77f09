package retrieval

import (
	"sync"

	"github.com/dentalschoolguide/eden-agent/internal/domain"
)

// Collector is the side channel through which the retriever reports which
// knowledge-base sources contributed to a turn. The stream assembler reads
// it after the finish chunk to build the citations block. Safe for
// concurrent use; ids are deduplicated and keep first-seen order.
type Collector struct {
	mu   sync.Mutex
	ids  []domain.SourceID
	seen map[domain.SourceID]struct{}
}

func NewCollector() *Collector {
	return &Collector{seen: make(map[domain.SourceID]struct{})}
}

// Add records a source id once.
func (c *Collector) Add(id domain.SourceID) {
	if id == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.seen[id]; ok {
		return
	}
	c.seen[id] = struct{}{}
	c.ids = append(c.ids, id)
}

// SourceIDs returns the collected ids in first-seen order.
func (c *Collector) SourceIDs() []domain.SourceID {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.SourceID, len(c.ids))
	copy(out, c.ids)
	return out
}
