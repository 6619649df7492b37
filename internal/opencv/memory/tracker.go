package memory

import (
	"sort"
	"sync"
	"time"

	"tagedge/internal/logger"
)

// Tracker accounts for the native memory held by tracked Mats. It implements
// safe.MemoryTracker.
type Tracker struct {
	mu           sync.Mutex
	logger       logger.Logger
	usedMemory   int64
	allocCount   int64
	deallocCount int64
	active       map[uint64]*MatInfo
}

type MatInfo struct {
	ID        uint64
	Tag       string
	Size      int64
	Timestamp time.Time
}

type Stats struct {
	Allocations   int64
	Deallocations int64
	UsedBytes     int64
	Active        int
}

func NewTracker(log logger.Logger) *Tracker {
	if log == nil {
		log = logger.Nop()
	}
	return &Tracker{
		logger: log,
		active: make(map[uint64]*MatInfo),
	}
}

func (t *Tracker) TrackAllocation(id uint64, size int64, tag string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.usedMemory += size
	t.allocCount++
	t.active[id] = &MatInfo{ID: id, Tag: tag, Size: size, Timestamp: time.Now()}
}

func (t *Tracker) TrackDeallocation(id uint64, tag string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.deallocCount++
	if info, ok := t.active[id]; ok {
		t.usedMemory -= info.Size
		delete(t.active, id)
	}
}

func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Stats{
		Allocations:   t.allocCount,
		Deallocations: t.deallocCount,
		UsedBytes:     t.usedMemory,
		Active:        len(t.active),
	}
}

// Report logs the counters and warns about the oldest Mats still alive.
func (t *Tracker) Report(limit int) {
	s := t.Stats()
	t.logger.Debug("MemoryTracker", "memory statistics", map[string]interface{}{
		"allocations":   s.Allocations,
		"deallocations": s.Deallocations,
		"used_bytes":    s.UsedBytes,
		"active_mats":   s.Active,
	})

	t.mu.Lock()
	live := make([]*MatInfo, 0, len(t.active))
	for _, info := range t.active {
		live = append(live, info)
	}
	t.mu.Unlock()

	sort.Slice(live, func(i, j int) bool { return live[i].Timestamp.Before(live[j].Timestamp) })
	if len(live) > limit {
		live = live[:limit]
	}

	now := time.Now()
	for _, info := range live {
		t.logger.Warning("MemoryTracker", "unreleased Mat", map[string]interface{}{
			"tag":  info.Tag,
			"size": info.Size,
			"age":  now.Sub(info.Timestamp).String(),
		})
	}
}
