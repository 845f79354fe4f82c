package cache

import (
	"time"

	"github.com/pagao/pagao/client"
)

// Metadata describes a cached group snapshot
type Metadata struct {
	GroupID     int       `json:"group_id"`
	Name        string    `json:"name"`
	MemberCount int       `json:"member_count"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Snapshot is what the group screen last showed for a group
type Snapshot struct {
	Group   client.Group    `json:"group"`
	Members []client.Member `json:"members"`
}

// Entry is a complete cache entry with metadata and content
type Entry struct {
	Metadata Metadata
	Snapshot Snapshot
}

// Stats contains statistics about the cache
type Stats struct {
	TotalEntries int
	TotalSize    int64
	OldestEntry  time.Time
	NewestEntry  time.Time
	CacheDir     string
}

// CachedGroup is one group snapshot on disk
type CachedGroup struct {
	GroupID     int
	Name        string
	MemberCount int
	Size        int64
	FetchedAt   time.Time
	HasReceipts bool
}

// DetailedStats extends Stats with per-group breakdown
type DetailedStats struct {
	Stats
	Groups         []CachedGroup
	ReceiptSize    int64
	ReceiptEntries int
}

// PruneOptions configures cache pruning behavior
type PruneOptions struct {
	MaxAge time.Duration
	DryRun bool
}

// PruneResult contains information about pruned entries
type PruneResult struct {
	RemovedCount int
	FreedSpace   int64
	RemovedItems []string
}
