// Package cache keeps the last known state of groups on disk so the CLI can
// still show something when the API cannot be reached.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pagao/pagao/client"
)

var (
	// ErrMiss is returned when nothing is cached for the key
	ErrMiss = errors.New("cache miss")
	// ErrExpired is returned when the entry is older than the allowed age
	ErrExpired = errors.New("cache expired")
)

const (
	groupsDir   = "groups"
	receiptsDir = "receipts"

	metadataFile = "metadata.json"
	snapshotFile = "snapshot.json"
)

// Cache manages the local file cache for pagao
type Cache struct {
	baseDir string
	now     func() time.Time
}

// NewCache creates a new cache manager with the specified directory
func NewCache(dir string) (*Cache, error) {
	for _, d := range []string{dir, filepath.Join(dir, groupsDir), filepath.Join(dir, receiptsDir)} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	return &Cache{baseDir: dir, now: time.Now}, nil
}

// Dir returns the cache directory
func (c *Cache) Dir() string {
	return c.baseDir
}

// GetGroup retrieves the snapshot of a group if it is younger than maxAge
func (c *Cache) GetGroup(groupID int, maxAge time.Duration) (*Entry, error) {
	dir := c.groupDir(groupID)

	var metadata Metadata
	if err := readJSON(filepath.Join(dir, metadataFile), &metadata); err != nil {
		return nil, err
	}

	if maxAge > 0 && c.now().Sub(metadata.FetchedAt) > maxAge {
		return nil, fmt.Errorf("group %d: %w", groupID, ErrExpired)
	}

	var snapshot Snapshot
	if err := readJSON(filepath.Join(dir, snapshotFile), &snapshot); err != nil {
		return nil, err
	}

	return &Entry{Metadata: metadata, Snapshot: snapshot}, nil
}

// PutGroup saves a snapshot, replacing any previous one of the same group
func (c *Cache) PutGroup(snapshot Snapshot) error {
	if snapshot.Group.ID == 0 {
		return fmt.Errorf("cannot cache a group without ID")
	}
	dir := c.groupDir(snapshot.Group.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	// content first, the metadata file marks the entry complete
	if err := writeJSON(filepath.Join(dir, snapshotFile), snapshot); err != nil {
		return err
	}
	metadata := Metadata{
		GroupID:     snapshot.Group.ID,
		Name:        snapshot.Group.Name,
		MemberCount: len(snapshot.Members),
		FetchedAt:   c.now(),
	}
	return writeJSON(filepath.Join(dir, metadataFile), metadata)
}

type receiptList struct {
	GroupID   int              `json:"group_id"`
	FetchedAt time.Time        `json:"fetched_at"`
	Receipts  []client.Receipt `json:"receipts"`
}

// PutReceipts saves the receipt list of a group
func (c *Cache) PutReceipts(groupID int, receipts []client.Receipt) error {
	return writeJSON(c.receiptsPath(groupID), receiptList{
		GroupID:   groupID,
		FetchedAt: c.now(),
		Receipts:  receipts,
	})
}

// GetReceipts retrieves the receipt list of a group and when it was fetched
func (c *Cache) GetReceipts(groupID int, maxAge time.Duration) ([]client.Receipt, time.Time, error) {
	var list receiptList
	if err := readJSON(c.receiptsPath(groupID), &list); err != nil {
		return nil, time.Time{}, err
	}
	if maxAge > 0 && c.now().Sub(list.FetchedAt) > maxAge {
		return nil, time.Time{}, fmt.Errorf("receipts of group %d: %w", groupID, ErrExpired)
	}
	return list.Receipts, list.FetchedAt, nil
}

// Clear removes all cached content
func (c *Cache) Clear() error {
	for _, name := range []string{groupsDir, receiptsDir} {
		dir := filepath.Join(c.baseDir, name)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to clear %s cache: %w", name, err)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to recreate %s directory: %w", name, err)
		}
	}
	return nil
}

// Remove drops everything cached for a group
func (c *Cache) Remove(groupID int) error {
	dir := c.groupDir(groupID)
	receipts := c.receiptsPath(groupID)

	_, dirErr := os.Stat(dir)
	_, receiptsErr := os.Stat(receipts)
	if os.IsNotExist(dirErr) && os.IsNotExist(receiptsErr) {
		return fmt.Errorf("group %d: %w", groupID, ErrMiss)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove group: %w", err)
	}
	if err := os.Remove(receipts); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove receipts: %w", err)
	}
	return nil
}

// List returns all cached groups ordered by ID
func (c *Cache) List() ([]CachedGroup, error) {
	entries, err := os.ReadDir(filepath.Join(c.baseDir, groupsDir))
	if os.IsNotExist(err) {
		return []CachedGroup{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	groups := make([]CachedGroup, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue // not ours
		}

		dir := c.groupDir(id)
		var metadata Metadata
		if err := readJSON(filepath.Join(dir, metadataFile), &metadata); err != nil {
			continue // incomplete or corrupted entry
		}

		groups = append(groups, CachedGroup{
			GroupID:     id,
			Name:        metadata.Name,
			MemberCount: metadata.MemberCount,
			Size:        fileSize(filepath.Join(dir, metadataFile)) + fileSize(filepath.Join(dir, snapshotFile)),
			FetchedAt:   metadata.FetchedAt,
			HasReceipts: fileSize(c.receiptsPath(id)) > 0,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].GroupID < groups[j].GroupID
	})
	return groups, nil
}

// Stats returns statistics about the group snapshots
func (c *Cache) Stats() (*Stats, error) {
	groups, err := c.List()
	if err != nil {
		return nil, err
	}

	stats := &Stats{CacheDir: c.baseDir}
	for i, g := range groups {
		stats.TotalEntries++
		stats.TotalSize += g.Size
		if i == 0 || g.FetchedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = g.FetchedAt
		}
		if g.FetchedAt.After(stats.NewestEntry) {
			stats.NewestEntry = g.FetchedAt
		}
	}
	return stats, nil
}

// DetailedStats returns statistics with a per-group breakdown, largest first
func (c *Cache) DetailedStats() (*DetailedStats, error) {
	stats, err := c.Stats()
	if err != nil {
		return nil, err
	}
	groups, err := c.List()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Size > groups[j].Size
	})

	detailed := &DetailedStats{Stats: *stats, Groups: groups}
	if entries, err := os.ReadDir(filepath.Join(c.baseDir, receiptsDir)); err == nil {
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			if info, err := entry.Info(); err == nil {
				detailed.ReceiptSize += info.Size()
				detailed.ReceiptEntries++
			}
		}
	}
	return detailed, nil
}

// Prune removes group snapshots older than opts.MaxAge
func (c *Cache) Prune(opts PruneOptions) (*PruneResult, error) {
	groups, err := c.List()
	if err != nil {
		return nil, err
	}

	result := &PruneResult{RemovedItems: []string{}}
	now := c.now()

	for _, g := range groups {
		if now.Sub(g.FetchedAt) <= opts.MaxAge {
			continue
		}
		size := g.Size + fileSize(c.receiptsPath(g.GroupID))
		if !opts.DryRun {
			if err := c.Remove(g.GroupID); err != nil {
				continue
			}
		}
		result.RemovedCount++
		result.FreedSpace += size
		result.RemovedItems = append(result.RemovedItems, fmt.Sprintf("%d (%s)", g.GroupID, g.Name))
	}

	return result, nil
}

func (c *Cache) groupDir(groupID int) string {
	return filepath.Join(c.baseDir, groupsDir, strconv.Itoa(groupID))
}

func (c *Cache) receiptsPath(groupID int) string {
	return filepath.Join(c.baseDir, receiptsDir, strconv.Itoa(groupID)+".json")
}

// writeJSON writes v atomically (write to temp file, then rename)
func writeJSON(path string, v any) error {
	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	file.Close()

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save cache file: %w", err)
	}
	return nil
}

func readJSON(path string, v any) error {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", filepath.Base(filepath.Dir(path)), ErrMiss)
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
