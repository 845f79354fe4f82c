package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pagao/pagao/cache"
)

// RunCacheCommand handles all cache subcommands
func RunCacheCommand(env *Env, args []string) error {
	if env.Cache == nil {
		return errors.New("the cache is disabled")
	}
	if len(args) == 0 {
		printCacheUsage(env.Err)
		return &UsageError{Usage: "pagao cache <command>"}
	}

	subcommand := args[0]

	switch subcommand {
	case "stats":
		return handleCacheStats(env, args[1:])
	case "list":
		return handleCacheList(env, args[1:])
	case "clear":
		return handleCacheClear(env, args[1:])
	case "remove":
		return handleCacheRemove(env, args[1:])
	case "prune":
		return handleCachePrune(env, args[1:])
	default:
		printCacheUsage(env.Err)
		return fmt.Errorf("unknown cache command: %s", subcommand)
	}
}

func printCacheUsage(w io.Writer) {
	if w == nil {
		return
	}
	fmt.Fprintln(w, "Cache Management Commands:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  pagao cache stats               Show cache statistics")
	fmt.Fprintln(w, "  pagao cache list                List all cached groups")
	fmt.Fprintln(w, "  pagao cache clear               Clear entire cache")
	fmt.Fprintln(w, "  pagao cache remove <group-id>   Remove one group")
	fmt.Fprintln(w, "  pagao cache prune --days N      Remove groups older than N days")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  --json            Output in JSON format (stats, list)")
	fmt.Fprintln(w, "  --force, -f       Skip confirmation prompts")
	fmt.Fprintln(w, "  --dry-run         Preview changes without applying them")
	fmt.Fprintln(w, "  --days <N>        Age threshold in days (prune)")
}

// handleCacheStats shows cache statistics
func handleCacheStats(env *Env, args []string) error {
	fs := env.flagSet("stats")
	jsonOutput := fs.Bool("json", false, "Output in JSON format")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	stats, err := env.Cache.DetailedStats()
	if err != nil {
		return fmt.Errorf("getting cache stats: %w", err)
	}

	if *jsonOutput {
		return printJSON(env.Out, stats)
	}

	w := env.Out
	printHeader(w, "Cache Statistics")

	fmt.Fprintf(w, "Location:      %s\n", stats.CacheDir)
	fmt.Fprintf(w, "Total Groups:  %d\n", stats.TotalEntries)
	fmt.Fprintf(w, "Total Size:    %s\n", formatSize(stats.TotalSize))

	if !stats.OldestEntry.IsZero() {
		fmt.Fprintf(w, "Oldest Entry:  %s (%s)\n", formatDate(stats.OldestEntry), formatAge(stats.OldestEntry))
	}
	if !stats.NewestEntry.IsZero() {
		fmt.Fprintf(w, "Newest Entry:  %s (%s)\n", formatDate(stats.NewestEntry), formatAge(stats.NewestEntry))
	}

	// Show top groups by size
	if len(stats.Groups) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Top Groups by Size:")
		for i, g := range stats.Groups[:min(len(stats.Groups), 5)] {
			fmt.Fprintf(w, "  %d. %-30s %10s  (%d members)\n",
				i+1, fmt.Sprintf("%s #%d", g.Name, g.GroupID), formatSize(g.Size), g.MemberCount)
		}
	}

	if stats.ReceiptEntries > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Receipt Lists: %s (%d groups)\n", formatSize(stats.ReceiptSize), stats.ReceiptEntries)
	}
	return nil
}

// handleCacheList lists all cached groups
func handleCacheList(env *Env, args []string) error {
	fs := env.flagSet("list")
	jsonOutput := fs.Bool("json", false, "Output in JSON format")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	groups, err := env.Cache.List()
	if err != nil {
		return fmt.Errorf("listing cache: %w", err)
	}

	if *jsonOutput {
		return printJSON(env.Out, map[string]any{
			"groups":       groups,
			"total_groups": len(groups),
		})
	}

	w := env.Out
	if len(groups) == 0 {
		fmt.Fprintln(w, "Cache is empty")
		return nil
	}

	printHeader(w, "Cached Groups")

	var totalSize int64
	for _, g := range groups {
		totalSize += g.Size
		receipts := ""
		if g.HasReceipts {
			receipts = "  +receipts"
		}
		fmt.Fprintf(w, "%5d  %-24s %10s    %s%s\n",
			g.GroupID, g.Name, formatSize(g.Size), formatAge(g.FetchedAt), receipts)
	}

	fmt.Fprintf(w, "\nTotal: %d groups, %s\n", len(groups), formatSize(totalSize))
	return nil
}

// handleCacheClear clears the entire cache
func handleCacheClear(env *Env, args []string) error {
	fs := env.flagSet("clear")
	force := fs.Bool("force", false, "Skip confirmation")
	fs.BoolVar(force, "f", false, "Skip confirmation (shorthand)")
	dryRun := fs.Bool("dry-run", false, "Preview without deleting")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	stats, err := env.Cache.DetailedStats()
	if err != nil {
		return fmt.Errorf("getting cache stats: %w", err)
	}

	w := env.Out
	if stats.TotalEntries == 0 && stats.ReceiptEntries == 0 {
		fmt.Fprintln(w, "Cache is already empty")
		return nil
	}

	size := stats.TotalSize + stats.ReceiptSize
	fmt.Fprintf(w, "⚠️  Warning: This will delete ALL cached groups (%s)\n\n", formatSize(size))

	if *dryRun {
		fmt.Fprintln(w, "[DRY RUN] Would remove all cache entries")
		return nil
	}

	if !*force && !confirmAction(env.In, w, "Are you sure?") {
		fmt.Fprintln(w, "Cancelled")
		return nil
	}

	if err := env.Cache.Clear(); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	fmt.Fprintf(w, "✓ Removed %d groups\n", stats.TotalEntries)
	fmt.Fprintf(w, "✓ Freed %s of disk space\n", formatSize(size))
	return nil
}

// handleCacheRemove removes one group
func handleCacheRemove(env *Env, args []string) error {
	fs := env.flagSet("remove")
	force := fs.Bool("force", false, "Skip confirmation")
	fs.BoolVar(force, "f", false, "Skip confirmation (shorthand)")
	dryRun := fs.Bool("dry-run", false, "Preview without deleting")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return &UsageError{Usage: "pagao cache remove <group-id>"}
	}
	groupID, err := parseID(positional[0], "group ID")
	if err != nil {
		return err
	}

	w := env.Out
	entry, err := env.Cache.GetGroup(groupID, 0)
	switch {
	case err == nil:
		fmt.Fprintf(w, "Found cached group: %s #%d (%s)\n\n",
			entry.Metadata.Name, groupID, formatAge(entry.Metadata.FetchedAt))
	case errors.Is(err, cache.ErrMiss):
		// receipts may still be cached, Remove reports a real miss
	default:
		return fmt.Errorf("reading cache: %w", err)
	}

	if *dryRun {
		fmt.Fprintf(w, "[DRY RUN] Would remove group %d\n", groupID)
		return nil
	}

	if !*force && !confirmAction(env.In, w, fmt.Sprintf("Remove group %d?", groupID)) {
		fmt.Fprintln(w, "Cancelled")
		return nil
	}

	if err := env.Cache.Remove(groupID); err != nil {
		return fmt.Errorf("removing group: %w", err)
	}
	fmt.Fprintf(w, "✓ Removed group %d\n", groupID)
	return nil
}

// handleCachePrune removes old cache entries
func handleCachePrune(env *Env, args []string) error {
	fs := env.flagSet("prune")
	days := fs.Int("days", 0, "Remove entries older than this many days")
	force := fs.Bool("force", false, "Skip confirmation")
	fs.BoolVar(force, "f", false, "Skip confirmation (shorthand)")
	dryRun := fs.Bool("dry-run", false, "Preview without deleting")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	if *days <= 0 {
		return &UsageError{Usage: "pagao cache prune --days N [--force] [--dry-run]"}
	}

	w := env.Out
	maxAge := time.Duration(*days) * 24 * time.Hour

	fmt.Fprintf(w, "Analyzing cache entries older than %d days...\n\n", *days)

	// Always dry-run first to show what would be deleted
	result, err := env.Cache.Prune(cache.PruneOptions{MaxAge: maxAge, DryRun: true})
	if err != nil {
		return fmt.Errorf("analyzing cache: %w", err)
	}

	if result.RemovedCount == 0 {
		fmt.Fprintln(w, "No stale entries found")
		return nil
	}

	fmt.Fprintf(w, "Found %d stale entries:\n", result.RemovedCount)
	for _, item := range result.RemovedItems {
		fmt.Fprintf(w, "  └─ %s\n", item)
	}
	fmt.Fprintf(w, "\nTotal: %s to be freed\n\n", formatSize(result.FreedSpace))

	if *dryRun {
		fmt.Fprintln(w, "[DRY RUN] Preview complete")
		return nil
	}

	if !*force && !confirmAction(env.In, w, "Prune these entries?") {
		fmt.Fprintln(w, "Cancelled")
		return nil
	}

	result, err = env.Cache.Prune(cache.PruneOptions{MaxAge: maxAge})
	if err != nil {
		return fmt.Errorf("pruning cache: %w", err)
	}

	fmt.Fprintf(w, "✓ Removed %d entries\n", result.RemovedCount)
	fmt.Fprintf(w, "✓ Freed %s of disk space\n", formatSize(result.FreedSpace))
	return nil
}
