package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pagao/pagao/cache"
	"github.com/pagao/pagao/client"
	"github.com/pagao/pagao/screen/groupcreate"
	"github.com/pagao/pagao/screen/groupdetail"
	"github.com/pagao/pagao/screen/groupjoin"
	"github.com/pagao/pagao/screen/grouplist"
)

// RunGroups lists the groups of the signed in user
func RunGroups(ctx context.Context, env *Env, args []string) error {
	fs := env.flagSet("groups")
	jsonOutput := fs.Bool("json", false, "Output in JSON format")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	c := grouplist.New(env.Client, env.deps(ctx))
	defer c.Close()

	c.Handle(grouplist.LoadGroups{})
	c.Wait()

	state := c.State()
	if err := failed(state.Status); err != nil {
		return err
	}

	if *jsonOutput {
		return printJSON(env.Out, state.Groups)
	}
	if len(state.Groups) == 0 {
		fmt.Fprintln(env.Out, "You are not in any group yet")
		return nil
	}

	printHeader(env.Out, "Your Groups")
	for _, g := range state.Groups {
		fmt.Fprintf(env.Out, "%5d  %s\n", g.ID, g.Name)
		if desc := g.DescriptionText(); desc != "" {
			fmt.Fprintf(env.Out, "       %s\n", desc)
		}
	}
	fmt.Fprintf(env.Out, "\nTotal: %d groups\n", len(state.Groups))
	return nil
}

// RunGroup shows one group, or creates one with "group create"
func RunGroup(ctx context.Context, env *Env, args []string) error {
	if len(args) > 0 && args[0] == "create" {
		return RunGroupCreate(ctx, env, args[1:])
	}

	fs := env.flagSet("group")
	jsonOutput := fs.Bool("json", false, "Output in JSON format")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return &UsageError{Usage: "pagao group <group-id> [--json] | pagao group create --name <name>"}
	}
	groupID, err := parseID(positional[0], "group ID")
	if err != nil {
		return err
	}

	c := groupdetail.New(env.Client, env.deps(ctx))
	defer c.Close()

	c.Handle(groupdetail.LoadGroup{GroupID: groupID})
	c.Wait()

	state := c.State()
	if err := failed(state.Status); err != nil {
		return env.showCachedGroup(groupID, err, *jsonOutput)
	}
	if state.Group.ID == 0 {
		return fmt.Errorf("group %d: the server returned no data", groupID)
	}

	snapshot := cache.Snapshot{Group: state.Group, Members: state.Members}
	if env.Cache != nil {
		if err := env.Cache.PutGroup(snapshot); err != nil {
			env.Logger.Warn("Failed to cache group", "group", groupID, "error", err)
		}
	}
	return printGroup(env.Out, snapshot, time.Time{}, *jsonOutput)
}

// showCachedGroup prints the last snapshot of a group after loadErr. When
// there is none, loadErr is returned unchanged.
func (e *Env) showCachedGroup(groupID int, loadErr error, jsonOutput bool) error {
	if e.Cache == nil || IsSessionExpired(loadErr) {
		return loadErr
	}
	entry, err := e.Cache.GetGroup(groupID, e.cacheTTL())
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			e.Logger.Debug("Cached group not usable", "group", groupID, "error", err)
		}
		return loadErr
	}

	e.Logger.Warn("Showing cached group", "error", loadErr, "fetched", formatAge(entry.Metadata.FetchedAt))
	return printGroup(e.Out, entry.Snapshot, entry.Metadata.FetchedAt, jsonOutput)
}

type groupOutput struct {
	Group     client.Group    `json:"group"`
	Members   []client.Member `json:"members"`
	Cached    bool            `json:"cached"`
	FetchedAt *time.Time      `json:"fetched_at,omitempty"`
}

// printGroup renders a snapshot. A non-zero cachedAt marks it as cached.
func printGroup(w io.Writer, s cache.Snapshot, cachedAt time.Time, jsonOutput bool) error {
	if jsonOutput {
		out := groupOutput{Group: s.Group, Members: s.Members}
		if !cachedAt.IsZero() {
			out.Cached = true
			out.FetchedAt = &cachedAt
		}
		return printJSON(w, out)
	}

	title := s.Group.Name
	if !cachedAt.IsZero() {
		title += fmt.Sprintf(" (cached %s)", formatAge(cachedAt))
	}
	printHeader(w, title)
	if desc := s.Group.DescriptionText(); desc != "" {
		fmt.Fprintf(w, "%s\n\n", desc)
	}

	if len(s.Members) == 0 {
		fmt.Fprintln(w, "No members yet")
		return nil
	}
	fmt.Fprintln(w, "Members:")
	for _, m := range s.Members {
		claimed := ""
		if m.UserID != nil {
			claimed = "  (claimed)"
		}
		fmt.Fprintf(w, "  └─ %-24s %12s%s\n", m.Name, formatMoney(m.Balance), claimed)
	}
	return nil
}

// RunGroupCreate creates a group
func RunGroupCreate(ctx context.Context, env *Env, args []string) error {
	fs := env.flagSet("group create")
	name := fs.String("name", "", "Group name")
	description := fs.String("description", "", "Optional description")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if *name == "" && len(positional) == 1 {
		*name = positional[0]
	}

	c := groupcreate.New(env.Client, env.deps(ctx))
	defer c.Close()

	c.Handle(groupcreate.CreateGroup{Name: *name, Description: *description})
	c.Wait()

	state := c.State()
	if err := failed(state.Status); err != nil {
		return err
	}
	if state.Created == nil {
		return fmt.Errorf("the server did not return the new group")
	}

	fmt.Fprintf(env.Out, "✓ Created group %s (#%d)\n", state.Created.Name, state.Created.ID)
	fmt.Fprintf(env.Out, "\nShare the ID %d so others can run: pagao join %d\n", state.Created.ID, state.Created.ID)
	return nil
}

// RunJoin claims a free member of a group for the signed in user
func RunJoin(ctx context.Context, env *Env, args []string) error {
	fs := env.flagSet("join")
	memberID := fs.Int("member", 0, "Member to claim (prompted when omitted)")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return &UsageError{Usage: "pagao join <group-id> [--member <member-id>]"}
	}
	groupID, err := parseID(positional[0], "group ID")
	if err != nil {
		return err
	}

	c := groupjoin.New(env.Client, env.deps(ctx))
	defer c.Close()

	c.Handle(groupjoin.LoadGroup{GroupID: groupID})
	c.Wait()

	state := c.State()
	if err := failed(state.Status); err != nil {
		return err
	}
	if len(state.AvailableMembers) == 0 {
		return fmt.Errorf("every member of %s is already taken", state.Group.Name)
	}

	member := client.Member{ID: *memberID}
	if member.ID == 0 {
		title := fmt.Sprintf("Who are you in %s?", state.Group.Name)
		if member, err = env.Prompter.SelectMember(title, state.AvailableMembers); err != nil {
			return fmt.Errorf("join cancelled: %w", err)
		}
	}

	joined := false
	c.Handle(groupjoin.SelectMember{Member: member})
	c.Handle(groupjoin.JoinGroup{OnDone: func() { joined = true }})
	c.Wait()

	state = c.State()
	if err := failed(state.Status); err != nil {
		return err
	}
	if !joined {
		return fmt.Errorf("join did not complete")
	}

	fmt.Fprintf(env.Out, "✓ Joined %s as %s\n", state.Group.Name, state.SelectedMember.Name)
	return nil
}
