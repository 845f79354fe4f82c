package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pagao/pagao/cache"
	"github.com/pagao/pagao/client"
	"github.com/pagao/pagao/screen/receiptcreate"
	"github.com/pagao/pagao/screen/receiptdetail"
	"github.com/pagao/pagao/screen/receiptlist"
)

// RunReceipts lists the receipts of a group
func RunReceipts(ctx context.Context, env *Env, args []string) error {
	fs := env.flagSet("receipts")
	jsonOutput := fs.Bool("json", false, "Output in JSON format")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return &UsageError{Usage: "pagao receipts <group-id> [--json]"}
	}
	groupID, err := parseID(positional[0], "group ID")
	if err != nil {
		return err
	}

	c := receiptlist.New(env.Client, env.deps(ctx))
	defer c.Close()

	c.Handle(receiptlist.LoadReceipts{GroupID: groupID})
	c.Wait()

	state := c.State()
	receipts := state.Receipts
	var cachedAt time.Time

	if loadErr := failed(state.Status); loadErr != nil {
		if env.Cache == nil || IsSessionExpired(loadErr) {
			return loadErr
		}
		cached, fetchedAt, err := env.Cache.GetReceipts(groupID, env.cacheTTL())
		if err != nil {
			if !errors.Is(err, cache.ErrMiss) {
				env.Logger.Debug("Cached receipts not usable", "group", groupID, "error", err)
			}
			return loadErr
		}
		env.Logger.Warn("Showing cached receipts", "error", loadErr, "fetched", formatAge(fetchedAt))
		receipts, cachedAt = cached, fetchedAt
	} else if env.Cache != nil {
		if err := env.Cache.PutReceipts(groupID, receipts); err != nil {
			env.Logger.Warn("Failed to cache receipts", "group", groupID, "error", err)
		}
	}

	if *jsonOutput {
		return printJSON(env.Out, receipts)
	}
	if len(receipts) == 0 {
		fmt.Fprintln(env.Out, "No receipts yet")
		return nil
	}

	title := fmt.Sprintf("Receipts of group %d", groupID)
	if !cachedAt.IsZero() {
		title += fmt.Sprintf(" (cached %s)", formatAge(cachedAt))
	}
	printHeader(env.Out, title)

	var total float64
	for _, r := range receipts {
		paid := receiptTotal(r)
		total += paid
		fmt.Fprintf(env.Out, "%5d  %-30s %12s\n", r.ID, r.Name, formatMoney(paid))
	}
	fmt.Fprintf(env.Out, "\nTotal: %d receipts, %s\n", len(receipts), formatMoney(total))
	return nil
}

// RunReceipt shows one receipt, or drafts one with "receipt create"
func RunReceipt(ctx context.Context, env *Env, args []string) error {
	if len(args) > 0 && args[0] == "create" {
		return RunReceiptCreate(ctx, env, args[1:])
	}

	fs := env.flagSet("receipt")
	jsonOutput := fs.Bool("json", false, "Output in JSON format")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return &UsageError{Usage: "pagao receipt <receipt-id> [--json] | pagao receipt create <group-id> ..."}
	}
	receiptID, err := parseID(positional[0], "receipt ID")
	if err != nil {
		return err
	}

	c := receiptdetail.New(env.Client, env.deps(ctx))
	defer c.Close()

	c.Handle(receiptdetail.LoadReceipt{ReceiptID: receiptID})
	c.Wait()

	state := c.State()
	if err := failed(state.Status); err != nil {
		return err
	}
	if state.Receipt.ID == 0 {
		return fmt.Errorf("receipt %d: the server returned no data", receiptID)
	}

	if *jsonOutput {
		return printJSON(env.Out, state.Receipt)
	}
	printReceipt(env.Out, state)
	return nil
}

func printReceipt(w io.Writer, s receiptdetail.State) {
	r := s.Receipt
	printHeader(w, r.Name)
	if r.Description != nil && *r.Description != "" {
		fmt.Fprintf(w, "%s\n\n", *r.Description)
	}
	fmt.Fprintf(w, "Total: %s\n\n", formatMoney(receiptTotal(r)))

	if len(r.Participations) == 0 {
		fmt.Fprintln(w, "No participants")
		return
	}
	fmt.Fprintf(w, "  %-24s %12s %12s\n", "Member", "Paid", "Owed")
	for _, p := range r.Participations {
		fmt.Fprintf(w, "  %-24s %12s %12s\n", s.MemberName(p.MemberID), formatMoney(p.Paid), formatMoney(p.Owed))
	}
}

func receiptTotal(r client.Receipt) float64 {
	if r.TotalPaid != nil {
		return *r.TotalPaid
	}
	var cents int64
	for _, p := range r.Participations {
		cents += receiptcreate.ToCents(p.Paid)
	}
	return receiptcreate.FromCents(cents)
}

// shareFlag collects --share member:paid:owed values
type shareFlag []receiptcreate.SetParticipation

func (s *shareFlag) String() string {
	parts := make([]string, len(*s))
	for i, p := range *s {
		parts[i] = fmt.Sprintf("%d:%g:%g", p.MemberID, p.Paid, p.Owed)
	}
	return strings.Join(parts, ",")
}

func (s *shareFlag) Set(value string) error {
	fields := strings.Split(value, ":")
	if len(fields) != 3 {
		return fmt.Errorf("expected member:paid:owed, got %q", value)
	}
	memberID, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("invalid member ID %q", fields[0])
	}
	paid, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return fmt.Errorf("invalid paid amount %q", fields[1])
	}
	owed, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return fmt.Errorf("invalid owed amount %q", fields[2])
	}
	*s = append(*s, receiptcreate.SetParticipation{MemberID: memberID, Paid: paid, Owed: owed})
	return nil
}

// RunReceiptCreate drafts a receipt and submits it
func RunReceiptCreate(ctx context.Context, env *Env, args []string) error {
	fs := env.flagSet("receipt create")
	name := fs.String("name", "", "Receipt name")
	description := fs.String("description", "", "Optional description")
	total := fs.Float64("total", 0, "Split this amount evenly between all members")
	payer := fs.Int("payer", 0, "Member who paid the total (prompted when omitted)")
	var shares shareFlag
	fs.Var(&shares, "share", "Explicit share as member:paid:owed (repeatable)")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	usage := &UsageError{Usage: "pagao receipt create <group-id> --name <name> (--total <amount> [--payer <member-id>] | --share <member:paid:owed>...)"}
	if len(positional) != 1 {
		return usage
	}
	groupID, err := parseID(positional[0], "group ID")
	if err != nil {
		return err
	}
	if *total == 0 && len(shares) == 0 {
		return usage
	}

	c := receiptcreate.New(env.Client, env.deps(ctx))
	defer c.Close()

	c.Handle(receiptcreate.LoadMembers{GroupID: groupID})
	c.Wait()
	if err := failed(c.State().Status); err != nil {
		return err
	}

	c.Handle(receiptcreate.SetDetails{Name: *name, Description: *description})

	if *total != 0 {
		payerID := *payer
		if payerID == 0 {
			member, err := env.Prompter.SelectMember("Who paid?", c.State().Members)
			if err != nil {
				return fmt.Errorf("receipt cancelled: %w", err)
			}
			payerID = member.ID
		}
		c.Handle(receiptcreate.SplitEvenly{PayerID: payerID, Total: *total})
		if err := failed(c.State().Status); err != nil {
			return err
		}
	}
	// explicit shares override the even split for their members
	for _, share := range shares {
		c.Handle(share)
	}

	c.Handle(receiptcreate.Submit{})
	c.Wait()

	state := c.State()
	if err := failed(state.Status); err != nil {
		return err
	}
	if state.Created == nil {
		return fmt.Errorf("the server did not return the new receipt")
	}

	fmt.Fprintf(env.Out, "✓ Created receipt %s (#%d) for %s\n",
		state.Created.Name, state.Created.ID, formatMoney(receiptTotal(*state.Created)))
	return nil
}
