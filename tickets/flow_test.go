package tickets

import (
	"errors"
	"testing"
	"time"

	"boost-bot/pricing"
)

// Full quote -> confirm token -> ticket walk, as the bot runs it.
func TestQuoteToTicketFlow(t *testing.T) {
	ladder := make(pricing.Ladder, 0, 20)
	for _, tier := range []string{"Bronze", "Silver", "Gold", "Platinum", "Diamond", "Onyx"} {
		ladder = append(ladder, tier+" 1", tier+" 2", tier+" 3")
	}
	ladder = append(ladder, "Nemesis", "Archnemesis")
	if len(ladder) != 20 {
		t.Fatalf("ladder has %d ranks, want 20", len(ladder))
	}

	q, err := pricing.ComputeQuote(ladder, ladder[0], ladder[2], pricing.Tiered(100, 10), 0.3)
	if err != nil {
		t.Fatalf("ComputeQuote error: %v", err)
	}
	if q.Net != 210 || q.Gross != 300 || q.Steps != 2 {
		t.Fatalf("quote net/gross/steps = %d/%d/%d, want 210/300/2", q.Net, q.Gross, q.Steps)
	}

	// The quote survives the round-trip through the component custom ID.
	decoded, err := pricing.DecodeToken(pricing.EncodeToken("open_ticket", q), ladder)
	if err != nil {
		t.Fatalf("DecodeToken error: %v", err)
	}
	if *decoded != (pricing.Quote{
		FromRank: ladder[0], ToRank: ladder[2],
		FromIndex: 0, ToIndex: 2, Steps: 2, Net: 210, Gross: 300,
	}) {
		t.Fatalf("decoded quote = %+v", decoded)
	}

	p := newFakeProvider()
	s := newFakeStore()
	m := NewManager(p, s, nil, time.Minute, 0)
	base := time.Now()
	m.now = func() time.Time { return base }

	res, err := m.RequestTicket("u1", "quote")
	if err != nil {
		t.Fatalf("RequestTicket error: %v", err)
	}
	if res.Outcome != Created {
		t.Fatalf("outcome = %v, want Created", res.Outcome)
	}
	if ms, _ := s.GetCooldown("u1"); ms != base.UnixMilli() {
		t.Errorf("cooldown = %d, want request time %d", ms, base.UnixMilli())
	}
	if ref, _ := p.LookupOpenTicket("u1"); ref == nil || ref.ChannelID != res.Ref.ChannelID {
		t.Errorf("LookupOpenTicket = %v, want the new ticket", ref)
	}

	// Externally deleting the channel does not unlock a retry inside the
	// window.
	if err := p.DeleteResource(res.Ref.ChannelID); err != nil {
		t.Fatalf("DeleteResource error: %v", err)
	}
	m.now = func() time.Time { return base.Add(59 * time.Second) }
	var cdErr *CooldownActiveError
	if _, err := m.RequestTicket("u1", "quote"); !errors.As(err, &cdErr) {
		t.Errorf("retry inside window error = %v, want CooldownActiveError", err)
	}
}
