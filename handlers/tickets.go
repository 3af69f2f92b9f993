package handlers

import (
	"fmt"
	"log"
	"strings"
	"time"

	"boost-bot/lang"
	"boost-bot/pricing"
	"boost-bot/storage"
	"boost-bot/tickets"

	"github.com/bwmarrin/discordgo"
)

const respectText = "Keep in mind that our employees/boosters spend the time they should be doing other stuff in to come and help you. " +
	"Please be respectful and abide by the rules. You must pay first using a gamepass, and then we will start the boosting process. " +
	"If our employees need to leave, do not argue, as it is up to them if they want to leave. Enjoy your boosting!"

// discordProvider backs the ticket lifecycle with guild text channels under
// the configured category. Ownership lives in the channel topic, so lookups
// work from the channel list alone.
type discordProvider struct {
	s         *discordgo.Session
	guildID   string
	category  string
	staffRole string
}

func (p *discordProvider) guildChannels() ([]*discordgo.Channel, error) {
	if g, err := p.s.State.Guild(p.guildID); err == nil && len(g.Channels) > 0 {
		return g.Channels, nil
	}
	return p.s.GuildChannels(p.guildID)
}

func (p *discordProvider) LookupOpenTicket(ownerID string) (*tickets.TicketRef, error) {
	chans, err := p.guildChannels()
	if err != nil {
		return nil, err
	}
	for _, ch := range chans {
		if ch.Type != discordgo.ChannelTypeGuildText || ch.ParentID != p.category {
			continue
		}
		if owner, ok := tickets.OwnerFromTag(ch.Topic); ok && owner == ownerID {
			return &tickets.TicketRef{ChannelID: ch.ID, Name: ch.Name}, nil
		}
	}
	return nil, nil
}

func (p *discordProvider) CreateTicketResource(ownerID, ownerTag, summary string) (*tickets.TicketRef, error) {
	name := "ticket-" + ownerID
	if u, err := p.s.User(ownerID); err == nil {
		name = sanitizeChannelName("ticket-" + u.Username)
	}

	memberAllow := int64(discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory)
	overwrites := []*discordgo.PermissionOverwrite{
		{ID: p.guildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
		{ID: ownerID, Type: discordgo.PermissionOverwriteTypeMember, Allow: memberAllow},
		{ID: p.s.State.User.ID, Type: discordgo.PermissionOverwriteTypeMember, Allow: memberAllow | discordgo.PermissionManageChannels},
	}
	if p.staffRole != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    p.staffRole,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: memberAllow | discordgo.PermissionManageChannels,
		})
	}

	ch, err := p.s.GuildChannelCreateComplex(p.guildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                ownerTag,
		ParentID:             p.category,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return nil, err
	}

	// Welcome messages are best-effort; the ticket exists either way.
	_, _ = p.s.ChannelMessageSend(ch.ID, fmt.Sprintf("%s 🛒 **New ticket opened by** <@%s>", staffPing(p.staffRole), ownerID))
	_, _ = p.s.ChannelMessageSend(ch.ID, ticketWelcome(ownerID, summary))

	return &tickets.TicketRef{ChannelID: ch.ID, Name: ch.Name}, nil
}

func (p *discordProvider) IsTicket(channelID string) bool {
	ch := p.channel(channelID)
	if ch == nil || ch.Type != discordgo.ChannelTypeGuildText || ch.ParentID != p.category {
		return false
	}
	_, ok := tickets.OwnerFromTag(ch.Topic)
	return ok
}

func (p *discordProvider) DeleteResource(channelID string) error {
	_, err := p.s.ChannelDelete(channelID)
	return err
}

func (p *discordProvider) channel(id string) *discordgo.Channel {
	if ch, err := p.s.State.Channel(id); err == nil {
		return ch
	}
	ch, err := p.s.Channel(id)
	if err != nil {
		return nil
	}
	return ch
}

// staffLog posts operational notices to the staff log channel. Every send is
// best-effort: a missing channel or a failed send never reaches the caller.
type staffLog struct {
	s         *discordgo.Session
	channelID string
	staffRole string
}

func (l *staffLog) notify(text string) {
	if l.channelID == "" {
		return
	}
	_, _ = l.s.ChannelMessageSend(l.channelID, text)
}

func (l *staffLog) QuoteRequested(user *discordgo.User, channelID string, q *pricing.Quote) {
	l.notify(fmt.Sprintf(
		"🧾 **Price Quote Requested** %s\n👤 User: %s\n📍 Channel: <#%s>\n📊 %s → %s (%d steps)\n💰 Net: %d | Gamepass (est): %d",
		staffPing(l.staffRole), user.Username, channelID, q.FromRank, q.ToRank, q.Steps, q.Net, q.Gross,
	))
}

func (l *staffLog) TicketOpened(userID string, ref *tickets.TicketRef, summary string) {
	l.notify(fmt.Sprintf("🧾 **New Ticket** by <@%s> → <#%s> | %s\n%s", userID, ref.ChannelID, staffPing(l.staffRole), summary))
}

func (l *staffLog) TicketClosed(userID, channelID string) {
	l.notify(fmt.Sprintf("🔒 **Ticket Closed** by <@%s> in <#%s> | %s", userID, channelID, staffPing(l.staffRole)))
}

func staffPing(roleID string) string {
	if roleID != "" {
		return "<@&" + roleID + ">"
	}
	return "@staff"
}

func handleCloseCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ownerID, ok := ticketOwner(i.ChannelID)
	if !ok {
		respond(s, i, lang.T("close_not_a_ticket"), true)
		return
	}
	respond(s, i, lang.T("ticket_closing"), false)
	finishClose(s, interactionUser(i), ownerID, i.ChannelID)
}

// handleCloseMessage closes a ticket when its channel receives a bare
// "CLOSE TICKET" message. The phrase in any other channel is ignored.
func handleCloseMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}
	if !strings.EqualFold(strings.TrimSpace(m.Content), "CLOSE TICKET") {
		return
	}
	ownerID, ok := ticketOwner(m.ChannelID)
	if !ok {
		return
	}
	_, _ = s.ChannelMessageSend(m.ChannelID, lang.T("ticket_closing"))
	finishClose(s, m.Author, ownerID, m.ChannelID)
}

func finishClose(s *discordgo.Session, closedBy *discordgo.User, ownerID, channelID string) {
	name := ""
	if ch := provider.channel(channelID); ch != nil {
		name = ch.Name
	}
	if !mgr.CloseTicket(closedBy.ID, channelID) {
		return
	}

	rec := storage.ClosedTicket{
		OwnerID:     ownerID,
		ClosedBy:    closedBy.ID,
		ChannelID:   channelID,
		ChannelName: name,
		ClosedAt:    time.Now().Format(time.RFC3339),
	}
	if err := store.AddClosedTicket(rec); err != nil {
		log.Printf("[tickets] audit record for %s: %v", channelID, err)
	}
}

func ticketOwner(channelID string) (string, bool) {
	ch := provider.channel(channelID)
	if ch == nil || ch.Type != discordgo.ChannelTypeGuildText || ch.ParentID != provider.category {
		return "", false
	}
	return tickets.OwnerFromTag(ch.Topic)
}

func ticketWelcome(ownerID, summary string) string {
	text := "🎟️ **Ticket Created**\n\n" +
		"**Step 1:** Confirm your request here (current rank → target rank).\n" +
		"**Step 2:** Wait for staff — we will send the gamepass link within **1–2 minutes**.\n\n" +
		respectText
	if summary != "" {
		text += "\n\n" + summary
	}
	text += fmt.Sprintf(
		"\n\n❌ **To close this ticket:** Type **CLOSE TICKET**\n⏱️ **Cooldown:** 1 ticket per %ds (even if you delete/close the old one).\n\n<@%s>",
		cfg.Tickets.CooldownSeconds, ownerID,
	)
	return text
}

const tutorialMarker = "How to use this channel"

// PostTutorialOnce posts the command-channel how-to unless a recent bot
// message already carries it.
func PostTutorialOnce(s *discordgo.Session) {
	channelID := cfg.Tickets.CommandChannel
	if channelID == "" {
		return
	}

	if msgs, err := s.ChannelMessages(channelID, 10, "", "", ""); err == nil {
		for _, m := range msgs {
			if m.Author != nil && m.Author.ID == s.State.User.ID && strings.Contains(m.Content, tutorialMarker) {
				return
			}
		}
	}

	if _, err := s.ChannelMessageSend(channelID, tutorialText()); err != nil {
		log.Printf("[handlers] tutorial post failed: %v", err)
	}
}

func tutorialText() string {
	return fmt.Sprintf(
		"📘 **Welcome — %s**\n\n"+
			"**Step 1:** Type **/price** in this channel.\n"+
			"**Step 2:** Pick your current rank and the rank you want from the dropdowns.\n"+
			"**Step 3:** The bot will show a quote (private) and you click **Confirm Price**.\n"+
			"**Step 4:** Then click **🛒 Open Ticket**.\n\n"+
			"🧾 **Pricing:** %s.\n"+
			"🧾 The bot also shows an **estimated gamepass price** to cover marketplace fees.\n\n"+
			"⏳ After you open a ticket, staff will send the gamepass link within **1–2 minutes**.\n\n"+
			"%s\n\n"+
			"🔒 **To close a ticket:** Type **CLOSE TICKET** inside your ticket channel.\n"+
			"⏱️ **Ticket cooldown:** 1 ticket per %ds (still applies even if you delete/close your old ticket).",
		tutorialMarker, pricingBlurb(), respectText, cfg.Tickets.CooldownSeconds,
	)
}

func pricingBlurb() string {
	if cfg.Pricing.Policy == "flat" {
		return fmt.Sprintf("**%d Robux per level**", cfg.Pricing.PerLevel)
	}
	return fmt.Sprintf("step-based tiered pricing starting at **%d Robux**, increasing by **+%d Robux per step**",
		cfg.Pricing.BaseCost, cfg.Pricing.Increment)
}

func sanitizeChannelName(name string) string {
	name = strings.ToLower(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > 90 {
		out = out[:90]
	}
	if out == "" || out == "ticket-" {
		out = "ticket"
	}
	return out
}
