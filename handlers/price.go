package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"boost-bot/lang"
	"boost-bot/pricing"
	"boost-bot/tickets"

	"github.com/bwmarrin/discordgo"
)

const (
	confirmPrefix    = "price_confirm"
	openTicketPrefix = "open_ticket"
)

func handlePriceCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if cfg.Tickets.CommandChannel != "" && i.ChannelID != cfg.Tickets.CommandChannel {
		respond(s, i, lang.T("price_wrong_channel", "channel", cfg.Tickets.CommandChannel), true)
		return
	}

	om := optionMap(i)
	fromRank := om["rank"].StringValue()
	toRank := om["to"].StringValue()

	q, err := pricing.ComputeQuote(ladder, fromRank, toRank, cost, cfg.Pricing.FeeRatio)
	if err != nil {
		var rankErr *pricing.RankError
		if errors.As(err, &rankErr) {
			respond(s, i, lang.T("price_unknown_rank", "rank", rankErr.Rank), true)
			return
		}
		respond(s, i, lang.T("price_bad_range", "from", fromRank, "to", toRank), true)
		return
	}

	content := lang.T("price_quote",
		"from", q.FromRank,
		"to", q.ToRank,
		"steps", strconv.Itoa(q.Steps),
		"first", strconv.Itoa(q.FirstStep),
		"last", strconv.Itoa(q.LastStep),
		"net", strconv.Itoa(q.Net),
		"gross", strconv.Itoa(q.Gross),
	) + "\n\n" + respectText

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{
							Label:    lang.T("confirm_price_button"),
							Style:    discordgo.SuccessButton,
							CustomID: pricing.EncodeToken(confirmPrefix, q),
						},
						discordgo.Button{
							Label:    lang.T("cancel_button"),
							Style:    discordgo.SecondaryButton,
							CustomID: "price_cancel",
						},
					},
				},
			},
		},
	})
	if err != nil {
		log.Printf("Failed to send quote: %v", err)
		return
	}

	// The quote is ephemeral and short-lived.
	deleteReplyAfter(s, i, 60*time.Second)

	sink.QuoteRequested(interactionUser(i), i.ChannelID, q)
}

func handlePriceConfirm(s *discordgo.Session, i *discordgo.InteractionCreate) {
	q, err := pricing.DecodeToken(i.MessageComponentData().CustomID, ladder)
	if err != nil {
		respond(s, i, lang.T("quote_unreadable"), true)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content: lang.T("price_confirmed",
				"from", q.FromRank,
				"to", q.ToRank,
				"steps", strconv.Itoa(q.Steps),
				"net", strconv.Itoa(q.Net),
				"gross", strconv.Itoa(q.Gross),
			),
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{
							Label:    lang.T("open_ticket_button"),
							Style:    discordgo.PrimaryButton,
							CustomID: pricing.EncodeToken(openTicketPrefix, q),
						},
					},
				},
			},
		},
	})
	if err != nil {
		log.Printf("Failed to update confirm message: %v", err)
	}
}

func handlePriceCancel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    lang.T("price_cancelled"),
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		log.Printf("Failed to cancel quote: %v", err)
		return
	}
	deleteReplyAfter(s, i, 5*time.Second)
}

func handleOpenTicket(s *discordgo.Session, i *discordgo.InteractionCreate) {
	q, err := pricing.DecodeToken(i.MessageComponentData().CustomID, ladder)
	if err != nil {
		respond(s, i, lang.T("quote_unreadable"), true)
		return
	}

	user := interactionUser(i)
	res, err := mgr.RequestTicket(user.ID, quoteSummary(q))
	if err != nil {
		var cdErr *tickets.CooldownActiveError
		switch {
		case errors.As(err, &cdErr):
			respond(s, i, lang.T("ticket_cooldown", "seconds", strconv.Itoa(cdErr.RemainingSeconds())), true)
		case errors.Is(err, tickets.ErrProvisioningFailed):
			log.Printf("[tickets] provisioning for %s failed: %v", user.ID, err)
			respond(s, i, lang.T("ticket_failed"), true)
		default:
			log.Printf("[tickets] request for %s failed: %v", user.ID, err)
			respond(s, i, lang.T("ticket_failed"), true)
		}
		return
	}

	switch res.Outcome {
	case tickets.AlreadyOpen:
		respond(s, i, lang.T("ticket_already_open", "channel", res.Ref.ChannelID), true)
	case tickets.Created:
		respond(s, i, lang.T("ticket_created", "channel", res.Ref.ChannelID), true)
	}
}

func quoteSummary(q *pricing.Quote) string {
	return fmt.Sprintf(
		"📊 **Quote Summary**\n• From: %s\n• To: %s\n• Steps: %d\n• Net: %d Robux\n• Gamepass (est): %d Robux",
		q.FromRank, q.ToRank, q.Steps, q.Net, q.Gross,
	)
}

func deleteReplyAfter(s *discordgo.Session, i *discordgo.InteractionCreate, d time.Duration) {
	interaction := i.Interaction
	time.AfterFunc(d, func() {
		_ = s.InteractionResponseDelete(interaction)
	})
}
