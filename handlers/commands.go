package handlers

import (
	"log"
	"strings"
	"time"

	"boost-bot/config"
	"boost-bot/pricing"
	"boost-bot/storage"
	"boost-bot/tickets"

	"github.com/bwmarrin/discordgo"
)

var (
	cfg    *config.Config
	ladder pricing.Ladder
	cost   pricing.StepCost
	store    storage.Store
	mgr      *tickets.Manager
	sink     *staffLog
	provider *discordProvider
)

// Init wires the handlers to their collaborators. Must run before Register.
func Init(s *discordgo.Session, c *config.Config, st storage.Store) {
	cfg = c
	ladder = pricing.Ladder(c.Pricing.Ranks)
	cost = c.Pricing.StepCost()
	store = st
	sink = &staffLog{s: s, channelID: c.Tickets.LogChannel, staffRole: c.Tickets.StaffRole}

	provider = &discordProvider{
		s:         s,
		guildID:   c.Discord.GuildID,
		category:  c.Tickets.Category,
		staffRole: c.Tickets.StaffRole,
	}
	mgr = tickets.NewManager(provider, st, sink,
		time.Duration(c.Tickets.CooldownSeconds)*time.Second,
		time.Duration(c.Tickets.CloseDelaySeconds)*time.Second,
	)
}

func Commands() []*discordgo.ApplicationCommand {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(ladder))
	for _, r := range ladder {
		// Discord caps option choices at 25.
		if len(choices) == 25 {
			log.Printf("[handlers] ladder has %d ranks, only the first 25 are selectable", len(ladder))
			break
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: r, Value: r})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "price",
			Description: "Get a quote for a rank up (tiered pricing + marketplace fee estimate)",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "rank", Description: "Your current rank", Required: true, Choices: choices},
				{Type: discordgo.ApplicationCommandOptionString, Name: "to", Description: "Rank you want to reach", Required: true, Choices: choices},
			},
		},
		{Name: "close", Description: "Close the current ticket"},
	}
}

func Register(s *discordgo.Session) {
	s.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.GuildID == "" {
			return
		}

		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			handleSlashCommand(s, i)
		case discordgo.InteractionMessageComponent:
			handleComponent(s, i)
		}
	})

	s.AddHandler(handleCloseMessage)

	s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		PostTutorialOnce(s)
	})
}

func handleSlashCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	name := i.ApplicationCommandData().Name

	switch name {
	case "price":
		handlePriceCommand(s, i)
	case "close":
		handleCloseCommand(s, i)
	default:
		log.Printf("Unknown command: %s", name)
	}
}

func handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	switch {
	case customID == "price_cancel":
		handlePriceCancel(s, i)
	case strings.HasPrefix(customID, confirmPrefix+":"):
		handlePriceConfirm(s, i)
	case strings.HasPrefix(customID, openTicketPrefix+":"):
		handleOpenTicket(s, i)
	default:
		log.Printf("Unknown component: %s", customID)
	}
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   flags,
		},
	})
	if err != nil {
		log.Printf("Failed to respond to interaction: %v", err)
	}
}

func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options
	om := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		om[opt.Name] = opt
	}
	return om
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}
