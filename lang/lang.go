package lang

import (
	"log"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	mu       sync.RWMutex
	messages map[string]string
)

// defaults are the shipped texts; a lang.yml file overrides per key.
var defaults = map[string]string{
	"price_wrong_channel":  "Please use this command in <#{channel}>.",
	"price_unknown_rank":   "Unknown rank **{rank}**. Please pick a rank from the list.",
	"price_bad_range":      "Target rank must be higher than current.\nYou selected **{from} → {to}**.",
	"price_quote":          "📈 **Price Quote**\n\n• **From:** {from}\n• **To:** {to}\n• **Steps:** {steps}\n\n🧾 **Pricing:** first step **{first}**, last step **{last}**\n\n💰 **Total (net): {net} Robux**\n🧾 **Gamepass price (est. w/ marketplace fee): {gross} Robux**\n\n✅ Click **Confirm Price** to proceed and open a ticket.\n⏳ *This message will disappear in 60 seconds.*",
	"price_confirmed":      "✅ **Confirmed**\n\n📊 {from} → {to} ({steps} steps)\n💰 Net: **{net} Robux**\n🧾 Gamepass (est): **{gross} Robux**\n\nClick **🛒 Open Ticket** to proceed.",
	"price_cancelled":      "❌ Cancelled.",
	"quote_unreadable":     "❌ Could not read the quote. Please run /price again.",
	"ticket_already_open":  "⚠️ You already have an open ticket: <#{channel}>\nType **CLOSE TICKET** in it to close it.",
	"ticket_cooldown":      "⏱️ Please wait **{seconds}s** before opening another ticket.",
	"ticket_created":       "✅ Ticket created: <#{channel}>\nType **CLOSE TICKET** inside it to close it.",
	"ticket_failed":        "❌ Something went wrong creating your ticket. Please try again.",
	"ticket_closing":       "✅ Closing ticket...",
	"close_not_a_ticket":   "This is not a ticket channel.",
	"confirm_price_button": "✅ Confirm Price",
	"cancel_button":        "❌ Cancel",
	"open_ticket_button":   "🛒 Open Ticket",
}

// Load reads a flat key: value yaml file and overlays it on the defaults.
// A missing or unreadable file leaves the defaults in place.
func Load(path string) {
	m := make(map[string]string, len(defaults))
	for k, v := range defaults {
		m[k] = v
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[lang] Could not read %s: %v — using built-in texts", path, err)
	} else {
		var overrides map[string]string
		if err := yaml.Unmarshal(data, &overrides); err != nil {
			log.Printf("[lang] %s is not a flat key: value map: %v — using built-in texts", path, err)
		} else {
			for k, v := range overrides {
				m[k] = v
			}
			log.Printf("[lang] Loaded %s (%d overrides)", path, len(overrides))
		}
	}

	mu.Lock()
	messages = m
	mu.Unlock()
}

// T returns the text for key with {placeholder} pairs substituted. Pairs
// alternate name, value. An unknown key renders as {key} so it shows up in
// chat instead of vanishing.
func T(key string, pairs ...string) string {
	mu.RLock()
	s, ok := messages[key]
	mu.RUnlock()

	if !ok {
		s, ok = defaults[key]
		if !ok {
			return "{" + key + "}"
		}
	}

	for j := 0; j+1 < len(pairs); j += 2 {
		s = strings.ReplaceAll(s, "{"+pairs[j]+"}", pairs[j+1])
	}
	return s
}
