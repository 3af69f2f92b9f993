package tickets

import "strings"

// The owner tag is mirrored into the channel topic so ownership survives
// bot restarts and can be recovered by querying the channels themselves.

const ownerTagPrefix = "ticket_owner:"

// OwnerTag builds the topic tag for a ticket owned by the given user.
func OwnerTag(userID string) string {
	return ownerTagPrefix + userID
}

// OwnerFromTag extracts the owner ID from a channel topic. The tag may be
// followed by free text after a space.
func OwnerFromTag(topic string) (string, bool) {
	idx := strings.Index(topic, ownerTagPrefix)
	if idx < 0 {
		return "", false
	}
	rest := topic[idx+len(ownerTagPrefix):]
	if sp := strings.IndexAny(rest, " \n"); sp >= 0 {
		rest = rest[:sp]
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}
