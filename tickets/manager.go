package tickets

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// TicketRef points at one live ticket channel.
type TicketRef struct {
	ChannelID string
	Name      string
}

// ChannelProvider is the platform side of the ticket lifecycle: finding,
// creating and tearing down the channels that back tickets. Lookup answers
// ownership from the resources themselves (the owner tag), not from bot
// memory, so it stays correct across restarts.
type ChannelProvider interface {
	LookupOpenTicket(ownerID string) (*TicketRef, error)
	CreateTicketResource(ownerID, ownerTag, summary string) (*TicketRef, error)
	IsTicket(channelID string) bool
	DeleteResource(channelID string) error
}

// CooldownStore persists the last accepted ticket-creation time per user,
// in millisecond epoch. Entries are never deleted: the cooldown outlives
// the ticket it gated.
type CooldownStore interface {
	GetCooldown(userID string) (int64, error)
	SetCooldown(userID string, ms int64) error
}

// LogSink receives operational notifications. Implementations must swallow
// their own failures; the manager never checks them.
type LogSink interface {
	TicketOpened(userID string, ref *TicketRef, summary string)
	TicketClosed(userID, channelID string)
}

type Outcome int

const (
	// Created means a new ticket channel now exists.
	Created Outcome = iota
	// AlreadyOpen means the user already had a ticket; no cooldown was
	// consumed and nothing was created. Not an error.
	AlreadyOpen
)

type Result struct {
	Outcome Outcome
	Ref     *TicketRef
}

// CooldownActiveError rejects a request made before the user's cooldown
// window has elapsed.
type CooldownActiveError struct {
	Remaining time.Duration
}

func (e *CooldownActiveError) Error() string {
	return fmt.Sprintf("cooldown active, %ds remaining", e.RemainingSeconds())
}

func (e *CooldownActiveError) RemainingSeconds() int {
	return int((e.Remaining + time.Second - 1) / time.Second)
}

// ErrProvisioningFailed wraps provider-side creation failures. The cooldown
// stays consumed when this is returned.
var ErrProvisioningFailed = errors.New("ticket provisioning failed")

// Manager owns the per-user ticket state machine: NoTicket -> Open ->
// NoTicket, where Open is defined by the channel's existence.
type Manager struct {
	provider   ChannelProvider
	cooldowns  CooldownStore
	sink       LogSink
	window     time.Duration
	closeDelay time.Duration
	now        func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewManager(p ChannelProvider, c CooldownStore, sink LogSink, window, closeDelay time.Duration) *Manager {
	return &Manager{
		provider:   p,
		cooldowns:  c,
		sink:       sink,
		window:     window,
		closeDelay: closeDelay,
		now:        time.Now,
		locks:      make(map[string]*sync.Mutex),
	}
}

// userLock serializes all state-mutating work for one user, so two
// concurrent open attempts cannot both pass the existence and cooldown
// checks. The check-then-set on the cooldown store happens entirely under
// this lock.
func (m *Manager) userLock(userID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[userID] = l
	}
	return l
}

// RequestTicket runs the confirmed-quote -> open-ticket transition:
//
//  1. An existing open ticket short-circuits to AlreadyOpen; no cooldown is
//     consumed.
//  2. An unexpired cooldown fails with CooldownActiveError; nothing mutates.
//  3. Otherwise the cooldown is consumed first, then the channel is created.
//     The cooldown stays consumed even if creation fails or the channel is
//     later deleted, so a user cannot reset the rate limit by forcing an
//     error or deleting the ticket.
func (m *Manager) RequestTicket(userID, summary string) (*Result, error) {
	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := m.provider.LookupOpenTicket(userID)
	if err != nil {
		return nil, fmt.Errorf("lookup open ticket: %w", err)
	}
	if existing != nil {
		return &Result{Outcome: AlreadyOpen, Ref: existing}, nil
	}

	last, err := m.cooldowns.GetCooldown(userID)
	if err != nil {
		// Unreadable store entries count as no cooldown, matching a fresh
		// cooldown file.
		log.Printf("[tickets] cooldown read for %s failed: %v", userID, err)
		last = 0
	}
	now := m.now().UnixMilli()
	if last > 0 {
		if elapsed := now - last; elapsed < m.window.Milliseconds() {
			remaining := time.Duration(m.window.Milliseconds()-elapsed) * time.Millisecond
			return nil, &CooldownActiveError{Remaining: remaining}
		}
	}

	if err := m.cooldowns.SetCooldown(userID, now); err != nil {
		return nil, fmt.Errorf("consume cooldown: %w", err)
	}

	ref, err := m.provider.CreateTicketResource(userID, OwnerTag(userID), summary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvisioningFailed, err)
	}

	if m.sink != nil {
		m.sink.TicketOpened(userID, ref, summary)
	}
	return &Result{Outcome: Created, Ref: ref}, nil
}

// CloseTicket handles a close signal observed in a channel. Signals from
// channels that are not tickets are ignored and reported as false, which
// lets callers match a generic close phrase without side effects on
// unrelated channels. Deletion is deferred by the close delay so an
// acknowledgment message stays visible; with delay 0 it runs inline.
func (m *Manager) CloseTicket(userID, channelID string) bool {
	if !m.provider.IsTicket(channelID) {
		return false
	}

	if m.sink != nil {
		m.sink.TicketClosed(userID, channelID)
	}

	if m.closeDelay <= 0 {
		m.deleteChannel(channelID)
		return true
	}
	time.AfterFunc(m.closeDelay, func() { m.deleteChannel(channelID) })
	return true
}

func (m *Manager) deleteChannel(channelID string) {
	if err := m.provider.DeleteResource(channelID); err != nil {
		log.Printf("[tickets] delete channel %s: %v", channelID, err)
	}
}
