// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

// Package enginetest provides in-memory repository implementations and a
// canned world fixture for engine and server tests.
package enginetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/derelict-game/derelict/internal/player"
	"github.com/derelict-game/derelict/internal/world"
)

// World is an in-memory world.Repository backed by plain maps and slices.
// Objects keep authored order; everything else is keyed lookup.
type World struct {
	Rooms        map[string]*world.Room
	Objects      []*world.Object
	Interactions map[string]*world.Interaction
	Links        map[string]*world.Link
	Items        map[string]*world.Item
	Flags        map[string]*world.StoryFlag
}

// NewWorld creates an empty in-memory world.
func NewWorld() *World {
	return &World{
		Rooms:        make(map[string]*world.Room),
		Interactions: make(map[string]*world.Interaction),
		Links:        make(map[string]*world.Link),
		Items:        make(map[string]*world.Item),
		Flags:        make(map[string]*world.StoryFlag),
	}
}

var _ world.Repository = (*World)(nil)

func interactionKey(objectID, verb string) string {
	return objectID + "\x00" + verb
}

// AddInteraction registers an authored interaction.
func (w *World) AddInteraction(in *world.Interaction) {
	w.Interactions[interactionKey(in.ObjectID, in.Verb)] = in
}

func (w *World) GetRoom(_ context.Context, id string) (*world.Room, error) {
	if r, ok := w.Rooms[id]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("room %s: %w", id, world.ErrNotFound)
}

func (w *World) ListRoomObjects(_ context.Context, roomID string) ([]*world.Object, error) {
	var out []*world.Object
	for _, obj := range w.Objects {
		if obj.RoomID == roomID {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (w *World) GetObject(_ context.Context, id string) (*world.Object, error) {
	for _, obj := range w.Objects {
		if obj.ID == id {
			return obj, nil
		}
	}
	return nil, fmt.Errorf("object %s: %w", id, world.ErrNotFound)
}

func (w *World) GetInteraction(_ context.Context, objectID, verb string) (*world.Interaction, error) {
	if in, ok := w.Interactions[interactionKey(objectID, verb)]; ok {
		return in, nil
	}
	return nil, fmt.Errorf("interaction %s/%s: %w", objectID, verb, world.ErrNotFound)
}

func (w *World) GetLink(_ context.Context, id string) (*world.Link, error) {
	if l, ok := w.Links[id]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("link %s: %w", id, world.ErrNotFound)
}

func (w *World) GetItem(_ context.Context, id string) (*world.Item, error) {
	if i, ok := w.Items[id]; ok {
		return i, nil
	}
	return nil, fmt.Errorf("item %s: %w", id, world.ErrNotFound)
}

func (w *World) GetFlag(_ context.Context, id string) (*world.StoryFlag, error) {
	if f, ok := w.Flags[id]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("flag %s: %w", id, world.ErrNotFound)
}

// Players is an in-memory player.Repository. Safe for concurrent use.
type Players struct {
	mu      sync.Mutex
	players map[ulid.ULID]*player.Player
	items   map[ulid.ULID][]string
	flags   map[ulid.ULID]map[string]struct{}
	logs    map[ulid.ULID][]player.LogEntry
	nextSeq int64

	// FailWith, when set, is returned by every method. Used to exercise
	// store-fault paths.
	FailWith error
}

// NewPlayers creates an empty in-memory player store.
func NewPlayers() *Players {
	return &Players{
		players: make(map[ulid.ULID]*player.Player),
		items:   make(map[ulid.ULID][]string),
		flags:   make(map[ulid.ULID]map[string]struct{}),
		logs:    make(map[ulid.ULID][]player.LogEntry),
	}
}

var _ player.Repository = (*Players)(nil)

func (s *Players) Get(_ context.Context, id ulid.ULID) (*player.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	p, ok := s.players[id]
	if !ok {
		return nil, fmt.Errorf("player %s: %w", id, player.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (s *Players) Create(_ context.Context, p *player.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	cp := *p
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	s.players[cp.ID] = &cp
	return nil
}

func (s *Players) SetRoom(_ context.Context, id ulid.ULID, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	p, ok := s.players[id]
	if !ok {
		return fmt.Errorf("player %s: %w", id, player.ErrNotFound)
	}
	p.RoomID = roomID
	return nil
}

func (s *Players) Inventory(_ context.Context, id ulid.ULID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	out := make([]string, len(s.items[id]))
	copy(out, s.items[id])
	return out, nil
}

func (s *Players) HasItem(_ context.Context, id ulid.ULID, itemID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return false, s.FailWith
	}
	for _, held := range s.items[id] {
		if held == itemID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Players) GrantItem(_ context.Context, id ulid.ULID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	for _, held := range s.items[id] {
		if held == itemID {
			return nil
		}
	}
	s.items[id] = append(s.items[id], itemID)
	return nil
}

func (s *Players) HasFlag(_ context.Context, id ulid.ULID, flagID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return false, s.FailWith
	}
	_, ok := s.flags[id][flagID]
	return ok, nil
}

func (s *Players) TriggerFlag(_ context.Context, id ulid.ULID, flagID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	if s.flags[id] == nil {
		s.flags[id] = make(map[string]struct{})
	}
	s.flags[id][flagID] = struct{}{}
	return nil
}

func (s *Players) AppendLog(_ context.Context, id ulid.ULID, fragments []player.Fragment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	for _, f := range fragments {
		s.nextSeq++
		s.logs[id] = append(s.logs[id], player.LogEntry{
			Seq:      s.nextSeq,
			Body:     f.Body,
			Category: f.Category,
		})
	}
	return nil
}

func (s *Players) Log(_ context.Context, id ulid.ULID) ([]player.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	out := make([]player.LogEntry, len(s.logs[id]))
	copy(out, s.logs[id])
	return out, nil
}

func (s *Players) ClearLog(_ context.Context, id ulid.ULID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	s.logs[id] = nil
	return nil
}

// Sessions is an in-memory player.SessionRepository.
type Sessions struct {
	mu     sync.Mutex
	tokens map[string]ulid.ULID
}

// NewSessions creates an empty in-memory session store.
func NewSessions() *Sessions {
	return &Sessions{tokens: make(map[string]ulid.ULID)}
}

var _ player.SessionRepository = (*Sessions)(nil)

func (s *Sessions) Lookup(_ context.Context, token string) (ulid.ULID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.tokens[token]; ok {
		return id, nil
	}
	return ulid.ULID{}, fmt.Errorf("session: %w", player.ErrNotFound)
}

func (s *Sessions) Bind(_ context.Context, token string, playerID ulid.ULID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = playerID
	return nil
}

// Tx is a pass-through player.Transactor: fn runs against the same stores
// with no isolation. Adequate because the in-memory fakes apply writes
// immediately and tests assert on final state.
type Tx struct{}

var _ player.Transactor = (*Tx)(nil)

func (Tx) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
