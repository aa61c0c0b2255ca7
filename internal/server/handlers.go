// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/derelict-game/derelict/internal/player"
	"github.com/derelict-game/derelict/pkg/errutil"
)

// maxCommandBytes bounds the request body; player commands are one line.
const maxCommandBytes = 4096

type commandRequest struct {
	Input string `json:"input"`
}

type fragmentView struct {
	Body     string `json:"body"`
	Category string `json:"category,omitempty"`
}

type roomView struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Objects []string `json:"objects"`
}

type commandResponse struct {
	Fragments []fragmentView `json:"fragments"`
	Room      roomView       `json:"room"`
}

type logEntryView struct {
	Seq      int64  `json:"seq"`
	Body     string `json:"body"`
	Category string `json:"category,omitempty"`
}

type stateResponse struct {
	Nickname  string         `json:"nickname"`
	Room      roomView       `json:"room"`
	Inventory []string       `json:"inventory"`
	Log       []logEntryView `json:"log"`
}

// handleCommand runs one command for the session's player and returns the
// fragments appended this turn plus the (possibly changed) room view.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request, p *player.Player) {
	defer r.Body.Close()

	var req commandRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCommandBytes))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	frags, err := s.engine.Execute(r.Context(), p.ID, req.Input)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	// Effects may have moved the player; re-read before composing the view.
	p, err = s.players.Get(r.Context(), p.ID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	room, err := s.roomView(r, p.RoomID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.writeJSON(w, commandResponse{
		Fragments: fragmentViews(frags),
		Room:      room,
	})
}

// handleState returns the full client view: identity, room, inventory,
// and the accumulated log. The client renders from this alone on reload.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request, p *player.Player) {
	room, err := s.roomView(r, p.RoomID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	itemIDs, err := s.players.Inventory(r.Context(), p.ID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	inventory := make([]string, 0, len(itemIDs))
	for _, id := range itemIDs {
		item, err := s.world.GetItem(r.Context(), id)
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		inventory = append(inventory, item.Name)
	}

	entries, err := s.players.Log(r.Context(), p.ID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	log := make([]logEntryView, 0, len(entries))
	for _, e := range entries {
		log = append(log, logEntryView{Seq: e.Seq, Body: e.Body, Category: string(e.Category)})
	}

	s.writeJSON(w, stateResponse{
		Nickname:  p.Nickname,
		Room:      room,
		Inventory: inventory,
		Log:       log,
	})
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Derelict</title></head>
<body>
<p>Derelict gateway. POST /command with {"input": "..."}; GET /state for the full view.</p>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	//nolint:errcheck // best-effort static page
	w.Write([]byte(indexHTML))
}

func (s *Server) roomView(r *http.Request, roomID string) (roomView, error) {
	room, err := s.world.GetRoom(r.Context(), roomID)
	if err != nil {
		return roomView{}, err
	}
	objects, err := s.world.ListRoomObjects(r.Context(), roomID)
	if err != nil {
		return roomView{}, err
	}

	seen := make(map[string]struct{}, len(objects))
	names := make([]string, 0, len(objects))
	for _, obj := range objects {
		if _, dup := seen[obj.Name]; dup {
			continue
		}
		seen[obj.Name] = struct{}{}
		names = append(names, obj.Name)
	}

	return roomView{ID: room.ID, Name: room.Name, Objects: names}, nil
}

func fragmentViews(frags []player.Fragment) []fragmentView {
	views := make([]fragmentView, 0, len(frags))
	for _, f := range frags {
		views = append(views, fragmentView{Body: f.Body, Category: string(f.Category)})
	}
	return views
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, _ *http.Request, err error) {
	errutil.LogError(slog.Default(), "request failed", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
