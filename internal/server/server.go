// Package server is the thin HTTP glue over the progression engine: cookie
// sessions, JSON encoding and the admin key check live here, nothing else.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KemboiK/evolve-bot/internal/config"
	"github.com/KemboiK/evolve-bot/internal/engine"
)

const sessionCookie = "evolve_sid"

type Server struct {
	svc *engine.Service
	cfg *config.Config
	log *zap.Logger
}

func New(svc *engine.Service, cfg *config.Config, log *zap.Logger) *Server {
	return &Server{svc: svc, cfg: cfg, log: log}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleHome)
	mux.HandleFunc("POST /message", s.handleMessage)
	mux.HandleFunc("POST /verify_age", s.handleVerifyAge)
	mux.HandleFunc("GET /profile", s.handleProfile)
	mux.HandleFunc("GET /streak", s.handleStreak)
	mux.HandleFunc("GET /achievements", s.handleAchievements)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("GET /admin/messages", s.handleAdminMessages)
	return mux
}

// sessionID returns the opaque session key from the cookie, minting one on
// first contact.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	sid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	sid := s.sessionID(w, r)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Evolve Bot running",
		"session": sid,
	})
}

type messageRequest struct {
	Text string `json:"text"`
	Name string `json:"name"`
}

type messageResponse struct {
	Reply           string   `json:"reply"`
	Blocked         bool     `json:"blocked"`
	BlockReason     string   `json:"block_reason,omitempty"`
	XPGained        int      `json:"xp_gained,omitempty"`
	LeveledUp       bool     `json:"leveled_up,omitempty"`
	NewLevel        int      `json:"new_level,omitempty"`
	NewAchievements []string `json:"new_achievements,omitempty"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)

	if s.cfg.RequireAgeGate {
		ok, err := s.svc.AgeVerified(r.Context(), sid)
		if err != nil {
			s.internalError(w, "age check", err)
			return
		}
		if !ok {
			writeError(w, http.StatusForbidden, "age_verification_required")
			return
		}
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	res, err := s.svc.ProcessMessage(r.Context(), sid, req.Text, req.Name)
	if err != nil {
		if errors.Is(err, engine.ErrEmptyInput) {
			writeError(w, http.StatusBadRequest, "empty_message")
			return
		}
		s.internalError(w, "process message", err)
		return
	}

	status := http.StatusOK
	if res.Blocked {
		status = http.StatusForbidden
	}
	writeJSON(w, status, messageResponse{
		Reply:           res.Reply,
		Blocked:         res.Blocked,
		BlockReason:     res.BlockReason,
		XPGained:        res.XPGained,
		LeveledUp:       res.LeveledUp,
		NewLevel:        res.NewLevel,
		NewAchievements: res.NewAchievements,
	})
}

type verifyAgeRequest struct {
	// Age arrives as a number or a quoted string depending on the client.
	Age json.RawMessage `json:"age"`
}

func (s *Server) handleVerifyAge(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)

	var req verifyAgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Age) == 0 {
		writeError(w, http.StatusBadRequest, "age_missing")
		return
	}
	raw := strings.Trim(strings.TrimSpace(string(req.Age)), `"`)
	age, err := strconv.Atoi(raw)
	if err != nil || age < 18 {
		writeError(w, http.StatusForbidden, "must_be_18_plus")
		return
	}

	if err := s.svc.VerifyAge(r.Context(), sid); err != nil {
		s.internalError(w, "verify age", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	p, err := s.svc.GetProfile(r.Context(), sid)
	if err != nil {
		s.internalError(w, "get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session":      p.SessionKey,
		"display_name": p.DisplayName,
		"xp":           p.XP,
		"level":        p.Level,
		"total_xp":     engine.TotalXPEquivalent(p.XP, p.Level),
	})
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	streak, err := s.svc.Streak(r.Context(), sid)
	if err != nil {
		s.internalError(w, "get streak", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"streak_days": streak,
		"multiplier":  engine.StreakMultiplier(streak),
	})
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	unlocked, err := s.svc.GetAchievements(r.Context(), sid)
	if err != nil {
		s.internalError(w, "get achievements", err)
		return
	}
	type entry struct {
		Key        string `json:"key"`
		Title      string `json:"title"`
		UnlockedAt string `json:"unlocked_at"`
	}
	out := make([]entry, 0, len(unlocked))
	for _, a := range unlocked {
		out = append(out, entry{
			Key:        a.AchievementKey,
			Title:      engine.AchievementTitle(a.AchievementKey),
			UnlockedAt: a.UnlockedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	if err := s.svc.ResetProgress(r.Context(), sid); err != nil {
		s.internalError(w, "reset", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleAdminMessages(w http.ResponseWriter, r *http.Request) {
	if s.cfg.AdminKey == "" || r.Header.Get("X-Admin-Key") != s.cfg.AdminKey {
		writeError(w, http.StatusUnauthorized, "admin_key_required")
		return
	}
	msgs, err := s.svc.ActivityRepo().ListRecent(r.Context(), 200)
	if err != nil {
		s.internalError(w, "admin messages", err)
		return
	}
	type row struct {
		ID      int64  `json:"id"`
		Session string `json:"session"`
		Role    string `json:"role"`
		Content string `json:"content"`
		Time    string `json:"time"`
	}
	out := make([]row, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, row{
			ID:      m.ID,
			Session: m.SessionKey,
			Role:    m.Role,
			Content: m.Content,
			Time:    m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.log.Error(op, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error")
}
