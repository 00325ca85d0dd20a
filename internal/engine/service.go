package engine

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/KemboiK/evolve-bot/internal/events"
	"github.com/KemboiK/evolve-bot/internal/reply"
	"github.com/KemboiK/evolve-bot/internal/storage"
)

// Service owns the conversation progression core: moderation gating, routing,
// the XP/level state machine, streaks and achievement evaluation. The reply
// generator and event sink are soft collaborators; their failures never fail
// a progression update.
type Service struct {
	db       *sql.DB
	profiles *storage.ProfileRepo
	activity *storage.ActivityRepo
	unlocks  *storage.AchievementRepo
	progress *storage.ProgressRepo
	state    *storage.StateRepo

	locks *sessionLocks

	replies reply.Generator
	sink    events.Sink
	log     *zap.Logger
	now     func() time.Time
}

type Option func(*Service)

func WithReplyGenerator(g reply.Generator) Option {
	return func(s *Service) { s.replies = g }
}

func WithEventSink(sink events.Sink) Option {
	return func(s *Service) { s.sink = sink }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithClock overrides the service clock. Tests use it to place activity on
// specific calendar days.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(db *sql.DB, opts ...Option) *Service {
	s := &Service{
		db:       db,
		profiles: storage.NewProfileRepo(db),
		activity: storage.NewActivityRepo(db),
		unlocks:  storage.NewAchievementRepo(db),
		progress: storage.NewProgressRepo(db),
		state:    storage.NewStateRepo(db),
		locks:    newSessionLocks(),
		replies:  reply.NewFallback(nil, reply.NewTemplateGenerator(), zap.NewNop()),
		sink:     events.Discard{},
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ProfileRepo() *storage.ProfileRepo { return s.profiles }

func (s *Service) ActivityRepo() *storage.ActivityRepo { return s.activity }

func (s *Service) AchievementRepo() *storage.AchievementRepo { return s.unlocks }

func (s *Service) ProgressRepo() *storage.ProgressRepo { return s.progress }

// GetProfile returns the session's profile, creating it on first contact.
func (s *Service) GetProfile(ctx context.Context, sessionKey string) (*storage.Profile, error) {
	return s.profiles.GetOrCreate(ctx, sessionKey, "")
}

// GetAchievements lists the session's unlocked achievements in unlock order.
func (s *Service) GetAchievements(ctx context.Context, sessionKey string) ([]storage.UnlockedAchievement, error) {
	return s.unlocks.ListBySession(ctx, sessionKey)
}

// ResetProgress resets xp/level to initial values and clears task progress.
// Achievements stay unlocked.
func (s *Service) ResetProgress(ctx context.Context, sessionKey string) error {
	unlock := s.locks.lock(sessionKey)
	defer unlock()

	if _, err := s.profiles.GetOrCreate(ctx, sessionKey, ""); err != nil {
		return err
	}
	if err := storage.ResetSession(ctx, s.db, sessionKey, s.now()); err != nil {
		return err
	}
	s.emit("progress_reset", sessionKey, nil)
	return nil
}

// VerifyAge marks the session as age-verified. Enforcement is the transport
// layer's job; the engine only stores the flag.
func (s *Service) VerifyAge(ctx context.Context, sessionKey string) error {
	unlock := s.locks.lock(sessionKey)
	defer unlock()

	if err := s.state.SetAgeVerified(ctx, sessionKey, true); err != nil {
		return err
	}
	return s.activity.Insert(ctx, sessionKey, storage.RoleSystem, "age_verified", s.now())
}

func (s *Service) AgeVerified(ctx context.Context, sessionKey string) (bool, error) {
	st, err := s.state.Get(ctx, sessionKey)
	if err != nil {
		return false, err
	}
	return st.AgeVerified, nil
}

// FocusMode reports the session's focus flag.
func (s *Service) FocusMode(ctx context.Context, sessionKey string) (bool, error) {
	st, err := s.state.Get(ctx, sessionKey)
	if err != nil {
		return false, err
	}
	return st.FocusMode, nil
}

// emit pushes an event to the sink without blocking the caller. Sink failures
// are the sink's problem; progression correctness never depends on them.
func (s *Service) emit(eventType, sessionKey string, payload map[string]any) {
	ev := events.Event{
		Type:       eventType,
		SessionKey: sessionKey,
		Payload:    payload,
		At:         s.now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), events.NotifyTimeout)
		defer cancel()
		s.sink.Notify(ctx, ev)
	}()
}
