// Package results mirrors the recorded acquisition sessions and their
// analytics.
package results

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/neurales/dashboard/internal/models"
	"github.com/neurales/dashboard/internal/upstream"
	"github.com/neurales/dashboard/pkg/mirror"
)

type Store struct {
	repo   *Repository
	mirror *mirror.Mirror[models.Result]
	logger *zap.Logger
}

func NewStore(repo *Repository, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{repo: repo, mirror: mirror.New[models.Result](ttl), logger: logger}
}

func (s *Store) Mirror() *mirror.Mirror[models.Result] { return s.mirror }

func (s *Store) List(ctx context.Context, limit, offset int) ([]models.Result, error) {
	s.mirror.Begin()
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.mirror.End(upstream.Message(err, "failed to load sessions"))
		return nil, err
	}
	s.mirror.SetItems(items)
	s.mirror.End("")
	return items, nil
}

// Get loads a session. When the backend cannot be reached the last cached
// copy is served instead.
func (s *Store) Get(ctx context.Context, id int) (*models.Result, error) {
	s.mirror.Begin()
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.mirror.End(upstream.Message(err, "failed to load session"))
		if cached, ok := s.mirror.Cached(id); ok && upstream.Unreachable(err) {
			s.logger.Warn("serving cached session", zap.Int("session_id", id), zap.Error(err))
			return &cached, nil
		}
		return nil, err
	}
	s.mirror.SetCurrent(*res)
	s.mirror.End("")
	return res, nil
}

// Create records a session and puts it first in the list.
func (s *Store) Create(ctx context.Context, in models.ResultInput) (*models.Result, error) {
	s.mirror.Begin()
	res, err := s.repo.Create(ctx, in)
	if err != nil {
		s.mirror.End(upstream.Message(err, "failed to create session"))
		return nil, err
	}
	s.mirror.Add(*res, true)
	s.mirror.End("")
	return res, nil
}

// Update changes a session and makes it the current one.
func (s *Store) Update(ctx context.Context, id int, in models.ResultInput) (*models.Result, error) {
	s.mirror.Begin()
	res, err := s.repo.Update(ctx, id, in)
	if err != nil {
		s.mirror.End(upstream.Message(err, "failed to update session"))
		return nil, err
	}
	s.mirror.Replace(*res)
	s.mirror.SetCurrent(*res)
	s.mirror.End("")
	return res, nil
}

func (s *Store) Delete(ctx context.Context, id int) error {
	s.mirror.Begin()
	if err := s.repo.Delete(ctx, id); err != nil {
		s.mirror.End(upstream.Message(err, "failed to delete session"))
		return err
	}
	s.mirror.Remove(id)
	s.mirror.End("")
	return nil
}

func (s *Store) ClearCurrent() { s.mirror.ClearCurrent() }

// Analytics returns one analysis of a session, or nil when the backend
// fails. Failures are logged, not returned.
func (s *Store) Analytics(ctx context.Context, id int, a Analysis) json.RawMessage {
	raw, err := s.repo.Analytics(ctx, id, a)
	if err != nil {
		s.logger.Warn("session analytics unavailable",
			zap.Int("session_id", id), zap.String("analysis", string(a)), zap.Error(err))
		return nil
	}
	return raw
}
