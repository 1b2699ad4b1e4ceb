// Package devices mirrors the acquisition headsets registered on the backend.
package devices

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/neurales/dashboard/internal/models"
	"github.com/neurales/dashboard/internal/upstream"
	"github.com/neurales/dashboard/pkg/mirror"
)

type Store struct {
	repo   *Repository
	mirror *mirror.Mirror[models.Device]
	logger *zap.Logger
}

func NewStore(repo *Repository, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{repo: repo, mirror: mirror.New[models.Device](ttl), logger: logger}
}

func (s *Store) Mirror() *mirror.Mirror[models.Device] { return s.mirror }

func (s *Store) List(ctx context.Context, limit, offset int) ([]models.Device, error) {
	s.mirror.Begin()
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.mirror.End(upstream.Message(err, "failed to load devices"))
		return nil, err
	}
	s.mirror.SetItems(items)
	s.mirror.End("")
	return items, nil
}

// Get loads a device. When the backend cannot be reached the last cached
// copy is served instead.
func (s *Store) Get(ctx context.Context, id int) (*models.Device, error) {
	s.mirror.Begin()
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.mirror.End(upstream.Message(err, "failed to load device"))
		if cached, ok := s.mirror.Cached(id); ok && upstream.Unreachable(err) {
			s.logger.Warn("serving cached device", zap.Int("device_id", id), zap.Error(err))
			return &cached, nil
		}
		return nil, err
	}
	s.mirror.SetCurrent(*d)
	s.mirror.End("")
	return d, nil
}

// Create registers a device and appends it to the list.
func (s *Store) Create(ctx context.Context, in models.DeviceInput) (*models.Device, error) {
	s.mirror.Begin()
	d, err := s.repo.Create(ctx, in)
	if err != nil {
		s.mirror.End(upstream.Message(err, "failed to create device"))
		return nil, err
	}
	s.mirror.Add(*d, false)
	s.mirror.End("")
	return d, nil
}

// Update changes a device. The current device is only replaced when it is
// the one updated.
func (s *Store) Update(ctx context.Context, id int, in models.DeviceInput) (*models.Device, error) {
	s.mirror.Begin()
	d, err := s.repo.Update(ctx, id, in)
	if err != nil {
		s.mirror.End(upstream.Message(err, "failed to update device"))
		return nil, err
	}
	s.mirror.Replace(*d)
	s.mirror.End("")
	return d, nil
}

func (s *Store) Delete(ctx context.Context, id int) error {
	s.mirror.Begin()
	if err := s.repo.Delete(ctx, id); err != nil {
		s.mirror.End(upstream.Message(err, "failed to delete device"))
		return err
	}
	s.mirror.Remove(id)
	s.mirror.End("")
	return nil
}
