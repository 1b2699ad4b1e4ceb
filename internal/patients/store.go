// Package patients mirrors the patient records of the backend.
package patients

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/neurales/dashboard/internal/models"
	"github.com/neurales/dashboard/internal/upstream"
	"github.com/neurales/dashboard/pkg/mirror"
)

// Store keeps the last patient list, the patient being viewed and the
// metadata lists used by the patient form.
type Store struct {
	repo   *Repository
	mirror *mirror.Mirror[models.Patient]
	logger *zap.Logger

	mu       sync.RWMutex
	services []string
	doctors  []string
}

// NewStore creates a patient store whose by-id cache expires after ttl.
func NewStore(repo *Repository, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{repo: repo, mirror: mirror.New[models.Patient](ttl), logger: logger}
}

func (s *Store) Mirror() *mirror.Mirror[models.Patient] { return s.mirror }

func (s *Store) List(ctx context.Context, limit, offset int) ([]models.Patient, error) {
	s.mirror.Begin()
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.mirror.End(upstream.Message(err, "failed to load patients"))
		return nil, err
	}
	s.mirror.SetItems(items)
	s.mirror.End("")
	return items, nil
}

// Get loads a patient. When the backend cannot be reached the last cached
// copy is served instead.
func (s *Store) Get(ctx context.Context, id int) (*models.Patient, error) {
	s.mirror.Begin()
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.mirror.End(upstream.Message(err, "failed to load patient"))
		if cached, ok := s.mirror.Cached(id); ok && upstream.Unreachable(err) {
			s.logger.Warn("serving cached patient", zap.Int("patient_id", id), zap.Error(err))
			return &cached, nil
		}
		return nil, err
	}
	s.mirror.SetCurrent(*p)
	s.mirror.End("")
	return p, nil
}

func (s *Store) Create(ctx context.Context, in models.PatientInput) (*models.Patient, error) {
	s.mirror.Begin()
	p, err := s.repo.Create(ctx, in)
	if err != nil {
		s.mirror.End(upstream.Message(err, "failed to create patient"))
		return nil, err
	}
	s.mirror.Add(*p, true)
	s.mirror.End("")
	return p, nil
}

func (s *Store) Update(ctx context.Context, id int, in models.PatientUpdate) (*models.Patient, error) {
	s.mirror.Begin()
	p, err := s.repo.Update(ctx, id, in)
	if err != nil {
		s.mirror.End(upstream.Message(err, "failed to update patient"))
		return nil, err
	}
	s.mirror.Replace(*p)
	s.mirror.SetCurrent(*p)
	s.mirror.End("")
	return p, nil
}

func (s *Store) Delete(ctx context.Context, id int) error {
	s.mirror.Begin()
	if err := s.repo.Delete(ctx, id); err != nil {
		s.mirror.End(upstream.Message(err, "failed to delete patient"))
		return err
	}
	s.mirror.Remove(id)
	s.mirror.End("")
	return nil
}

// Services refreshes the service list. On failure the previous list is
// returned along with the error.
func (s *Store) Services(ctx context.Context) ([]string, error) {
	list, err := s.repo.Services(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Warn("load services", zap.Error(err))
		return append([]string(nil), s.services...), err
	}
	s.services = list
	return append([]string(nil), list...), nil
}

// Doctors refreshes the referring doctor list, like Services.
func (s *Store) Doctors(ctx context.Context) ([]string, error) {
	list, err := s.repo.Doctors(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Warn("load doctors", zap.Error(err))
		return append([]string(nil), s.doctors...), err
	}
	s.doctors = list
	return append([]string(nil), list...), nil
}
