package patients

import (
	"context"
	"fmt"

	"github.com/neurales/dashboard/internal/models"
	"github.com/neurales/dashboard/internal/upstream"
)

// Repository calls the backend patient endpoints.
type Repository struct {
	client *upstream.Client
}

// NewRepository creates a patient repository.
func NewRepository(client *upstream.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]models.Patient, error) {
	return upstream.GetList[models.Patient](ctx, r.client, "/patients", upstream.Page(limit, offset))
}

func (r *Repository) GetByID(ctx context.Context, id int) (*models.Patient, error) {
	var p models.Patient
	if err := r.client.Get(ctx, fmt.Sprintf("/patients/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Create(ctx context.Context, in models.PatientInput) (*models.Patient, error) {
	var p models.Patient
	if err := r.client.Post(ctx, "/patients", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Update(ctx context.Context, id int, in models.PatientUpdate) (*models.Patient, error) {
	var p models.Patient
	if err := r.client.Put(ctx, fmt.Sprintf("/patients/%d", id), in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	return r.client.Delete(ctx, fmt.Sprintf("/patients/%d", id))
}

// Services lists the hospital services known to the organisation.
func (r *Repository) Services(ctx context.Context) ([]string, error) {
	return upstream.GetList[string](ctx, r.client, "/patients/meta/services", nil)
}

// Doctors lists the referring doctors known to the organisation.
func (r *Repository) Doctors(ctx context.Context) ([]string, error) {
	return upstream.GetList[string](ctx, r.client, "/patients/meta/medecins", nil)
}
