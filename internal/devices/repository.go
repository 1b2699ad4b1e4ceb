package devices

import (
	"context"
	"fmt"

	"github.com/neurales/dashboard/internal/models"
	"github.com/neurales/dashboard/internal/upstream"
)

// Repository calls the backend device endpoints.
type Repository struct {
	client *upstream.Client
}

func NewRepository(client *upstream.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]models.Device, error) {
	return upstream.GetList[models.Device](ctx, r.client, "/devices", upstream.Page(limit, offset))
}

func (r *Repository) GetByID(ctx context.Context, id int) (*models.Device, error) {
	var d models.Device
	if err := r.client.Get(ctx, fmt.Sprintf("/devices/%d", id), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) Create(ctx context.Context, in models.DeviceInput) (*models.Device, error) {
	var d models.Device
	if err := r.client.Post(ctx, "/devices", in, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) Update(ctx context.Context, id int, in models.DeviceInput) (*models.Device, error) {
	var d models.Device
	if err := r.client.Put(ctx, fmt.Sprintf("/devices/%d", id), in, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	return r.client.Delete(ctx, fmt.Sprintf("/devices/%d", id))
}
