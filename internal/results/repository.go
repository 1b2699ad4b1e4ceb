package results

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/neurales/dashboard/internal/models"
	"github.com/neurales/dashboard/internal/upstream"
)

// Analysis names a per-session analytics endpoint.
type Analysis string

const (
	AnalysisQuality Analysis = "quality"
	AnalysisFatigue Analysis = "fatigue-score"
	AnalysisEEG     Analysis = "eeg"
)

// Repository calls the backend session result and analytics endpoints.
type Repository struct {
	client *upstream.Client
}

func NewRepository(client *upstream.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]models.Result, error) {
	return upstream.GetList[models.Result](ctx, r.client, "/results", upstream.Page(limit, offset))
}

func (r *Repository) GetByID(ctx context.Context, id int) (*models.Result, error) {
	var res models.Result
	if err := r.client.Get(ctx, fmt.Sprintf("/results/%d", id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *Repository) Create(ctx context.Context, in models.ResultInput) (*models.Result, error) {
	var res models.Result
	if err := r.client.Post(ctx, "/results", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *Repository) Update(ctx context.Context, id int, in models.ResultInput) (*models.Result, error) {
	var res models.Result
	if err := r.client.Put(ctx, fmt.Sprintf("/results/%d", id), in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	return r.client.Delete(ctx, fmt.Sprintf("/results/%d", id))
}

// Analytics fetches one analysis of a session. The payload is passed through
// untouched.
func (r *Repository) Analytics(ctx context.Context, id int, a Analysis) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := r.client.Get(ctx, fmt.Sprintf("/analytics/sessions/%d/%s", id, a), nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
