package memory

import (
	"context"

	"rentvault-backend/internal/domain"
)

type paramsRepo struct {
	st *state
}

func (r *paramsRepo) Get(ctx context.Context) (*domain.Params, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	p := r.st.params
	return &p, nil
}

func (r *paramsRepo) Update(ctx context.Context, params *domain.Params) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.params = *params
	return nil
}
