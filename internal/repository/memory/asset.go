package memory

import (
	"context"

	"rentvault-backend/internal/domain"
)

type assetRepo struct {
	st *state
}

func (r *assetRepo) Create(ctx context.Context, asset *domain.Asset) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	asset.ID = r.st.nextAssetID
	r.st.nextAssetID++
	r.st.assets[asset.ID] = *asset
	return nil
}

func (r *assetRepo) GetByID(ctx context.Context, id int64) (*domain.Asset, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	a, ok := r.st.assets[id]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}
	out := a
	return &out, nil
}

func (r *assetRepo) Update(ctx context.Context, asset *domain.Asset) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.assets[asset.ID]; !ok {
		return domain.ErrAssetNotFound
	}
	r.st.assets[asset.ID] = *asset
	return nil
}
