package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rentvault-backend/internal/domain"
	"rentvault-backend/internal/repository"
)

type assetRepository struct {
	db *sql.DB
}

func NewAssetRepository(db *sql.DB) repository.AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(ctx context.Context, a *domain.Asset) error {
	query := `INSERT INTO assets (owner, price_per_hour, available, created_at)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRowContext(ctx, query, a.Owner, a.PricePerHour, a.Available, a.CreatedAt).Scan(&a.ID)
}

func (r *assetRepository) GetByID(ctx context.Context, id int64) (*domain.Asset, error) {
	a := &domain.Asset{}
	query := `SELECT id, owner, price_per_hour, available, created_at FROM assets WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Owner, &a.PricePerHour, &a.Available, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAssetNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *assetRepository) Update(ctx context.Context, a *domain.Asset) error {
	query := `UPDATE assets SET owner=$1, price_per_hour=$2, available=$3 WHERE id=$4`
	res, err := r.db.ExecContext(ctx, query, a.Owner, a.PricePerHour, a.Available, a.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}
