package postgres

import (
	"context"
	"database/sql"

	"rentvault-backend/internal/domain"
	"rentvault-backend/internal/repository"
)

type paramsRepository struct {
	db *sql.DB
}

func NewParamsRepository(db *sql.DB) repository.ParamsRepository {
	return &paramsRepository{db: db}
}

func (r *paramsRepository) Get(ctx context.Context) (*domain.Params, error) {
	p := &domain.Params{}
	query := `SELECT platform_fee_rate_bps, insurance_rate_bps, treasury_account, paused FROM engine_params WHERE id = 1`
	err := r.db.QueryRowContext(ctx, query).Scan(&p.PlatformFeeRateBps, &p.InsuranceRateBps, &p.TreasuryAccount, &p.Paused)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paramsRepository) Update(ctx context.Context, p *domain.Params) error {
	query := `UPDATE engine_params SET platform_fee_rate_bps=$1, insurance_rate_bps=$2, treasury_account=$3, paused=$4 WHERE id = 1`
	_, err := r.db.ExecContext(ctx, query, p.PlatformFeeRateBps, p.InsuranceRateBps, p.TreasuryAccount, p.Paused)
	return err
}
