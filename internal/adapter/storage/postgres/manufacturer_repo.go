package postgres

import (
	"context"
	"errors"
	"fmt"

	"batch-custody-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ManufacturerRepo implements ports.ManufacturerRepository.
type ManufacturerRepo struct {
	pool Pool
}

// NewManufacturerRepo creates a new ManufacturerRepo.
func NewManufacturerRepo(pool Pool) *ManufacturerRepo {
	return &ManufacturerRepo{pool: pool}
}

const manufacturerColumns = `id, username, password_hash, company_name, identity, access_key, secret_key_enc, status, created_at, updated_at`

// Create inserts a new manufacturer into the database.
func (r *ManufacturerRepo) Create(ctx context.Context, m *domain.Manufacturer) error {
	query := `INSERT INTO manufacturers (id, username, password_hash, company_name, identity, access_key, secret_key_enc, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		m.ID, m.Username, m.PasswordHash, m.CompanyName, m.Identity,
		m.AccessKey, m.SecretKeyEnc, m.Status,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert manufacturer: %w", err)
	}
	return nil
}

// GetByID fetches a manufacturer by its UUID.
func (r *ManufacturerRepo) GetByID(ctx context.Context, id string) (*domain.Manufacturer, error) {
	query := fmt.Sprintf(`SELECT %s FROM manufacturers WHERE id = $1`, manufacturerColumns)
	return r.scanManufacturer(r.pool.QueryRow(ctx, query, id))
}

// GetByUsername fetches a manufacturer by username.
func (r *ManufacturerRepo) GetByUsername(ctx context.Context, username string) (*domain.Manufacturer, error) {
	query := fmt.Sprintf(`SELECT %s FROM manufacturers WHERE username = $1`, manufacturerColumns)
	return r.scanManufacturer(r.pool.QueryRow(ctx, query, username))
}

// GetByAccessKey fetches a manufacturer by its public access key.
func (r *ManufacturerRepo) GetByAccessKey(ctx context.Context, accessKey string) (*domain.Manufacturer, error) {
	query := fmt.Sprintf(`SELECT %s FROM manufacturers WHERE access_key = $1`, manufacturerColumns)
	return r.scanManufacturer(r.pool.QueryRow(ctx, query, accessKey))
}

// GetByIdentity fetches a manufacturer by its ledger identity.
func (r *ManufacturerRepo) GetByIdentity(ctx context.Context, identity string) (*domain.Manufacturer, error) {
	query := fmt.Sprintf(`SELECT %s FROM manufacturers WHERE identity = $1`, manufacturerColumns)
	return r.scanManufacturer(r.pool.QueryRow(ctx, query, identity))
}

// UpdateKeys replaces the access/secret key pair.
func (r *ManufacturerRepo) UpdateKeys(ctx context.Context, id string, accessKey, secretKeyEnc string) error {
	query := `UPDATE manufacturers SET access_key=$1, secret_key_enc=$2, updated_at=NOW() WHERE id=$3`
	tag, err := r.pool.Exec(ctx, query, accessKey, secretKeyEnc, id)
	if err != nil {
		return fmt.Errorf("update manufacturer keys: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("manufacturer not found: %s", id)
	}
	return nil
}

func (r *ManufacturerRepo) scanManufacturer(row pgx.Row) (*domain.Manufacturer, error) {
	m := &domain.Manufacturer{}
	err := row.Scan(
		&m.ID, &m.Username, &m.PasswordHash, &m.CompanyName, &m.Identity,
		&m.AccessKey, &m.SecretKeyEnc, &m.Status,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan manufacturer: %w", err)
	}
	return m, nil
}
