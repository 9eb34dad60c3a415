package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/srgjo27/enterprise_booking/internal/core/domain"
)

// ReferenceRepository reads the catalog tables owned by the surrounding
// application.
type ReferenceRepository struct {
	db *sql.DB
}

func NewReferenceRepository(db *sql.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) GetProduct(ctx context.Context, productID uuid.UUID) (*domain.Product, error) {
	query := `
	SELECT p.id, p.name, e.id, e.name, e.owner_id
	FROM products p
	JOIN enterprises e ON e.id = p.enterprise_id
	WHERE p.id = $1
	`

	var p domain.Product
	var ownerID uuid.NullUUID

	err := r.db.QueryRowContext(ctx, query, productID).Scan(
		&p.ID,
		&p.Name,
		&p.Enterprise.ID,
		&p.Enterprise.Name,
		&ownerID,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}

		return nil, err
	}

	if ownerID.Valid {
		id := ownerID.UUID
		p.Enterprise.OwnerID = &id
	}

	return &p, nil
}

func (r *ReferenceRepository) ListStaff(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM user_roles WHERE role = 'staff' ORDER BY user_id`)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}
