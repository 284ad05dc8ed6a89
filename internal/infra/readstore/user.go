package readstore

import (
	"context"

	"hostpanel/internal/infra"
	"hostpanel/internal/infra/db"
	"hostpanel/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(pool db.DBTX) *UserReadStore {
	return &UserReadStore{db: pool}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	var v queries.AuthorizedUserView
	err := r.db.QueryRow(ctx, `
		SELECT id, email, role, is_active
		FROM users WHERE id = $1`, id,
	).Scan(&v.ID, &v.Email, &v.Role, &v.IsActive)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	return &v, nil
}
