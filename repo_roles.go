package identity

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Roles stores the role table and the seed path.
type Roles interface {
	repository.Repository[*Role]

	GetByName(ctx context.Context, name string) (*Role, error)
	GetByNameTx(ctx context.Context, tx bun.IDB, name string) (*Role, error)
	UpsertByName(ctx context.Context, name string, permissions Permission) (*Role, error)
	UpsertByNameTx(ctx context.Context, tx bun.IDB, name string, permissions Permission) (*Role, error)
}

type roles struct {
	repository.Repository[*Role]
	db *bun.DB
}

var _ Roles = (*roles)(nil)

func NewRolesRepository(db *bun.DB) Roles {
	repo := repository.NewRepository[*Role](db, repository.ModelHandlers[*Role]{
		NewRecord: func() *Role { return &Role{} },
		GetID: func(r *Role) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *Role, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &roles{
		Repository: repo,
		db:         db,
	}
}

func (a *roles) GetByName(ctx context.Context, name string) (*Role, error) {
	return a.GetByNameTx(ctx, a.db, name)
}

// GetByNameTx reads through the given transaction so lookups made inside a
// RunInTx closure stay on one connection.
func (a *roles) GetByNameTx(ctx context.Context, tx bun.IDB, name string) (*Role, error) {
	record := &Role{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.name = ?", name).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"name": name})
		}
		return nil, err
	}

	return record, nil
}

func (a *roles) UpsertByName(ctx context.Context, name string, permissions Permission) (*Role, error) {
	return a.UpsertByNameTx(ctx, a.db, name, permissions)
}

// UpsertByNameTx creates the role or overwrites its bitmask. Running it
// twice with the same mapping leaves the table unchanged.
func (a *roles) UpsertByNameTx(ctx context.Context, tx bun.IDB, name string, permissions Permission) (*Role, error) {
	existing := &Role{}
	err := tx.NewSelect().
		Model(existing).
		Where("?TableAlias.name = ?", name).
		Limit(1).
		Scan(ctx)

	if err == nil {
		existing.Permissions = permissions
		return a.Repository.UpdateTx(ctx, tx, existing, repository.UpdateByID(existing.ID.String()))
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	record := &Role{
		ID:          uuid.New(),
		Name:        name,
		Permissions: permissions,
	}

	return a.Repository.CreateTx(ctx, tx, record)
}

// SeedRoles upserts the given role-name to bitmask mapping. It is the
// idempotent population step run at startup or from a seed command.
func SeedRoles(ctx context.Context, repo RepositoryManager, mapping map[string]Permission) error {
	return repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for name, permissions := range mapping {
			if _, err := repo.Roles().UpsertByNameTx(ctx, tx, name, permissions); err != nil {
				return err
			}
		}
		return nil
	})
}
