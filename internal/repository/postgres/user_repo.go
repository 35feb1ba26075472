package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/avtokontrol/avtokontrol/internal/errs"
	"github.com/avtokontrol/avtokontrol/internal/model"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts the user and its profile in a single transaction.
func (r *UserRepo) Create(ctx context.Context, u *model.User, p *model.Profile) error {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const qu = `
INSERT INTO users (id, email, pwd_hash, salt_auth)
VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(ctx, qu, u.ID, u.Email, u.PwdHash, u.SaltAuth); err != nil {
		if isUniqueViolation(err) {
			return errs.ErrAlreadyExists
		}
		return err
	}

	const qp = `
INSERT INTO profiles (id, name, username, email, avatar)
VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.Exec(ctx, qp, p.ID, p.Name, p.Username, p.Email, p.AvatarURL); err != nil {
		if isUniqueViolation(err) {
			return errs.ErrAlreadyExists
		}
		return err
	}

	return tx.Commit(ctx)
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const q = `
SELECT id, email, pwd_hash, salt_auth, created_at
FROM users WHERE id=$1`
	return r.scanUser(r.db.Pool.QueryRow(ctx, q, id))
}

// GetByEmail selects a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
SELECT id, email, pwd_hash, salt_auth, created_at
FROM users WHERE email=$1`
	return r.scanUser(r.db.Pool.QueryRow(ctx, q, email))
}

func (r *UserRepo) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Email, &u.PwdHash, &u.SaltAuth, &u.CreatedAt); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}
	return &u, nil
}

// GetProfile selects the profile of a user.
func (r *UserRepo) GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	const q = `
SELECT id, name, username, email, avatar, joined
FROM profiles WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	var p model.Profile
	if err := row.Scan(&p.ID, &p.Name, &p.Username, &p.Email, &p.AvatarURL, &p.JoinedAt); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}
	return &p, nil
}

// UpdateProfile rewrites mutable profile fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, p *model.Profile) error {
	const q = `
UPDATE profiles
SET name = $2, username = $3, avatar = $4, updated_at = now()
WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q, p.ID, p.Name, p.Username, p.AvatarURL)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.ErrAlreadyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
