package stores

import (
	"context"

	"url-shrinker/internal/interfaces"
	"url-shrinker/internal/schemas"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = "user_id, first_name, last_name, email, password, is_admin, activated, fp_token, expire_token, created_at"

type UserStore struct {
	db interfaces.Querier
}

func NewUserStore(db interfaces.Querier) *UserStore {
	return &UserStore{db: db}
}

// WithTx returns a store running its queries inside tx.
func (s *UserStore) WithTx(tx pgx.Tx) *UserStore {
	return &UserStore{db: tx}
}

func scanUser(row pgx.Row) (*schemas.User, error) {
	user := &schemas.User{}
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Password,
		&user.IsAdmin, &user.Activated, &user.FpToken, &user.ExpireToken, &user.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*schemas.User, error) {
	queryString := "SELECT " + userColumns + " FROM users WHERE email = $1"
	return scanUser(s.db.QueryRow(ctx, queryString, email))
}

// FindByIdAndEmail resolves the user behind session claims, both must still match.
func (s *UserStore) FindByIdAndEmail(ctx context.Context, id uuid.UUID, email string) (*schemas.User, error) {
	queryString := "SELECT " + userColumns + " FROM users WHERE user_id = $1 AND email = $2"
	return scanUser(s.db.QueryRow(ctx, queryString, id, email))
}

// FindByResetToken finds the holder of a reset code. A validAfter of 0 skips the expiry check,
// otherwise the code must expire after validAfter (epoch milliseconds).
func (s *UserStore) FindByResetToken(ctx context.Context, token string, validAfter int64) (*schemas.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	if validAfter == 0 {
		queryString := "SELECT " + userColumns + " FROM users WHERE fp_token = $1"
		return scanUser(s.db.QueryRow(ctx, queryString, token))
	}

	queryString := "SELECT " + userColumns + " FROM users WHERE fp_token = $1 AND expire_token > $2"
	return scanUser(s.db.QueryRow(ctx, queryString, token, validAfter))
}

func (s *UserStore) Insert(ctx context.Context, user *schemas.User) error {
	queryString := "INSERT INTO users (" + userColumns + ") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)"
	_, err := s.db.Exec(ctx, queryString, user.ID, user.FirstName, user.LastName, user.Email, user.Password,
		user.IsAdmin, user.Activated, user.FpToken, user.ExpireToken, user.CreatedAt)
	return mapError(err)
}

func (s *UserStore) Activate(ctx context.Context, id uuid.UUID) error {
	queryString := "UPDATE users SET activated = TRUE WHERE user_id = $1"
	tag, err := s.db.Exec(ctx, queryString, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetResetToken stores a reset code and its expiry (epoch milliseconds), replacing any earlier code.
func (s *UserStore) SetResetToken(ctx context.Context, email, code string, expiresAt int64) error {
	queryString := "UPDATE users SET fp_token = $1, expire_token = $2 WHERE email = $3"
	tag, err := s.db.Exec(ctx, queryString, code, expiresAt, email)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetPassword replaces the password of the holder of token and consumes the token.
// Of two concurrent resets with the same token only one matches a row.
func (s *UserStore) ResetPassword(ctx context.Context, token, passwordHash string) error {
	if token == "" {
		return ErrNotFound
	}

	queryString := "UPDATE users SET password = $1, fp_token = '', expire_token = 0 WHERE fp_token = $2"
	tag, err := s.db.Exec(ctx, queryString, passwordHash, token)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
