package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/user"
	"blog-backend/internal/domains/user/model"
	"blog-backend/internal/shared/pagination"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/database"
)

// Cache key layout. List keys encode the full pagination window so a
// single DeletePattern on the prefix clears every cached page.
// User updates and deletes also clear the whole posts keyspace: a
// deleted user cascades to their posts, and cached post entries (item
// and list alike) embed author fields.
const (
	userCacheKeyPrefix = "users:"
	userListKeyPrefix  = "users:list:"
	postKeyPrefix      = "posts:"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// query code runs inside or outside a caller-supplied transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type postgresRepository struct {
	pool  *pgxpool.Pool
	db    querier
	cache cache.Cache
	ttl   time.Duration
	inTx  bool
}

// NewPostgresRepository builds the user repository. The pool and cache
// are injected; there is no ambient engine or session state.
func NewPostgresRepository(pool *pgxpool.Pool, c cache.Cache, ttl time.Duration) user.Repository {
	return &postgresRepository{
		pool:  pool,
		db:    pool,
		cache: c,
		ttl:   ttl,
	}
}

func (r *postgresRepository) WithTx(tx pgx.Tx) user.Repository {
	return &postgresRepository{
		pool:  r.pool,
		db:    tx,
		cache: r.cache,
		ttl:   r.ttl,
		inTx:  true,
	}
}

const userColumns = "id, username, email, password, created_at"

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	cacheKey := fmt.Sprintf("%s%d", userCacheKeyPrefix, id)

	if !r.inTx {
		var cached model.User
		if hit, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	if !r.inTx {
		r.cache.Set(ctx, cacheKey, u, r.ttl)
	}

	return u, nil
}

func (r *postgresRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	u, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return u, nil
}

// ListCacheKey is the deterministic cache key for a user list window.
func ListCacheKey(p pagination.Params) string {
	return fmt.Sprintf("%s%d:%d", userListKeyPrefix, p.Page, p.PerPage)
}

func (r *postgresRepository) List(ctx context.Context, p pagination.Params) ([]model.User, error) {
	cacheKey := ListCacheKey(p)

	if !r.inTx {
		var cached []model.User
		if hit, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, p.Limit(), p.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	if !r.inTx {
		r.cache.Set(ctx, cacheKey, users, r.ttl)
	}

	return users, nil
}

func (r *postgresRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	if r.inTx {
		return r.createIn(ctx, r.db, u)
	}

	created, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.User, error) {
		return r.createIn(ctx, tx, u)
	})
	if err != nil {
		return nil, err
	}

	r.invalidateListCaches(ctx)
	return created, nil
}

func (r *postgresRepository) createIn(ctx context.Context, q querier, u *model.User) (*model.User, error) {
	query := `
        INSERT INTO users (username, email, password)
        VALUES ($1, $2, $3)
        RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query, u.Username, u.Email, u.Password))
	if err != nil {
		return nil, mapUniqueViolation(err, "failed to create user")
	}

	return created, nil
}

func (r *postgresRepository) Update(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	if r.inTx {
		return r.updateIn(ctx, r.db, id, patch)
	}

	updated, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.User, error) {
		return r.updateIn(ctx, tx, id, patch)
	})
	if err != nil {
		return nil, err
	}

	r.invalidateUserCache(ctx, id)
	r.invalidateListCaches(ctx)
	r.invalidatePostCaches(ctx)
	return updated, nil
}

// updateIn merges only the patch fields that are set; COALESCE keeps
// the stored value for absent ones. ID and created_at are never in the
// SET list.
func (r *postgresRepository) updateIn(ctx context.Context, q querier, id int64, patch model.UserPatch) (*model.User, error) {
	query := `
        UPDATE users
        SET username = COALESCE($1, username),
            email    = COALESCE($2, email),
            password = COALESCE($3, password)
        WHERE id = $4
        RETURNING ` + userColumns

	updated, err := scanUser(q.QueryRow(ctx, query, patch.Username, patch.Email, patch.Password, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, mapUniqueViolation(err, "failed to update user")
	}

	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	if r.inTx {
		return r.deleteIn(ctx, r.db, id)
	}

	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return r.deleteIn(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	r.invalidateUserCache(ctx, id)
	r.invalidateListCaches(ctx)
	r.invalidatePostCaches(ctx)
	return nil
}

func (r *postgresRepository) deleteIn(ctx context.Context, q querier, id int64) error {
	cmdTag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

func mapUniqueViolation(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "username") || strings.Contains(pgErr.Message, "username"):
			return user.ErrUsernameAlreadyExists
		case strings.Contains(pgErr.ConstraintName, "email") || strings.Contains(pgErr.Message, "email"):
			return user.ErrEmailAlreadyExists
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (r *postgresRepository) invalidateUserCache(ctx context.Context, id int64) {
	r.cache.Delete(ctx, fmt.Sprintf("%s%d", userCacheKeyPrefix, id))
}

func (r *postgresRepository) invalidateListCaches(ctx context.Context) {
	r.cache.DeletePattern(ctx, userListKeyPrefix+"*")
}

// invalidatePostCaches clears every cached post, item keys included.
// posts:<id> entries carry the embedded author and survive the cascade
// delete otherwise, so users:list:* alone is not enough on a user
// update or delete.
func (r *postgresRepository) invalidatePostCaches(ctx context.Context) {
	r.cache.DeletePattern(ctx, postKeyPrefix+"*")
}
