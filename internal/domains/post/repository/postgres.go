package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/post"
	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/user"
	usermodel "blog-backend/internal/domains/user/model"
	"blog-backend/internal/shared/pagination"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/database"
)

const (
	postCacheKeyPrefix = "posts:"
	postListKeyPrefix  = "posts:list:"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type postgresRepository struct {
	pool  *pgxpool.Pool
	db    querier
	users user.Repository
	cache cache.Cache
	ttl   time.Duration
	inTx  bool
}

// NewPostgresRepository builds the post repository. The user
// repository is injected so author resolution shares the same
// transaction as the post write.
func NewPostgresRepository(pool *pgxpool.Pool, users user.Repository, c cache.Cache, ttl time.Duration) post.Repository {
	return &postgresRepository{
		pool:  pool,
		db:    pool,
		users: users,
		cache: c,
		ttl:   ttl,
	}
}

func (r *postgresRepository) WithTx(tx pgx.Tx) post.Repository {
	return &postgresRepository{
		pool:  r.pool,
		db:    tx,
		users: r.users.WithTx(tx),
		cache: r.cache,
		ttl:   r.ttl,
		inTx:  true,
	}
}

// joinedColumns selects the post row together with its author, the
// equivalent of the old eager-loaded author relationship.
const joinedColumns = `
        p.id, p.title, p.content, p.created_at, p.author_id,
        u.id, u.username, u.email, u.password, u.created_at`

const joinedFrom = ` FROM posts p JOIN users u ON u.id = p.author_id`

func scanJoinedPost(row pgx.Row) (*model.Post, error) {
	var p model.Post
	p.Author = &usermodel.User{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.CreatedAt, &p.AuthorID,
		&p.Author.ID, &p.Author.Username, &p.Author.Email, &p.Author.Password, &p.Author.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	cacheKey := fmt.Sprintf("%s%d", postCacheKeyPrefix, id)

	if !r.inTx {
		var cached model.Post
		if hit, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	query := `SELECT` + joinedColumns + joinedFrom + ` WHERE p.id = $1`

	p, err := scanJoinedPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, post.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}

	if !r.inTx {
		r.cache.Set(ctx, cacheKey, p, r.ttl)
	}

	return p, nil
}

// ListCacheKey is the deterministic cache key for a post list window.
func ListCacheKey(p pagination.Params) string {
	return fmt.Sprintf("%s%d:%d", postListKeyPrefix, p.Page, p.PerPage)
}

func (r *postgresRepository) List(ctx context.Context, p pagination.Params) ([]model.Post, error) {
	cacheKey := ListCacheKey(p)

	if !r.inTx {
		var cached []model.Post
		if hit, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	query := `SELECT` + joinedColumns + joinedFrom + ` ORDER BY p.id LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, p.Limit(), p.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		var pm model.Post
		pm.Author = &usermodel.User{}
		if err := rows.Scan(
			&pm.ID, &pm.Title, &pm.Content, &pm.CreatedAt, &pm.AuthorID,
			&pm.Author.ID, &pm.Author.Username, &pm.Author.Email, &pm.Author.Password, &pm.Author.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, pm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	if !r.inTx {
		r.cache.Set(ctx, cacheKey, posts, r.ttl)
	}

	return posts, nil
}

func (r *postgresRepository) Create(ctx context.Context, p *model.Post) (*model.Post, error) {
	if r.inTx {
		return r.createIn(ctx, r.db, r.users, p)
	}

	created, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Post, error) {
		return r.createIn(ctx, tx, r.users.WithTx(tx), p)
	})
	if err != nil {
		return nil, err
	}

	r.invalidateListCaches(ctx)
	return created, nil
}

// createIn resolves the author and inserts the post inside one
// transaction, so a missing author means nothing was written.
func (r *postgresRepository) createIn(ctx context.Context, q querier, users user.Repository, p *model.Post) (*model.Post, error) {
	author, err := users.GetByID(ctx, p.AuthorID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, post.ErrAuthorNotFound
		}
		return nil, err
	}

	query := `
        INSERT INTO posts (title, content, author_id)
        VALUES ($1, $2, $3)
        RETURNING id, title, content, created_at, author_id`

	var created model.Post
	err = q.QueryRow(ctx, query, p.Title, p.Content, p.AuthorID).Scan(
		&created.ID, &created.Title, &created.Content, &created.CreatedAt, &created.AuthorID,
	)
	if err != nil {
		return nil, mapForeignKeyViolation(err, "failed to create post")
	}

	created.Author = author
	return &created, nil
}

func (r *postgresRepository) Update(ctx context.Context, id int64, patch model.PostPatch) (*model.Post, error) {
	if r.inTx {
		return r.updateIn(ctx, r.db, r.users, id, patch)
	}

	updated, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Post, error) {
		return r.updateIn(ctx, tx, r.users.WithTx(tx), id, patch)
	})
	if err != nil {
		return nil, err
	}

	r.invalidatePostCache(ctx, id)
	r.invalidateListCaches(ctx)
	return updated, nil
}

func (r *postgresRepository) updateIn(ctx context.Context, q querier, users user.Repository, id int64, patch model.PostPatch) (*model.Post, error) {
	// A reassigned author must exist; create validates, so update does too.
	if patch.AuthorID != nil {
		if _, err := users.GetByID(ctx, *patch.AuthorID); err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return nil, post.ErrAuthorNotFound
			}
			return nil, err
		}
	}

	query := `
        UPDATE posts
        SET title     = COALESCE($1, title),
            content   = COALESCE($2, content),
            author_id = COALESCE($3, author_id)
        WHERE id = $4
        RETURNING id, title, content, created_at, author_id`

	var updated model.Post
	err := q.QueryRow(ctx, query, patch.Title, patch.Content, patch.AuthorID, id).Scan(
		&updated.ID, &updated.Title, &updated.Content, &updated.CreatedAt, &updated.AuthorID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, post.ErrPostNotFound
		}
		return nil, mapForeignKeyViolation(err, "failed to update post")
	}

	author, err := users.GetByID(ctx, updated.AuthorID)
	if err != nil {
		return nil, err
	}
	updated.Author = author

	return &updated, nil
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

	r.invalidatePostCache(ctx, id)
	r.invalidateListCaches(ctx)
	return nil
}

func (r *postgresRepository) deleteIn(ctx context.Context, q querier, id int64) error {
	cmdTag, err := q.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return post.ErrPostNotFound
	}

	return nil
}

// mapForeignKeyViolation is the backstop for the author FK: the
// explicit existence check runs first, but the constraint has the
// final word inside the transaction.
func mapForeignKeyViolation(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return post.ErrAuthorNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (r *postgresRepository) invalidatePostCache(ctx context.Context, id int64) {
	r.cache.Delete(ctx, fmt.Sprintf("%s%d", postCacheKeyPrefix, id))
}

func (r *postgresRepository) invalidateListCaches(ctx context.Context) {
	r.cache.DeletePattern(ctx, postListKeyPrefix+"*")
}
