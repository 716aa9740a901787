package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/haruka/kaori/internal/model"
)

// PostgresPostRepo はPostgreSQLを使用した記事リポジトリ。
type PostgresPostRepo struct {
	db *sql.DB
}

// NewPostgresPostRepo はPostgresPostRepoを生成する。
func NewPostgresPostRepo(db *sql.DB) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

// ListPublished は公開済み記事を公開日時の降順で取得する。本文は含まない。
func (r *PostgresPostRepo) ListPublished(ctx context.Context, limit int) ([]*model.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, slug, title, summary, status, tags,
		        published_at, created_at, updated_at
		 FROM posts
		 WHERE status = 'published'
		 ORDER BY published_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("公開記事一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// ListAll は全記事を更新日時の降順で取得する。本文は含まない。
func (r *PostgresPostRepo) ListAll(ctx context.Context) ([]*model.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, slug, title, summary, status, tags,
		        published_at, created_at, updated_at
		 FROM posts
		 ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("記事一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// FindBySlug はスラッグで記事を取得する。本文を含む。見つからない場合はnilを返す。
func (r *PostgresPostRepo) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	post := &model.Post{}
	var publishedAt sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`SELECT id, slug, title, summary, content, status, tags,
		        published_at, created_at, updated_at
		 FROM posts WHERE slug = $1`,
		slug,
	).Scan(
		&post.ID, &post.Slug, &post.Title, &post.Summary, &post.Content,
		&post.Status, pq.Array(&post.Tags),
		&publishedAt, &post.CreatedAt, &post.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("記事の取得に失敗しました: %w", err)
	}

	if publishedAt.Valid {
		post.PublishedAt = &publishedAt.Time
	}

	return post, nil
}

// Create は記事を作成する。
func (r *PostgresPostRepo) Create(ctx context.Context, post *model.Post) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, slug, title, summary, content, status, tags,
		                    published_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		post.ID, post.Slug, post.Title, post.Summary, post.Content,
		post.Status, pq.Array(post.Tags),
		nullTime(post.PublishedAt), post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("記事の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は記事を更新する。
func (r *PostgresPostRepo) Update(ctx context.Context, post *model.Post) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE posts SET
		    title = $2, summary = $3, content = $4, status = $5,
		    tags = $6, published_at = $7, updated_at = $8
		 WHERE slug = $1`,
		post.Slug, post.Title, post.Summary, post.Content, post.Status,
		pq.Array(post.Tags), nullTime(post.PublishedAt), post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("記事の更新に失敗しました: %w", err)
	}
	return nil
}

// DeleteBySlug はスラッグで記事を削除する。
func (r *PostgresPostRepo) DeleteBySlug(ctx context.Context, slug string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("記事の削除に失敗しました: %w", err)
	}
	return nil
}

// scanPosts は本文を含まない記事行の集合を読み取る。
func scanPosts(rows *sql.Rows) ([]*model.Post, error) {
	var posts []*model.Post
	for rows.Next() {
		post := &model.Post{}
		var publishedAt sql.NullTime

		if err := rows.Scan(
			&post.ID, &post.Slug, &post.Title, &post.Summary,
			&post.Status, pq.Array(&post.Tags),
			&publishedAt, &post.CreatedAt, &post.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("記事行の読み取りに失敗しました: %w", err)
		}

		if publishedAt.Valid {
			post.PublishedAt = &publishedAt.Time
		}

		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("記事一覧の走査に失敗しました: %w", err)
	}

	return posts, nil
}

// nullTime は*time.Timeをsql.NullTimeに変換する。
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// compile-time interface check
var _ PostRepository = (*PostgresPostRepo)(nil)
