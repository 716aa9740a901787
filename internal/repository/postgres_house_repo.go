package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/haruka/kaori/internal/model"
)

// PostgresHouseRepo はPostgreSQLを使用したブランドリポジトリ。
type PostgresHouseRepo struct {
	db *sql.DB
}

// NewPostgresHouseRepo はPostgresHouseRepoを生成する。
func NewPostgresHouseRepo(db *sql.DB) *PostgresHouseRepo {
	return &PostgresHouseRepo{db: db}
}

// List は全ブランドを名前順で取得する。
func (r *PostgresHouseRepo) List(ctx context.Context) ([]*model.House, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at
		 FROM fragrance_houses
		 ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("ブランド一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var houses []*model.House
	for rows.Next() {
		house := &model.House{}
		if err := rows.Scan(
			&house.ID, &house.Name, &house.Description,
			&house.CreatedAt, &house.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ブランド行の読み取りに失敗しました: %w", err)
		}
		houses = append(houses, house)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ブランド一覧の走査に失敗しました: %w", err)
	}

	return houses, nil
}

// FindByID は指定IDのブランドを取得する。見つからない場合はnilを返す。
func (r *PostgresHouseRepo) FindByID(ctx context.Context, id string) (*model.House, error) {
	house := &model.House{}

	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at
		 FROM fragrance_houses WHERE id = $1`,
		id,
	).Scan(
		&house.ID, &house.Name, &house.Description,
		&house.CreatedAt, &house.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ブランドの取得に失敗しました: %w", err)
	}

	return house, nil
}

// Create はブランドを作成する。
func (r *PostgresHouseRepo) Create(ctx context.Context, house *model.House) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO fragrance_houses (id, name, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		house.ID, house.Name, house.Description, house.CreatedAt, house.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ブランドの作成に失敗しました: %w", err)
	}
	return nil
}

// Update はブランドを更新する。
func (r *PostgresHouseRepo) Update(ctx context.Context, house *model.House) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE fragrance_houses SET name = $2, description = $3, updated_at = $4
		 WHERE id = $1`,
		house.ID, house.Name, house.Description, house.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ブランドの更新に失敗しました: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのブランドを削除する。
func (r *PostgresHouseRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM fragrance_houses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ブランドの削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ HouseRepository = (*PostgresHouseRepo)(nil)
