package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/haruka/kaori/internal/model"
)

// PostgresNoteRepo はPostgreSQLを使用した香料ノートリポジトリ。
type PostgresNoteRepo struct {
	db *sql.DB
}

// NewPostgresNoteRepo はPostgresNoteRepoを生成する。
func NewPostgresNoteRepo(db *sql.DB) *PostgresNoteRepo {
	return &PostgresNoteRepo{db: db}
}

// List は全ノートを名前順で取得する。
func (r *PostgresNoteRepo) List(ctx context.Context) ([]*model.Note, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description FROM fragrance_notes ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("ノート一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var notes []*model.Note
	for rows.Next() {
		note := &model.Note{}
		if err := rows.Scan(&note.ID, &note.Name, &note.Description); err != nil {
			return nil, fmt.Errorf("ノート行の読み取りに失敗しました: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ノート一覧の走査に失敗しました: %w", err)
	}

	return notes, nil
}

// FindByID は指定IDのノートを取得する。見つからない場合はnilを返す。
func (r *PostgresNoteRepo) FindByID(ctx context.Context, id string) (*model.Note, error) {
	note := &model.Note{}

	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM fragrance_notes WHERE id = $1`,
		id,
	).Scan(&note.ID, &note.Name, &note.Description)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ノートの取得に失敗しました: %w", err)
	}

	return note, nil
}

// Create はノートを作成する。
func (r *PostgresNoteRepo) Create(ctx context.Context, note *model.Note) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO fragrance_notes (id, name, description) VALUES ($1, $2, $3)`,
		note.ID, note.Name, note.Description,
	)
	if err != nil {
		return fmt.Errorf("ノートの作成に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ NoteRepository = (*PostgresNoteRepo)(nil)
