package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/haruka/kaori/internal/model"
)

// PostgresFragranceRepo はPostgreSQLを使用した香水リポジトリ。
type PostgresFragranceRepo struct {
	db *sql.DB
}

// NewPostgresFragranceRepo はPostgresFragranceRepoを生成する。
func NewPostgresFragranceRepo(db *sql.DB) *PostgresFragranceRepo {
	return &PostgresFragranceRepo{db: db}
}

// List は全香水をブランド名付きで取得する。ノート割り当ては含まない。
func (r *PostgresFragranceRepo) List(ctx context.Context) ([]*model.Fragrance, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT f.id, f.house_id, h.name, f.name, f.description,
		        f.rating, f.price_cents, f.currency,
		        f.house_url, f.fragrance_url, f.review_post_id,
		        f.created_at, f.updated_at
		 FROM fragrances f
		 INNER JOIN fragrance_houses h ON f.house_id = h.id
		 ORDER BY h.name ASC, f.name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("香水一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var fragrances []*model.Fragrance
	for rows.Next() {
		fragrance, err := scanFragrance(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("香水行の読み取りに失敗しました: %w", err)
		}
		fragrances = append(fragrances, fragrance)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("香水一覧の走査に失敗しました: %w", err)
	}

	return fragrances, nil
}

// FindByID は指定IDの香水をノート割り当て付きで取得する。見つからない場合はnilを返す。
func (r *PostgresFragranceRepo) FindByID(ctx context.Context, id string) (*model.Fragrance, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT f.id, f.house_id, h.name, f.name, f.description,
		        f.rating, f.price_cents, f.currency,
		        f.house_url, f.fragrance_url, f.review_post_id,
		        f.created_at, f.updated_at
		 FROM fragrances f
		 INNER JOIN fragrance_houses h ON f.house_id = h.id
		 WHERE f.id = $1`,
		id,
	)

	fragrance, err := scanFragrance(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("香水の取得に失敗しました: %w", err)
	}

	notes, err := r.listNoteAssignments(ctx, id)
	if err != nil {
		return nil, err
	}
	fragrance.Notes = notes

	return fragrance, nil
}

// Create は香水とノート割り当てを同一トランザクションで作成する。
func (r *PostgresFragranceRepo) Create(ctx context.Context, fragrance *model.Fragrance) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO fragrances (id, house_id, name, description, rating, price_cents,
		                         currency, house_url, fragrance_url, review_post_id,
		                         created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		fragrance.ID, fragrance.HouseID, fragrance.Name, fragrance.Description,
		fragrance.Rating, fragrance.PriceCents, fragrance.Currency,
		fragrance.HouseURL, fragrance.FragranceURL, nullString(fragrance.ReviewPostID),
		fragrance.CreatedAt, fragrance.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("香水の作成に失敗しました: %w", err)
	}

	if err := insertNoteAssignments(ctx, tx, fragrance.ID, fragrance.Notes); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// Update は香水を更新し、ノート割り当てを置き換える。
func (r *PostgresFragranceRepo) Update(ctx context.Context, fragrance *model.Fragrance) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE fragrances SET
		    house_id = $2, name = $3, description = $4, rating = $5,
		    price_cents = $6, currency = $7, house_url = $8,
		    fragrance_url = $9, review_post_id = $10, updated_at = $11
		 WHERE id = $1`,
		fragrance.ID, fragrance.HouseID, fragrance.Name, fragrance.Description,
		fragrance.Rating, fragrance.PriceCents, fragrance.Currency,
		fragrance.HouseURL, fragrance.FragranceURL, nullString(fragrance.ReviewPostID),
		fragrance.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("香水の更新に失敗しました: %w", err)
	}

	// ノート割り当ては全削除して入れ直す
	_, err = tx.ExecContext(ctx,
		`DELETE FROM fragrance_note_assignments WHERE fragrance_id = $1`,
		fragrance.ID,
	)
	if err != nil {
		return fmt.Errorf("ノート割り当ての削除に失敗しました: %w", err)
	}

	if err := insertNoteAssignments(ctx, tx, fragrance.ID, fragrance.Notes); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// DeleteByID は指定IDの香水を削除する。割り当ては外部キーで連鎖削除される。
func (r *PostgresFragranceRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM fragrances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("香水の削除に失敗しました: %w", err)
	}
	return nil
}

// listNoteAssignments は香水のノート割り当てを配置位置・表示順で取得する。
func (r *PostgresFragranceRepo) listNoteAssignments(ctx context.Context, fragranceID string) ([]model.NoteAssignment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.note_id, n.name, a.position, a.sort_order
		 FROM fragrance_note_assignments a
		 INNER JOIN fragrance_notes n ON a.note_id = n.id
		 WHERE a.fragrance_id = $1
		 ORDER BY a.position ASC, a.sort_order ASC`,
		fragranceID,
	)
	if err != nil {
		return nil, fmt.Errorf("ノート割り当ての取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var assignments []model.NoteAssignment
	for rows.Next() {
		var a model.NoteAssignment
		if err := rows.Scan(&a.NoteID, &a.NoteName, &a.Position, &a.SortOrder); err != nil {
			return nil, fmt.Errorf("ノート割り当て行の読み取りに失敗しました: %w", err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ノート割り当ての走査に失敗しました: %w", err)
	}

	return assignments, nil
}

// insertNoteAssignments はノート割り当てを一括挿入する。
func insertNoteAssignments(ctx context.Context, tx *sql.Tx, fragranceID string, notes []model.NoteAssignment) error {
	for _, note := range notes {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO fragrance_note_assignments (fragrance_id, note_id, position, sort_order)
			 VALUES ($1, $2, $3, $4)`,
			fragranceID, note.NoteID, note.Position, note.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("ノート割り当ての作成に失敗しました: %w", err)
		}
	}
	return nil
}

// scanFragrance は1件の香水行を読み取る。
func scanFragrance(scan func(dest ...any) error) (*model.Fragrance, error) {
	fragrance := &model.Fragrance{}
	var rating sql.NullFloat64
	var priceCents sql.NullInt64
	var reviewPostID sql.NullString

	if err := scan(
		&fragrance.ID, &fragrance.HouseID, &fragrance.HouseName,
		&fragrance.Name, &fragrance.Description,
		&rating, &priceCents, &fragrance.Currency,
		&fragrance.HouseURL, &fragrance.FragranceURL, &reviewPostID,
		&fragrance.CreatedAt, &fragrance.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if rating.Valid {
		fragrance.Rating = &rating.Float64
	}
	if priceCents.Valid {
		cents := int(priceCents.Int64)
		fragrance.PriceCents = &cents
	}
	fragrance.ReviewPostID = nullStringValue(reviewPostID)

	return fragrance, nil
}

// nullString は空文字列をsql.NullStringに変換する。
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullStringValue はsql.NullStringから文字列を取得する。
func nullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// compile-time interface check
var _ FragranceRepository = (*PostgresFragranceRepo)(nil)
