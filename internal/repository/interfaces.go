// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/haruka/kaori/internal/model"
)

// PostRepository は記事の永続化を担う。
type PostRepository interface {
	// ListPublished は公開済み記事を公開日時の降順で取得する。本文は含まない。
	ListPublished(ctx context.Context, limit int) ([]*model.Post, error)
	// ListAll は全記事を更新日時の降順で取得する。本文は含まない。
	ListAll(ctx context.Context) ([]*model.Post, error)
	// FindBySlug はスラッグで記事を取得する。本文を含む。見つからない場合はnilを返す。
	FindBySlug(ctx context.Context, slug string) (*model.Post, error)
	// Create は記事を作成する。
	Create(ctx context.Context, post *model.Post) error
	// Update は記事を更新する。
	Update(ctx context.Context, post *model.Post) error
	// DeleteBySlug はスラッグで記事を削除する。
	DeleteBySlug(ctx context.Context, slug string) error
}

// HouseRepository は香水ブランドの永続化を担う。
type HouseRepository interface {
	// List は全ブランドを名前順で取得する。
	List(ctx context.Context) ([]*model.House, error)
	// FindByID は指定IDのブランドを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.House, error)
	// Create はブランドを作成する。
	Create(ctx context.Context, house *model.House) error
	// Update はブランドを更新する。
	Update(ctx context.Context, house *model.House) error
	// DeleteByID は指定IDのブランドを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// NoteRepository は香料ノートの永続化を担う。
type NoteRepository interface {
	// List は全ノートを名前順で取得する。
	List(ctx context.Context) ([]*model.Note, error)
	// FindByID は指定IDのノートを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Note, error)
	// Create はノートを作成する。
	Create(ctx context.Context, note *model.Note) error
}

// FragranceRepository は香水の永続化を担う。
type FragranceRepository interface {
	// List は全香水をブランド名付きで取得する。ノート割り当ては含まない。
	List(ctx context.Context) ([]*model.Fragrance, error)
	// FindByID は指定IDの香水をノート割り当て付きで取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Fragrance, error)
	// Create は香水とノート割り当てを同一トランザクションで作成する。
	Create(ctx context.Context, fragrance *model.Fragrance) error
	// Update は香水を更新し、ノート割り当てを置き換える。
	Update(ctx context.Context, fragrance *model.Fragrance) error
	// DeleteByID は指定IDの香水を削除する。割り当ては外部キーで連鎖削除される。
	DeleteByID(ctx context.Context, id string) error
}
