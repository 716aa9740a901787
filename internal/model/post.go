// Package model はドメインモデルを定義する。
package model

import "time"

// Post はブログ記事を表す。
// 本文はMarkdownとして保存され、公開APIでのみ返却される。
type Post struct {
	ID          string
	Slug        string
	Title       string
	Summary     string
	Content     string
	Status      PostStatus
	Tags        []string
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PostStatus は記事の公開状態を表す。
type PostStatus string

const (
	// PostStatusDraft は下書き状態。公開APIからは見えない。
	PostStatusDraft PostStatus = "draft"
	// PostStatusPublished は公開状態。
	PostStatusPublished PostStatus = "published"
)

// IsValid は公開状態が定義済みの値かを返す。
func (s PostStatus) IsValid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}
