// Package post はブログ記事のビジネスロジックを提供する。
package post

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/haruka/kaori/internal/model"
	"github.com/haruka/kaori/internal/repository"
	"github.com/haruka/kaori/internal/security"
)

// publishedListLimit は公開記事一覧の最大件数。
const publishedListLimit = 50

// Service は記事に関するビジネスロジックを提供する。
type Service struct {
	repo      repository.PostRepository
	sanitizer security.ContentSanitizerService
}

// NewService はServiceを生成する。
func NewService(repo repository.PostRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// CreatePostInput は記事作成の入力。
type CreatePostInput struct {
	Slug    string
	Title   string
	Summary string
	Content string
	Status  model.PostStatus
	Tags    []string
}

// UpdatePostInput は記事更新の入力。nilのフィールドは変更しない。
type UpdatePostInput struct {
	Title   *string
	Summary *string
	Content *string
	Status  *model.PostStatus
	Tags    []string
}

// ListPublished は公開済み記事の一覧を返す。
func (s *Service) ListPublished(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.repo.ListPublished(ctx, publishedListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list published posts: %w", err)
	}
	return posts, nil
}

// GetPublishedBySlug は公開済み記事を本文付きで返す。
// 記事が存在しない、または下書きの場合はPostNotFoundエラーを返す。
// 下書きの存在は公開APIから観測できてはならない。
func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (*model.Post, error) {
	post, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	if post == nil || post.Status != model.PostStatusPublished {
		return nil, model.NewPostNotFoundError(slug)
	}
	return post, nil
}

// ListAll は下書きを含む全記事の一覧を返す。管理API専用。
func (s *Service) ListAll(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// GetBySlug は記事を本文付きで返す。下書きも対象。管理API専用。
func (s *Service) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	post, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(slug)
	}
	return post, nil
}

// Create は記事を作成する。
// スラッグとタイトルは必須。スラッグが既存の場合はDuplicateSlugエラーを返す。
func (s *Service) Create(ctx context.Context, input CreatePostInput) (*model.Post, error) {
	if input.Slug == "" || input.Title == "" {
		return nil, model.NewValidationError("スラッグとタイトルは必須です")
	}

	status := input.Status
	if status == "" {
		status = model.PostStatusDraft
	}
	if !status.IsValid() {
		return nil, model.NewValidationError(fmt.Sprintf("不正な公開状態です: %s", status))
	}

	existing, err := s.repo.FindBySlug(ctx, input.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug uniqueness: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateSlugError(input.Slug)
	}

	now := time.Now()
	post := &model.Post{
		ID:        uuid.New().String(),
		Slug:      input.Slug,
		Title:     input.Title,
		Summary:   input.Summary,
		Content:   s.sanitizer.Sanitize(input.Content),
		Status:    status,
		Tags:      normalizeTags(input.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if status == model.PostStatusPublished {
		post.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return post, nil
}

// Update は記事を部分更新する。
// 初めて公開状態に遷移したときのみ公開日時を設定する。
func (s *Service) Update(ctx context.Context, slug string, input UpdatePostInput) (*model.Post, error) {
	post, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(slug)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, model.NewValidationError("タイトルを空にはできません")
		}
		post.Title = *input.Title
	}
	if input.Summary != nil {
		post.Summary = *input.Summary
	}
	if input.Content != nil {
		post.Content = s.sanitizer.Sanitize(*input.Content)
	}
	if input.Tags != nil {
		post.Tags = normalizeTags(input.Tags)
	}

	now := time.Now()
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, model.NewValidationError(fmt.Sprintf("不正な公開状態です: %s", *input.Status))
		}
		if *input.Status == model.PostStatusPublished && post.PublishedAt == nil {
			post.PublishedAt = &now
		}
		post.Status = *input.Status
	}

	post.UpdatedAt = now

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return post, nil
}

// Delete は記事を削除する。存在しない場合はPostNotFoundエラーを返す。
func (s *Service) Delete(ctx context.Context, slug string) error {
	post, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("failed to find post: %w", err)
	}
	if post == nil {
		return model.NewPostNotFoundError(slug)
	}

	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// normalizeTags は空要素を除去したタグ一覧を返す。nilは空スライスに揃える。
func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag != "" {
			normalized = append(normalized, tag)
		}
	}
	return normalized
}
