package post

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/haruka/kaori/internal/model"
)

// --- モック定義 ---

type mockPostRepo struct {
	listPublishedFn func(ctx context.Context, limit int) ([]*model.Post, error)
	listAllFn       func(ctx context.Context) ([]*model.Post, error)
	findBySlugFn    func(ctx context.Context, slug string) (*model.Post, error)
	createFn        func(ctx context.Context, post *model.Post) error
	updateFn        func(ctx context.Context, post *model.Post) error
	deleteBySlugFn  func(ctx context.Context, slug string) error
}

func (m *mockPostRepo) ListPublished(ctx context.Context, limit int) ([]*model.Post, error) {
	if m.listPublishedFn != nil {
		return m.listPublishedFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockPostRepo) ListAll(ctx context.Context) ([]*model.Post, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

func (m *mockPostRepo) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	if m.findBySlugFn != nil {
		return m.findBySlugFn(ctx, slug)
	}
	return nil, nil
}

func (m *mockPostRepo) Create(ctx context.Context, post *model.Post) error {
	if m.createFn != nil {
		return m.createFn(ctx, post)
	}
	return nil
}

func (m *mockPostRepo) Update(ctx context.Context, post *model.Post) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, post)
	}
	return nil
}

func (m *mockPostRepo) DeleteBySlug(ctx context.Context, slug string) error {
	if m.deleteBySlugFn != nil {
		return m.deleteBySlugFn(ctx, slug)
	}
	return nil
}

type mockSanitizer struct {
	sanitizeFn func(html string) string
}

func (m *mockSanitizer) Sanitize(html string) string {
	if m.sanitizeFn != nil {
		return m.sanitizeFn(html)
	}
	return html
}

// --- テスト ---

func TestService_ListPublished_PassesLimit(t *testing.T) {
	var capturedLimit int
	repo := &mockPostRepo{
		listPublishedFn: func(ctx context.Context, limit int) ([]*model.Post, error) {
			capturedLimit = limit
			return []*model.Post{}, nil
		},
	}
	svc := NewService(repo, &mockSanitizer{})

	if _, err := svc.ListPublished(context.Background()); err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	if capturedLimit != publishedListLimit {
		t.Errorf("limit = %d, want %d", capturedLimit, publishedListLimit)
	}
}

func TestService_GetPublishedBySlug_DraftIsNotFound(t *testing.T) {
	repo := &mockPostRepo{
		findBySlugFn: func(ctx context.Context, slug string) (*model.Post, error) {
			return &model.Post{Slug: slug, Status: model.PostStatusDraft}, nil
		},
	}
	svc := NewService(repo, &mockSanitizer{})

	_, err := svc.GetPublishedBySlug(context.Background(), "draft-post")

	// 下書きの存在は公開APIから観測できてはならない。存在しない場合と同じエラーを返す
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodePostNotFound {
		t.Errorf("err = %v, want POST_NOT_FOUND", err)
	}
}

func TestService_GetPublishedBySlug_Missing(t *testing.T) {
	svc := NewService(&mockPostRepo{}, &mockSanitizer{})

	_, err := svc.GetPublishedBySlug(context.Background(), "missing")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodePostNotFound {
		t.Errorf("err = %v, want POST_NOT_FOUND", err)
	}
}

func TestService_Create_SanitizesContent(t *testing.T) {
	var created *model.Post
	repo := &mockPostRepo{
		createFn: func(ctx context.Context, post *model.Post) error {
			created = post
			return nil
		},
	}
	sanitizer := &mockSanitizer{
		sanitizeFn: func(html string) string {
			return strings.ReplaceAll(html, "<script>alert(1)</script>", "")
		},
	}
	svc := NewService(repo, sanitizer)

	_, err := svc.Create(context.Background(), CreatePostInput{
		Slug:    "new-post",
		Title:   "T",
		Content: "<p>ok</p><script>alert(1)</script>",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Content != "<p>ok</p>" {
		t.Errorf("content = %q, should be sanitized before persistence", created.Content)
	}
}

func TestService_Create_Defaults(t *testing.T) {
	var created *model.Post
	repo := &mockPostRepo{
		createFn: func(ctx context.Context, post *model.Post) error {
			created = post
			return nil
		},
	}
	svc := NewService(repo, &mockSanitizer{})

	_, err := svc.Create(context.Background(), CreatePostInput{Slug: "new-post", Title: "T"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Status != model.PostStatusDraft {
		t.Errorf("status = %q, want draft by default", created.Status)
	}
	if created.PublishedAt != nil {
		t.Error("draft should not have published_at")
	}
	if created.ID == "" {
		t.Error("id should be generated")
	}
	if created.Tags == nil {
		t.Error("tags should be an empty slice, not nil")
	}
}

func TestService_Create_PublishedSetsPublishedAt(t *testing.T) {
	var created *model.Post
	repo := &mockPostRepo{
		createFn: func(ctx context.Context, post *model.Post) error {
			created = post
			return nil
		},
	}
	svc := NewService(repo, &mockSanitizer{})

	_, err := svc.Create(context.Background(), CreatePostInput{
		Slug:   "new-post",
		Title:  "T",
		Status: model.PostStatusPublished,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.PublishedAt == nil {
		t.Error("published post should have published_at")
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(&mockPostRepo{}, &mockSanitizer{})

	tests := []struct {
		name  string
		input CreatePostInput
	}{
		{"missing slug", CreatePostInput{Title: "T"}},
		{"missing title", CreatePostInput{Slug: "s"}},
		{"invalid status", CreatePostInput{Slug: "s", Title: "T", Status: "archived"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.input)
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidationFailed {
				t.Errorf("err = %v, want VALIDATION_FAILED", err)
			}
		})
	}
}

func TestService_Create_DuplicateSlug(t *testing.T) {
	repo := &mockPostRepo{
		findBySlugFn: func(ctx context.Context, slug string) (*model.Post, error) {
			return &model.Post{Slug: slug}, nil
		},
	}
	svc := NewService(repo, &mockSanitizer{})

	_, err := svc.Create(context.Background(), CreatePostInput{Slug: "existing", Title: "T"})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeDuplicateSlug {
		t.Errorf("err = %v, want DUPLICATE_SLUG", err)
	}
}

func TestService_Update_FirstPublishSetsPublishedAtOnce(t *testing.T) {
	stored := &model.Post{
		Slug:   "post-1",
		Title:  "T",
		Status: model.PostStatusDraft,
	}
	repo := &mockPostRepo{
		findBySlugFn: func(ctx context.Context, slug string) (*model.Post, error) {
			return stored, nil
		},
	}
	svc := NewService(repo, &mockSanitizer{})

	published := model.PostStatusPublished
	updated, err := svc.Update(context.Background(), "post-1", UpdatePostInput{Status: &published})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.PublishedAt == nil {
		t.Fatal("first publish should set published_at")
	}
	firstPublishedAt := *updated.PublishedAt

	// 2回目の公開では公開日時を更新しない
	time.Sleep(time.Millisecond)
	updated, err = svc.Update(context.Background(), "post-1", UpdatePostInput{Status: &published})
	if err != nil {
		t.Fatalf("second Update failed: %v", err)
	}
	if !updated.PublishedAt.Equal(firstPublishedAt) {
		t.Error("re-publishing should not change published_at")
	}
}

func TestService_Update_PartialFields(t *testing.T) {
	stored := &model.Post{
		Slug:    "post-1",
		Title:   "元のタイトル",
		Summary: "元の要約",
		Status:  model.PostStatusDraft,
	}
	repo := &mockPostRepo{
		findBySlugFn: func(ctx context.Context, slug string) (*model.Post, error) {
			return stored, nil
		},
	}
	svc := NewService(repo, &mockSanitizer{})

	newTitle := "新しいタイトル"
	updated, err := svc.Update(context.Background(), "post-1", UpdatePostInput{Title: &newTitle})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != newTitle {
		t.Errorf("title = %q, want %q", updated.Title, newTitle)
	}
	if updated.Summary != "元の要約" {
		t.Errorf("summary = %q, omitted field should be unchanged", updated.Summary)
	}
}

func TestService_Update_EmptyTitleRejected(t *testing.T) {
	repo := &mockPostRepo{
		findBySlugFn: func(ctx context.Context, slug string) (*model.Post, error) {
			return &model.Post{Slug: slug, Title: "T"}, nil
		},
	}
	svc := NewService(repo, &mockSanitizer{})

	empty := ""
	_, err := svc.Update(context.Background(), "post-1", UpdatePostInput{Title: &empty})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidationFailed {
		t.Errorf("err = %v, want VALIDATION_FAILED", err)
	}
}

func TestService_Delete_NotFound(t *testing.T) {
	svc := NewService(&mockPostRepo{}, &mockSanitizer{})

	err := svc.Delete(context.Background(), "missing")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodePostNotFound {
		t.Errorf("err = %v, want POST_NOT_FOUND", err)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := normalizeTags([]string{"musk", "", "iris"})
	if len(got) != 2 || got[0] != "musk" || got[1] != "iris" {
		t.Errorf("normalizeTags = %v, want [musk iris]", got)
	}

	if normalizeTags(nil) == nil {
		t.Error("nil tags should normalize to an empty slice")
	}
}
