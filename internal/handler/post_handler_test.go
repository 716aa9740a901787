package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/haruka/kaori/internal/model"
)

// --- モック定義 ---

type mockPostService struct {
	listPublishedFn      func(ctx context.Context) ([]*model.Post, error)
	getPublishedBySlugFn func(ctx context.Context, slug string) (*model.Post, error)
}

func (m *mockPostService) ListPublished(ctx context.Context) ([]*model.Post, error) {
	if m.listPublishedFn != nil {
		return m.listPublishedFn(ctx)
	}
	return nil, nil
}

func (m *mockPostService) GetPublishedBySlug(ctx context.Context, slug string) (*model.Post, error) {
	if m.getPublishedBySlugFn != nil {
		return m.getPublishedBySlugFn(ctx, slug)
	}
	return nil, nil
}

func publishedPost(slug string) *model.Post {
	publishedAt := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	return &model.Post{
		ID:          "post-1",
		Slug:        slug,
		Title:       "サンタ・マリア・ノヴェッラの石鹸",
		Summary:     "要約",
		Content:     "<p>本文</p>",
		Status:      model.PostStatusPublished,
		Tags:        []string{"soap", "florence"},
		PublishedAt: &publishedAt,
		CreatedAt:   publishedAt,
		UpdatedAt:   publishedAt,
	}
}

// withURLParam はchiのURLパラメータを解決した状態のリクエストを作る。
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func newSlugRequest(method, target, slug string) *http.Request {
	return withURLParam(httptest.NewRequest(method, target, nil), "slug", slug)
}

// --- テスト ---

func TestPostHandler_ListPosts(t *testing.T) {
	svc := &mockPostService{
		listPublishedFn: func(ctx context.Context) ([]*model.Post, error) {
			return []*model.Post{publishedPost("smn-soap")}, nil
		},
	}
	h := NewPostHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	w := httptest.NewRecorder()
	h.ListPosts(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body struct {
		OK    bool                  `json:"ok"`
		Posts []postSummaryResponse `json:"posts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !body.OK {
		t.Error("ok should be true")
	}
	if len(body.Posts) != 1 {
		t.Fatalf("posts = %d, want 1", len(body.Posts))
	}
	if body.Posts[0].Slug != "smn-soap" {
		t.Errorf("slug = %q, want smn-soap", body.Posts[0].Slug)
	}
	if body.Posts[0].PublishedAt == nil {
		t.Error("published_at should be set")
	}
}

func TestPostHandler_ListPosts_Empty(t *testing.T) {
	h := NewPostHandler(&mockPostService{})

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	w := httptest.NewRecorder()
	h.ListPosts(w, req)

	var body struct {
		Posts []postSummaryResponse `json:"posts"`
	}
	if err := json.NewDecoder(w.Result().Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Posts == nil {
		t.Error("posts should be an empty array, not null")
	}
}

func TestPostHandler_GetPost_IncludesContent(t *testing.T) {
	svc := &mockPostService{
		getPublishedBySlugFn: func(ctx context.Context, slug string) (*model.Post, error) {
			if slug != "smn-soap" {
				t.Errorf("slug = %q, want smn-soap", slug)
			}
			return publishedPost(slug), nil
		},
	}
	h := NewPostHandler(svc)

	req := newSlugRequest(http.MethodGet, "/posts/smn-soap", "smn-soap")
	w := httptest.NewRecorder()
	h.GetPost(w, req)

	var body struct {
		Post postDetailResponse `json:"post"`
	}
	if err := json.NewDecoder(w.Result().Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Post.Content != "<p>本文</p>" {
		t.Errorf("content = %q, detail response should include content", body.Post.Content)
	}
}

func TestPostHandler_GetPost_NotFound(t *testing.T) {
	svc := &mockPostService{
		getPublishedBySlugFn: func(ctx context.Context, slug string) (*model.Post, error) {
			return nil, model.NewPostNotFoundError(slug)
		},
	}
	h := NewPostHandler(svc)

	req := newSlugRequest(http.MethodGet, "/posts/missing", "missing")
	w := httptest.NewRecorder()
	h.GetPost(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}
}
