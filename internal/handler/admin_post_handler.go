package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haruka/kaori/internal/middleware"
	"github.com/haruka/kaori/internal/model"
	"github.com/haruka/kaori/internal/post"
)

// AdminPostServiceInterface は管理記事ハンドラーが必要とするサービスインターフェース。
type AdminPostServiceInterface interface {
	// ListAll は下書きを含む全記事の一覧を返す。
	ListAll(ctx context.Context) ([]*model.Post, error)
	// GetBySlug は記事を本文付きで返す。下書きも対象。
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
	// Create は記事を作成する。
	Create(ctx context.Context, input post.CreatePostInput) (*model.Post, error)
	// Update は記事を部分更新する。
	Update(ctx context.Context, slug string, input post.UpdatePostInput) (*model.Post, error)
	// Delete は記事を削除する。
	Delete(ctx context.Context, slug string) error
}

// AdminPostHandler は管理記事APIのHTTPハンドラー。
// APIキー認可ミドルウェアの背後に配置すること。
type AdminPostHandler struct {
	service AdminPostServiceInterface
}

// NewAdminPostHandler はAdminPostHandlerを生成する。
func NewAdminPostHandler(service AdminPostServiceInterface) *AdminPostHandler {
	return &AdminPostHandler{service: service}
}

// createPostRequest は記事作成リクエストのボディ。
type createPostRequest struct {
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Content string   `json:"content"`
	Status  string   `json:"status"`
	Tags    []string `json:"tags"`
}

// updatePostRequest は記事更新リクエストのボディ。nilのフィールドは変更しない。
type updatePostRequest struct {
	Title   *string  `json:"title"`
	Summary *string  `json:"summary"`
	Content *string  `json:"content"`
	Status  *string  `json:"status"`
	Tags    []string `json:"tags"`
}

// ListPosts は下書きを含む全記事の一覧を返す。
// GET /admin/posts
func (h *AdminPostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]postSummaryResponse, 0, len(posts))
	for _, p := range posts {
		responses = append(responses, toPostSummaryResponse(p))
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"posts": responses})
}

// GetPost は記事を本文付きで返す。下書きも対象。
// GET /admin/posts/:slug
func (h *AdminPostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	p, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"post": toPostDetailResponse(p)})
}

// CreatePost は記事を作成する。
// POST /admin/posts
func (h *AdminPostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestBodyError())
		return
	}

	p, err := h.service.Create(r.Context(), post.CreatePostInput{
		Slug:    req.Slug,
		Title:   req.Title,
		Summary: req.Summary,
		Content: req.Content,
		Status:  model.PostStatus(req.Status),
		Tags:    req.Tags,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, map[string]any{"post": toPostDetailResponse(p)})
}

// UpdatePost は記事を部分更新する。
// PUT /admin/posts/:slug
func (h *AdminPostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestBodyError())
		return
	}

	input := post.UpdatePostInput{
		Title:   req.Title,
		Summary: req.Summary,
		Content: req.Content,
		Tags:    req.Tags,
	}
	if req.Status != nil {
		status := model.PostStatus(*req.Status)
		input.Status = &status
	}

	p, err := h.service.Update(r.Context(), slug, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"post": toPostDetailResponse(p)})
}

// DeletePost は記事を削除する。
// DELETE /admin/posts/:slug
func (h *AdminPostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := h.service.Delete(r.Context(), slug); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, nil)
}
