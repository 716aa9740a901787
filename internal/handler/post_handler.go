package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/haruka/kaori/internal/model"
)

// PostServiceInterface は記事ハンドラーが必要とするサービスインターフェース。
type PostServiceInterface interface {
	// ListPublished は公開済み記事の一覧を返す。
	ListPublished(ctx context.Context) ([]*model.Post, error)
	// GetPublishedBySlug は公開済み記事を本文付きで返す。
	GetPublishedBySlug(ctx context.Context, slug string) (*model.Post, error)
}

// PostHandler は公開記事APIのHTTPハンドラー。
type PostHandler struct {
	service PostServiceInterface
}

// NewPostHandler はPostHandlerを生成する。
func NewPostHandler(service PostServiceInterface) *PostHandler {
	return &PostHandler{service: service}
}

// postSummaryResponse は記事一覧のAPIレスポンス。本文は含まない。
type postSummaryResponse struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
	PublishedAt *string  `json:"published_at"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// postDetailResponse は記事詳細のAPIレスポンス。本文を含む。
type postDetailResponse struct {
	postSummaryResponse
	Content string `json:"content"`
}

// ListPosts は公開済み記事の一覧を返す。
// GET /posts
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPublished(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]postSummaryResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, toPostSummaryResponse(post))
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"posts": responses})
}

// GetPost は公開済み記事を本文付きで返す。
// GET /posts/:slug
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.service.GetPublishedBySlug(r.Context(), slug)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"post": toPostDetailResponse(post)})
}

// toPostSummaryResponse はモデルを一覧レスポンスに変換する。
func toPostSummaryResponse(post *model.Post) postSummaryResponse {
	return postSummaryResponse{
		ID:          post.ID,
		Slug:        post.Slug,
		Title:       post.Title,
		Summary:     post.Summary,
		Status:      string(post.Status),
		Tags:        post.Tags,
		PublishedAt: formatOptionalTime(post.PublishedAt),
		CreatedAt:   post.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   post.UpdatedAt.Format(time.RFC3339),
	}
}

// toPostDetailResponse はモデルを詳細レスポンスに変換する。
func toPostDetailResponse(post *model.Post) postDetailResponse {
	return postDetailResponse{
		postSummaryResponse: toPostSummaryResponse(post),
		Content:             post.Content,
	}
}

// formatOptionalTime はnil許容の日時をRFC3339文字列に変換する。
func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}
