package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/haruka/kaori/internal/model"
)

// CatalogReaderInterface は公開カタログハンドラーが必要とするサービスインターフェース。
type CatalogReaderInterface interface {
	// ListHouses は全ブランドを返す。
	ListHouses(ctx context.Context) ([]*model.House, error)
	// ListFragrances は全香水を返す。
	ListFragrances(ctx context.Context) ([]*model.Fragrance, error)
	// GetFragrance は香水をノート割り当て付きで返す。
	GetFragrance(ctx context.Context, id string) (*model.Fragrance, error)
	// ListNotes は全ノートを返す。
	ListNotes(ctx context.Context) ([]*model.Note, error)
}

// CatalogHandler は公開カタログAPIのHTTPハンドラー。
type CatalogHandler struct {
	service CatalogReaderInterface
}

// NewCatalogHandler はCatalogHandlerを生成する。
func NewCatalogHandler(service CatalogReaderInterface) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// houseResponse はブランド情報のAPIレスポンス。
type houseResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// noteResponse はノート情報のAPIレスポンス。
type noteResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// noteAssignmentResponse は香水へのノート割り当てのAPIレスポンス。
type noteAssignmentResponse struct {
	NoteID    string `json:"note_id"`
	NoteName  string `json:"note_name"`
	Position  string `json:"position"`
	SortOrder int    `json:"sort_order"`
}

// fragranceResponse は香水情報のAPIレスポンス。
type fragranceResponse struct {
	ID           string                   `json:"id"`
	HouseID      string                   `json:"house_id"`
	HouseName    string                   `json:"house_name"`
	Name         string                   `json:"name"`
	Description  string                   `json:"description"`
	Rating       *float64                 `json:"rating"`
	PriceCents   *int                     `json:"price_cents"`
	Currency     string                   `json:"currency"`
	HouseURL     string                   `json:"house_url"`
	FragranceURL string                   `json:"fragrance_url"`
	ReviewPostID string                   `json:"review_post_id"`
	Notes        []noteAssignmentResponse `json:"notes"`
	CreatedAt    string                   `json:"created_at"`
	UpdatedAt    string                   `json:"updated_at"`
}

// ListHouses は全ブランドの一覧を返す。
// GET /houses
func (h *CatalogHandler) ListHouses(w http.ResponseWriter, r *http.Request) {
	houses, err := h.service.ListHouses(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]houseResponse, 0, len(houses))
	for _, house := range houses {
		responses = append(responses, toHouseResponse(house))
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"houses": responses})
}

// ListFragrances は全香水の一覧を返す。
// GET /fragrances
func (h *CatalogHandler) ListFragrances(w http.ResponseWriter, r *http.Request) {
	fragrances, err := h.service.ListFragrances(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]fragranceResponse, 0, len(fragrances))
	for _, fragrance := range fragrances {
		responses = append(responses, toFragranceResponse(fragrance))
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"fragrances": responses})
}

// GetFragrance は香水をノート割り当て付きで返す。
// GET /fragrances/:id
func (h *CatalogHandler) GetFragrance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	fragrance, err := h.service.GetFragrance(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"fragrance": toFragranceResponse(fragrance)})
}

// ListNotes は全ノートの一覧を返す。
// GET /notes
func (h *CatalogHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.ListNotes(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]noteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, toNoteResponse(note))
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"notes": responses})
}

// toHouseResponse はモデルをAPIレスポンスに変換する。
func toHouseResponse(house *model.House) houseResponse {
	return houseResponse{
		ID:          house.ID,
		Name:        house.Name,
		Description: house.Description,
		CreatedAt:   house.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   house.UpdatedAt.Format(time.RFC3339),
	}
}

// toNoteResponse はモデルをAPIレスポンスに変換する。
func toNoteResponse(note *model.Note) noteResponse {
	return noteResponse{
		ID:          note.ID,
		Name:        note.Name,
		Description: note.Description,
	}
}

// toFragranceResponse はモデルをAPIレスポンスに変換する。
func toFragranceResponse(fragrance *model.Fragrance) fragranceResponse {
	notes := make([]noteAssignmentResponse, 0, len(fragrance.Notes))
	for _, note := range fragrance.Notes {
		notes = append(notes, noteAssignmentResponse{
			NoteID:    note.NoteID,
			NoteName:  note.NoteName,
			Position:  string(note.Position),
			SortOrder: note.SortOrder,
		})
	}

	return fragranceResponse{
		ID:           fragrance.ID,
		HouseID:      fragrance.HouseID,
		HouseName:    fragrance.HouseName,
		Name:         fragrance.Name,
		Description:  fragrance.Description,
		Rating:       fragrance.Rating,
		PriceCents:   fragrance.PriceCents,
		Currency:     fragrance.Currency,
		HouseURL:     fragrance.HouseURL,
		FragranceURL: fragrance.FragranceURL,
		ReviewPostID: fragrance.ReviewPostID,
		Notes:        notes,
		CreatedAt:    fragrance.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    fragrance.UpdatedAt.Format(time.RFC3339),
	}
}
