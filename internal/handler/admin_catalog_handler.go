package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haruka/kaori/internal/catalog"
	"github.com/haruka/kaori/internal/middleware"
	"github.com/haruka/kaori/internal/model"
)

// AdminCatalogServiceInterface は管理カタログハンドラーが必要とするサービスインターフェース。
type AdminCatalogServiceInterface interface {
	CatalogReaderInterface
	// CreateHouse はブランドを作成する。
	CreateHouse(ctx context.Context, input catalog.CreateHouseInput) (*model.House, error)
	// UpdateHouse はブランドを部分更新する。
	UpdateHouse(ctx context.Context, id string, input catalog.UpdateHouseInput) (*model.House, error)
	// DeleteHouse はブランドを削除する。所属する香水も連鎖削除される。
	DeleteHouse(ctx context.Context, id string) error
	// CreateFragrance は香水を作成する。
	CreateFragrance(ctx context.Context, input catalog.FragranceInput) (*model.Fragrance, error)
	// UpdateFragrance は香水を更新し、ノート割り当てを置き換える。
	UpdateFragrance(ctx context.Context, id string, input catalog.FragranceInput) (*model.Fragrance, error)
	// DeleteFragrance は香水を削除する。
	DeleteFragrance(ctx context.Context, id string) error
	// CreateNote はノートを作成する。
	CreateNote(ctx context.Context, input catalog.CreateNoteInput) (*model.Note, error)
}

// AdminCatalogHandler は管理カタログAPIのHTTPハンドラー。
// APIキー認可ミドルウェアの背後に配置すること。
type AdminCatalogHandler struct {
	service AdminCatalogServiceInterface
}

// NewAdminCatalogHandler はAdminCatalogHandlerを生成する。
func NewAdminCatalogHandler(service AdminCatalogServiceInterface) *AdminCatalogHandler {
	return &AdminCatalogHandler{service: service}
}

// houseRequest はブランド作成リクエストのボディ。
type houseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// updateHouseRequest はブランド更新リクエストのボディ。nilのフィールドは変更しない。
type updateHouseRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// noteAssignmentRequest は香水へのノート割り当てリクエスト。
type noteAssignmentRequest struct {
	NoteID    string `json:"note_id"`
	Position  string `json:"position"`
	SortOrder int    `json:"sort_order"`
}

// fragranceRequest は香水の作成・更新リクエストのボディ。
type fragranceRequest struct {
	HouseID      string                  `json:"house_id"`
	Name         string                  `json:"name"`
	Description  string                  `json:"description"`
	Rating       *float64                `json:"rating"`
	PriceCents   *int                    `json:"price_cents"`
	Currency     string                  `json:"currency"`
	HouseURL     string                  `json:"house_url"`
	FragranceURL string                  `json:"fragrance_url"`
	ReviewPostID string                  `json:"review_post_id"`
	Notes        []noteAssignmentRequest `json:"notes"`
}

// noteRequest はノート作成リクエストのボディ。
type noteRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// --- ブランド ---

// ListHouses は全ブランドの一覧を返す。
// GET /admin/houses
func (h *AdminCatalogHandler) ListHouses(w http.ResponseWriter, r *http.Request) {
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

// CreateHouse はブランドを作成する。
// POST /admin/houses
func (h *AdminCatalogHandler) CreateHouse(w http.ResponseWriter, r *http.Request) {
	var req houseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestBodyError())
		return
	}

	house, err := h.service.CreateHouse(r.Context(), catalog.CreateHouseInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, map[string]any{"house": toHouseResponse(house)})
}

// UpdateHouse はブランドを部分更新する。
// PUT /admin/houses/:id
func (h *AdminCatalogHandler) UpdateHouse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateHouseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestBodyError())
		return
	}

	house, err := h.service.UpdateHouse(r.Context(), id, catalog.UpdateHouseInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"house": toHouseResponse(house)})
}

// DeleteHouse はブランドを削除する。
// DELETE /admin/houses/:id
func (h *AdminCatalogHandler) DeleteHouse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteHouse(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, nil)
}

// --- 香水 ---

// ListFragrances は全香水の一覧を返す。
// GET /admin/fragrances
func (h *AdminCatalogHandler) ListFragrances(w http.ResponseWriter, r *http.Request) {
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
// GET /admin/fragrances/:id
func (h *AdminCatalogHandler) GetFragrance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	fragrance, err := h.service.GetFragrance(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"fragrance": toFragranceResponse(fragrance)})
}

// CreateFragrance は香水を作成する。
// POST /admin/fragrances
func (h *AdminCatalogHandler) CreateFragrance(w http.ResponseWriter, r *http.Request) {
	var req fragranceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestBodyError())
		return
	}

	fragrance, err := h.service.CreateFragrance(r.Context(), toFragranceInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, map[string]any{"fragrance": toFragranceResponse(fragrance)})
}

// UpdateFragrance は香水を更新し、ノート割り当てを置き換える。
// PUT /admin/fragrances/:id
func (h *AdminCatalogHandler) UpdateFragrance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req fragranceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestBodyError())
		return
	}

	fragrance, err := h.service.UpdateFragrance(r.Context(), id, toFragranceInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"fragrance": toFragranceResponse(fragrance)})
}

// DeleteFragrance は香水を削除する。
// DELETE /admin/fragrances/:id
func (h *AdminCatalogHandler) DeleteFragrance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteFragrance(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, nil)
}

// --- ノート ---

// ListNotes は全ノートの一覧を返す。
// GET /admin/notes
func (h *AdminCatalogHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
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

// CreateNote はノートを作成する。
// POST /admin/notes
func (h *AdminCatalogHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestBodyError())
		return
	}

	note, err := h.service.CreateNote(r.Context(), catalog.CreateNoteInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, map[string]any{"note": toNoteResponse(note)})
}

// toFragranceInput はリクエストをサービス入力に変換する。
func toFragranceInput(req fragranceRequest) catalog.FragranceInput {
	notes := make([]model.NoteAssignment, 0, len(req.Notes))
	for _, note := range req.Notes {
		notes = append(notes, model.NoteAssignment{
			NoteID:    note.NoteID,
			Position:  model.NotePosition(note.Position),
			SortOrder: note.SortOrder,
		})
	}

	return catalog.FragranceInput{
		HouseID:      req.HouseID,
		Name:         req.Name,
		Description:  req.Description,
		Rating:       req.Rating,
		PriceCents:   req.PriceCents,
		Currency:     req.Currency,
		HouseURL:     req.HouseURL,
		FragranceURL: req.FragranceURL,
		ReviewPostID: req.ReviewPostID,
		Notes:        notes,
	}
}
