// Package catalog は香水カタログ（ブランド・香水・ノート）のビジネスロジックを提供する。
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/haruka/kaori/internal/model"
	"github.com/haruka/kaori/internal/repository"
)

// Service はカタログに関するビジネスロジックを提供する。
type Service struct {
	houseRepo     repository.HouseRepository
	fragranceRepo repository.FragranceRepository
	noteRepo      repository.NoteRepository
}

// NewService はServiceを生成する。
func NewService(
	houseRepo repository.HouseRepository,
	fragranceRepo repository.FragranceRepository,
	noteRepo repository.NoteRepository,
) *Service {
	return &Service{
		houseRepo:     houseRepo,
		fragranceRepo: fragranceRepo,
		noteRepo:      noteRepo,
	}
}

// --- ブランド ---

// CreateHouseInput はブランド作成の入力。
type CreateHouseInput struct {
	Name        string
	Description string
}

// UpdateHouseInput はブランド更新の入力。nilのフィールドは変更しない。
type UpdateHouseInput struct {
	Name        *string
	Description *string
}

// ListHouses は全ブランドを返す。
func (s *Service) ListHouses(ctx context.Context) ([]*model.House, error) {
	houses, err := s.houseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list houses: %w", err)
	}
	return houses, nil
}

// CreateHouse はブランドを作成する。名前は必須。
func (s *Service) CreateHouse(ctx context.Context, input CreateHouseInput) (*model.House, error) {
	if input.Name == "" {
		return nil, model.NewValidationError("ブランド名は必須です")
	}

	now := time.Now()
	house := &model.House{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.houseRepo.Create(ctx, house); err != nil {
		return nil, fmt.Errorf("failed to create house: %w", err)
	}
	return house, nil
}

// UpdateHouse はブランドを部分更新する。
func (s *Service) UpdateHouse(ctx context.Context, id string, input UpdateHouseInput) (*model.House, error) {
	house, err := s.houseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find house: %w", err)
	}
	if house == nil {
		return nil, model.NewHouseNotFoundError(id)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, model.NewValidationError("ブランド名を空にはできません")
		}
		house.Name = *input.Name
	}
	if input.Description != nil {
		house.Description = *input.Description
	}
	house.UpdatedAt = time.Now()

	if err := s.houseRepo.Update(ctx, house); err != nil {
		return nil, fmt.Errorf("failed to update house: %w", err)
	}
	return house, nil
}

// DeleteHouse はブランドを削除する。所属する香水も連鎖削除される。
func (s *Service) DeleteHouse(ctx context.Context, id string) error {
	house, err := s.houseRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find house: %w", err)
	}
	if house == nil {
		return model.NewHouseNotFoundError(id)
	}

	if err := s.houseRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete house: %w", err)
	}
	return nil
}

// --- 香水 ---

// FragranceInput は香水の作成・更新の入力。
type FragranceInput struct {
	HouseID      string
	Name         string
	Description  string
	Rating       *float64
	PriceCents   *int
	Currency     string
	HouseURL     string
	FragranceURL string
	ReviewPostID string
	Notes        []model.NoteAssignment
}

// ListFragrances は全香水を返す。
func (s *Service) ListFragrances(ctx context.Context) ([]*model.Fragrance, error) {
	fragrances, err := s.fragranceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fragrances: %w", err)
	}
	return fragrances, nil
}

// GetFragrance は香水をノート割り当て付きで返す。
func (s *Service) GetFragrance(ctx context.Context, id string) (*model.Fragrance, error) {
	fragrance, err := s.fragranceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find fragrance: %w", err)
	}
	if fragrance == nil {
		return nil, model.NewFragranceNotFoundError(id)
	}
	return fragrance, nil
}

// CreateFragrance は香水を作成する。
// ブランドの存在とノート配置位置を事前に検証する。
func (s *Service) CreateFragrance(ctx context.Context, input FragranceInput) (*model.Fragrance, error) {
	if err := s.validateFragranceInput(ctx, input); err != nil {
		return nil, err
	}

	now := time.Now()
	fragrance := &model.Fragrance{
		ID:           uuid.New().String(),
		HouseID:      input.HouseID,
		Name:         input.Name,
		Description:  input.Description,
		Rating:       input.Rating,
		PriceCents:   input.PriceCents,
		Currency:     input.Currency,
		HouseURL:     input.HouseURL,
		FragranceURL: input.FragranceURL,
		ReviewPostID: input.ReviewPostID,
		Notes:        input.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.fragranceRepo.Create(ctx, fragrance); err != nil {
		return nil, fmt.Errorf("failed to create fragrance: %w", err)
	}
	return fragrance, nil
}

// UpdateFragrance は香水を更新し、ノート割り当てを置き換える。
func (s *Service) UpdateFragrance(ctx context.Context, id string, input FragranceInput) (*model.Fragrance, error) {
	existing, err := s.fragranceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find fragrance: %w", err)
	}
	if existing == nil {
		return nil, model.NewFragranceNotFoundError(id)
	}

	if err := s.validateFragranceInput(ctx, input); err != nil {
		return nil, err
	}

	fragrance := &model.Fragrance{
		ID:           id,
		HouseID:      input.HouseID,
		Name:         input.Name,
		Description:  input.Description,
		Rating:       input.Rating,
		PriceCents:   input.PriceCents,
		Currency:     input.Currency,
		HouseURL:     input.HouseURL,
		FragranceURL: input.FragranceURL,
		ReviewPostID: input.ReviewPostID,
		Notes:        input.Notes,
		CreatedAt:    existing.CreatedAt,
		UpdatedAt:    time.Now(),
	}

	if err := s.fragranceRepo.Update(ctx, fragrance); err != nil {
		return nil, fmt.Errorf("failed to update fragrance: %w", err)
	}
	return fragrance, nil
}

// DeleteFragrance は香水を削除する。
func (s *Service) DeleteFragrance(ctx context.Context, id string) error {
	fragrance, err := s.fragranceRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find fragrance: %w", err)
	}
	if fragrance == nil {
		return model.NewFragranceNotFoundError(id)
	}

	if err := s.fragranceRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete fragrance: %w", err)
	}
	return nil
}

// validateFragranceInput は香水入力の共通検証を行う。
func (s *Service) validateFragranceInput(ctx context.Context, input FragranceInput) error {
	if input.HouseID == "" || input.Name == "" {
		return model.NewValidationError("ブランドIDと香水名は必須です")
	}

	house, err := s.houseRepo.FindByID(ctx, input.HouseID)
	if err != nil {
		return fmt.Errorf("failed to find house: %w", err)
	}
	if house == nil {
		return model.NewHouseNotFoundError(input.HouseID)
	}

	for _, note := range input.Notes {
		if !note.Position.IsValid() {
			return model.NewValidationError(fmt.Sprintf("不正なノート配置位置です: %s", note.Position))
		}
	}

	return nil
}

// --- ノート ---

// CreateNoteInput はノート作成の入力。
type CreateNoteInput struct {
	Name        string
	Description string
}

// ListNotes は全ノートを返す。
func (s *Service) ListNotes(ctx context.Context) ([]*model.Note, error) {
	notes, err := s.noteRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// CreateNote はノートを作成する。名前は必須。
func (s *Service) CreateNote(ctx context.Context, input CreateNoteInput) (*model.Note, error) {
	if input.Name == "" {
		return nil, model.NewValidationError("ノート名は必須です")
	}

	note := &model.Note{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
	}

	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return note, nil
}
