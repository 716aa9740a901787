// Package model はドメインモデルを定義する。
package model

import "time"

// House は香水ブランド（フレグランスハウス）を表す。
type House struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Note は香料ノート（トップ・ミドル・ベースに配置される香りの要素）を表す。
type Note struct {
	ID          string
	Name        string
	Description string
}

// NotePosition はノートの配置位置を表す。
type NotePosition string

const (
	// NotePositionTop はトップノート。
	NotePositionTop NotePosition = "top"
	// NotePositionMiddle はミドルノート。
	NotePositionMiddle NotePosition = "middle"
	// NotePositionBase はベースノート。
	NotePositionBase NotePosition = "base"
)

// IsValid は配置位置が定義済みの値かを返す。
func (p NotePosition) IsValid() bool {
	switch p {
	case NotePositionTop, NotePositionMiddle, NotePositionBase:
		return true
	default:
		return false
	}
}

// NoteAssignment は香水へのノート割り当てを表す。
type NoteAssignment struct {
	NoteID    string
	NoteName  string
	Position  NotePosition
	SortOrder int
}

// Fragrance は香水を表す。
type Fragrance struct {
	ID           string
	HouseID      string
	HouseName    string
	Name         string
	Description  string
	Rating       *float64
	PriceCents   *int
	Currency     string
	HouseURL     string
	FragranceURL string
	ReviewPostID string
	Notes        []NoteAssignment
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
