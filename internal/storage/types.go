package storage

import "slidechat/internal/deck"

// DraftMeta 草稿元数据
// DraftMeta describes a stored draft
type DraftMeta struct {
	ID         string        `json:"id"`
	Metadata   deck.Metadata `json:"metadata"`
	SlideCount int           `json:"slide_count"`
	CreatedAt  string        `json:"created_at"`
	UpdatedAt  string        `json:"updated_at"`
}
