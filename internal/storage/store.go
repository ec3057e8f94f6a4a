package storage

import (
	"slidechat/internal/deck"
)

// Store 持久化接口：本地偏好设置与演示文稿草稿
// Store persists local preferences and presentation drafts.
type Store interface {
	// 偏好设置 / Preferences (JSON-encoded values)
	GetPref(key string, v any) (bool, error)
	SetPref(key string, v any) error

	// 草稿 / Drafts
	SaveDraft(id string, meta deck.Metadata, slides []deck.Slide) (DraftMeta, error)
	LoadDraft(id string) (DraftMeta, []deck.Slide, error)
	ListDrafts() ([]DraftMeta, error)
	DeleteDraft(id string) error

	// 生命周期 / Lifecycle
	Close() error
}
