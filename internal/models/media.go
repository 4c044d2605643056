package models

import "time"

// Media types accepted by the catalog.
const (
	MediaImage = "image"
	MediaVideo = "video"
	MediaOther = "other"
)

// MediaItem is a shared media record. The blob itself lives in external
// storage; only the URL reference is kept here.
type MediaItem struct {
	ID        int       `db:"id" json:"id"`
	OwnerID   int       `db:"owner_id" json:"owner_id"`
	MediaURL  string    `db:"media_url" json:"media_url"`
	MediaType string    `db:"media_type" json:"media_type"`
	FileName  string    `db:"file_name" json:"file_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MediaItemView adds per-viewer like state to a media item.
type MediaItemView struct {
	MediaItem
	LikesCount int  `db:"likes_count" json:"likes_count"`
	LikedByMe  bool `db:"liked_by_me" json:"liked_by_me"`
}
