package models

import "time"

// Video is one harvested video row.
//
// PlaylistID is nil when the owning playlist was not resolved during the
// run; the row is still kept. PublishedAt is nil when the upstream timestamp
// failed to parse. DislikeCount is a legacy column the upstream API no
// longer populates and is always written as 0.
type Video struct {
	VideoID       string     `db:"video_id" json:"video_id"`
	PlaylistID    *string    `db:"playlist_id" json:"playlist_id"`
	Name          string     `db:"video_name" json:"video_name"`
	Description   string     `db:"video_description" json:"video_description"`
	Tags          []string   `db:"tags" json:"tags"`
	PublishedAt   *time.Time `db:"published_date" json:"published_date"`
	ViewCount     int64      `db:"view_count" json:"view_count"`
	LikeCount     int64      `db:"like_count" json:"like_count"`
	DislikeCount  int64      `db:"dislike_count" json:"dislike_count"`
	FavoriteCount int64      `db:"favorite_count" json:"favorite_count"`
	CommentCount  int64      `db:"comment_count" json:"comment_count"`
	Duration      int64      `db:"duration" json:"duration"`
	Thumbnail     string     `db:"thumbnail" json:"thumbnail"`
	CaptionStatus string     `db:"caption_status" json:"caption_status"`
}
