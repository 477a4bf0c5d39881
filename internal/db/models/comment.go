package models

import "time"

// Comment is one harvested top-level comment row.
type Comment struct {
	CommentID   string     `db:"comment_id" json:"comment_id"`
	VideoID     string     `db:"video_id" json:"video_id"`
	Text        string     `db:"comment_text" json:"comment_text"`
	Author      string     `db:"comment_author" json:"comment_author"`
	PublishedAt *time.Time `db:"comment_published_date" json:"comment_published_date"`
}
