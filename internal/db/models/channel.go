// Package models defines the flat record types persisted by the harvest pipeline.
package models

// Channel is one harvested YouTube channel row.
//
// ChannelID is the API-assigned identifier and the natural primary key.
// UploadsPlaylistID points at the platform-managed playlist holding every
// video the channel has published.
type Channel struct {
	ChannelID         string `db:"channel_id" json:"channel_id"`
	Name              string `db:"channel_name" json:"channel_name"`
	Type              string `db:"channel_type" json:"channel_type"`
	Views             int64  `db:"channel_views" json:"channel_views"`
	Description       string `db:"channel_description" json:"channel_description"`
	Status            string `db:"channel_status" json:"channel_status"`
	SubscriberCount   int64  `db:"subscriber_count" json:"subscriber_count"`
	UploadsPlaylistID string `db:"uploads_playlist_id" json:"uploads_playlist_id"`
}

// Legacy column defaults carried over from the original schema.
const (
	DefaultChannelType   = "N/A"
	DefaultChannelStatus = "active"
)
