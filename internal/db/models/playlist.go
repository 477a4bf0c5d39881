package models

// Playlist is the uploads playlist row for a harvested channel.
type Playlist struct {
	PlaylistID string `db:"playlist_id" json:"playlist_id"`
	ChannelID  string `db:"channel_id" json:"channel_id"`
	Name       string `db:"playlist_name" json:"playlist_name"`
}
