package harvest

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ytharvest/harvester/internal/db/models"
	"github.com/ytharvest/harvester/internal/youtube"
)

// FieldCoercionError reports a field that was present upstream but failed to
// parse into its expected shape. It is fatal for the run: a malformed count
// is an upstream contract violation, unlike an absent one which defaults to 0.
type FieldCoercionError struct {
	RecordID string
	Field    string
	Value    string
}

func (e *FieldCoercionError) Error() string {
	return fmt.Sprintf("record %s: field %s: cannot coerce %q", e.RecordID, e.Field, e.Value)
}

// ChannelRecords converts raw channels into channel and uploads-playlist
// rows. Each channel yields exactly one playlist; a channel without an
// uploads playlist id yields the channel row only. Channels with no id are
// excluded.
func ChannelRecords(raw []youtube.RawChannel) ([]models.Channel, []models.Playlist, error) {
	channels := make([]models.Channel, 0, len(raw))
	playlists := make([]models.Playlist, 0, len(raw))

	for _, rc := range raw {
		if rc.ID == "" {
			continue
		}

		views, err := coerceCount(rc.ID, "viewCount", rc.Statistics.ViewCount)
		if err != nil {
			return nil, nil, err
		}
		subscribers, err := coerceCount(rc.ID, "subscriberCount", rc.Statistics.SubscriberCount)
		if err != nil {
			return nil, nil, err
		}

		uploads := rc.ContentDetails.RelatedPlaylists.Uploads

		channels = append(channels, models.Channel{
			ChannelID:         rc.ID,
			Name:              rc.Snippet.Title,
			Type:              models.DefaultChannelType,
			Views:             views,
			Description:       rc.Snippet.Description,
			Status:            models.DefaultChannelStatus,
			SubscriberCount:   subscribers,
			UploadsPlaylistID: uploads,
		})

		if uploads != "" {
			playlists = append(playlists, models.Playlist{
				PlaylistID: uploads,
				ChannelID:  rc.ID,
				Name:       rc.Snippet.Title + " uploads",
			})
		}
	}

	return channels, playlists, nil
}

// VideoRecords converts raw videos into rows, joining each to its owning
// playlist through playlistByVideo. Videos with no mapping keep a nil
// playlist id rather than being dropped.
func VideoRecords(raw []youtube.RawVideo, playlistByVideo map[string]string) ([]models.Video, error) {
	videos := make([]models.Video, 0, len(raw))

	for _, rv := range raw {
		if rv.ID == "" {
			continue
		}

		views, err := coerceCount(rv.ID, "viewCount", rv.Statistics.ViewCount)
		if err != nil {
			return nil, err
		}
		likes, err := coerceCount(rv.ID, "likeCount", rv.Statistics.LikeCount)
		if err != nil {
			return nil, err
		}
		favorites, err := coerceCount(rv.ID, "favoriteCount", rv.Statistics.FavoriteCount)
		if err != nil {
			return nil, err
		}
		comments, err := coerceCount(rv.ID, "commentCount", rv.Statistics.CommentCount)
		if err != nil {
			return nil, err
		}

		var playlistID *string
		if pid, ok := playlistByVideo[rv.ID]; ok && pid != "" {
			playlistID = &pid
		}

		// Unparseable durations resolve to 0 rather than failing the record.
		duration, err := youtube.ParseDuration(rv.ContentDetails.Duration)
		if err != nil {
			duration = 0
		}

		tags := rv.Snippet.Tags
		if tags == nil {
			tags = []string{}
		}

		videos = append(videos, models.Video{
			VideoID:       rv.ID,
			PlaylistID:    playlistID,
			Name:          rv.Snippet.Title,
			Description:   rv.Snippet.Description,
			Tags:          tags,
			PublishedAt:   parseTimestamp(rv.Snippet.PublishedAt),
			ViewCount:     views,
			LikeCount:     likes,
			DislikeCount:  0, // legacy column, upstream no longer exposes it
			FavoriteCount: favorites,
			CommentCount:  comments,
			Duration:      duration,
			Thumbnail:     thumbnailURL(rv.Snippet.Thumbnails),
			CaptionStatus: rv.ContentDetails.Caption,
		})
	}

	return videos, nil
}

// CommentRecords flattens raw comment threads into rows, preserving upstream
// order.
func CommentRecords(raw []youtube.RawComment) []models.Comment {
	comments := make([]models.Comment, 0, len(raw))

	for _, rc := range raw {
		if rc.ID == "" {
			continue
		}

		snippet := rc.Snippet.TopLevelComment.Snippet
		comments = append(comments, models.Comment{
			CommentID:   rc.ID,
			VideoID:     rc.Snippet.VideoID,
			Text:        snippet.TextDisplay,
			Author:      snippet.AuthorDisplayName,
			PublishedAt: parseTimestamp(snippet.PublishedAt),
		})
	}

	return comments
}

// coerceCount parses a decimal count field. Absent fields default to 0;
// present but malformed or negative values are a FieldCoercionError.
func coerceCount(recordID, field, raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, &FieldCoercionError{RecordID: recordID, Field: field, Value: raw}
	}

	return n, nil
}

// parseTimestamp parses an RFC3339 published-at string. Failure yields a nil
// timestamp rather than dropping the row.
func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}

	return &t
}

func thumbnailURL(thumbs youtube.Thumbnails) string {
	if thumbs.High != nil && thumbs.High.URL != "" {
		return thumbs.High.URL
	}
	if thumbs.Default != nil {
		return thumbs.Default.URL
	}
	return ""
}
