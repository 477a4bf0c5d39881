package harvest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytharvest/harvester/internal/youtube"
)

func TestChannelRecords(t *testing.T) {
	raw := []youtube.RawChannel{
		{
			ID: "UC-one",
			Snippet: youtube.ChannelSnippet{
				Title:       "Channel One",
				Description: "first channel",
			},
			Statistics: youtube.ChannelStatistics{
				ViewCount:       "12345",
				SubscriberCount: "678",
			},
			ContentDetails: youtube.ChannelContentDetails{
				RelatedPlaylists: youtube.RelatedPlaylists{Uploads: "UU-one"},
			},
		},
	}

	channels, playlists, err := ChannelRecords(raw)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	require.Len(t, playlists, 1)

	assert.Equal(t, "UC-one", channels[0].ChannelID)
	assert.Equal(t, "Channel One", channels[0].Name)
	assert.Equal(t, int64(12345), channels[0].Views)
	assert.Equal(t, int64(678), channels[0].SubscriberCount)
	assert.Equal(t, "N/A", channels[0].Type)
	assert.Equal(t, "active", channels[0].Status)
	assert.Equal(t, "UU-one", channels[0].UploadsPlaylistID)

	assert.Equal(t, "UU-one", playlists[0].PlaylistID)
	assert.Equal(t, "UC-one", playlists[0].ChannelID)
	assert.Equal(t, "Channel One uploads", playlists[0].Name)
}

func TestChannelRecords_Defaults(t *testing.T) {
	// Absent statistics default to zero; the record is never dropped for a
	// missing optional field.
	raw := []youtube.RawChannel{{ID: "UC-bare"}}

	channels, playlists, err := ChannelRecords(raw)
	require.NoError(t, err)
	require.Len(t, channels, 1)

	assert.Equal(t, int64(0), channels[0].Views)
	assert.Equal(t, int64(0), channels[0].SubscriberCount)
	assert.Equal(t, "", channels[0].Name)

	// No uploads playlist id: channel row only.
	assert.Empty(t, playlists)
}

func TestChannelRecords_MissingIDExcluded(t *testing.T) {
	raw := []youtube.RawChannel{
		{ID: ""},
		{ID: "UC-kept"},
	}

	channels, _, err := ChannelRecords(raw)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, "UC-kept", channels[0].ChannelID)
}

func TestChannelRecords_CoercionFailure(t *testing.T) {
	raw := []youtube.RawChannel{
		{
			ID:         "UC-bad",
			Statistics: youtube.ChannelStatistics{ViewCount: "not-a-number"},
		},
	}

	_, _, err := ChannelRecords(raw)
	require.Error(t, err)

	var coercion *FieldCoercionError
	require.ErrorAs(t, err, &coercion)
	assert.Equal(t, "UC-bad", coercion.RecordID)
	assert.Equal(t, "viewCount", coercion.Field)
}

func TestVideoRecords(t *testing.T) {
	raw := []youtube.RawVideo{
		{
			ID: "vid-1",
			Snippet: youtube.VideoSnippet{
				Title:       "First Video",
				Description: "description",
				PublishedAt: "2022-03-15T08:30:00Z",
				Tags:        []string{"go", "tutorial"},
				Thumbnails: youtube.Thumbnails{
					High: &youtube.Thumbnail{URL: "https://img.example/high.jpg"},
				},
			},
			Statistics: youtube.VideoStatistics{
				ViewCount:     "100",
				LikeCount:     "10",
				FavoriteCount: "1",
				CommentCount:  "5",
			},
			ContentDetails: youtube.VideoContentDetails{
				Duration: "PT1H2M3S",
				Caption:  "true",
			},
		},
	}

	videos, err := VideoRecords(raw, map[string]string{"vid-1": "UU-one"})
	require.NoError(t, err)
	require.Len(t, videos, 1)

	v := videos[0]
	assert.Equal(t, "vid-1", v.VideoID)
	require.NotNil(t, v.PlaylistID)
	assert.Equal(t, "UU-one", *v.PlaylistID)
	assert.Equal(t, []string{"go", "tutorial"}, v.Tags)
	assert.Equal(t, int64(100), v.ViewCount)
	assert.Equal(t, int64(10), v.LikeCount)
	assert.Equal(t, int64(0), v.DislikeCount)
	assert.Equal(t, int64(3723), v.Duration)
	assert.Equal(t, "https://img.example/high.jpg", v.Thumbnail)
	assert.Equal(t, "true", v.CaptionStatus)

	require.NotNil(t, v.PublishedAt)
	assert.Equal(t, time.Date(2022, 3, 15, 8, 30, 0, 0, time.UTC), v.PublishedAt.UTC())
}

func TestVideoRecords_Defaults(t *testing.T) {
	raw := []youtube.RawVideo{
		{
			ID: "vid-sparse",
			// likeCount and every other statistic absent
		},
	}

	videos, err := VideoRecords(raw, nil)
	require.NoError(t, err)
	require.Len(t, videos, 1)

	v := videos[0]
	assert.Equal(t, int64(0), v.LikeCount)
	assert.Equal(t, int64(0), v.ViewCount)
	assert.Equal(t, int64(0), v.FavoriteCount)
	assert.Equal(t, int64(0), v.CommentCount)
	assert.Nil(t, v.PlaylistID)
	assert.Nil(t, v.PublishedAt)
	assert.Equal(t, []string{}, v.Tags)
	assert.Equal(t, "", v.Thumbnail)
	// duration absent upstream parses as invalid and resolves to 0
	assert.Equal(t, int64(0), v.Duration)
}

func TestVideoRecords_InvalidDurationIsZero(t *testing.T) {
	raw := []youtube.RawVideo{
		{
			ID:             "vid-1",
			ContentDetails: youtube.VideoContentDetails{Duration: "invalid"},
		},
	}

	videos, err := VideoRecords(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), videos[0].Duration)
}

func TestVideoRecords_UnparseableTimestampKeepsRow(t *testing.T) {
	raw := []youtube.RawVideo{
		{
			ID:      "vid-1",
			Snippet: youtube.VideoSnippet{PublishedAt: "yesterday"},
		},
	}

	videos, err := VideoRecords(raw, nil)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Nil(t, videos[0].PublishedAt)
}

func TestVideoRecords_CoercionFailure(t *testing.T) {
	tests := []struct {
		name  string
		stats youtube.VideoStatistics
		field string
	}{
		{"non-numeric view count", youtube.VideoStatistics{ViewCount: "abc"}, "viewCount"},
		{"negative like count", youtube.VideoStatistics{LikeCount: "-3"}, "likeCount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := []youtube.RawVideo{{ID: "vid-bad", Statistics: tt.stats}}

			_, err := VideoRecords(raw, nil)
			require.Error(t, err)

			var coercion *FieldCoercionError
			require.ErrorAs(t, err, &coercion)
			assert.Equal(t, tt.field, coercion.Field)
		})
	}
}

func TestVideoRecords_ThumbnailFallback(t *testing.T) {
	raw := []youtube.RawVideo{
		{
			ID: "vid-1",
			Snippet: youtube.VideoSnippet{
				Thumbnails: youtube.Thumbnails{
					Default: &youtube.Thumbnail{URL: "https://img.example/default.jpg"},
				},
			},
		},
	}

	videos, err := VideoRecords(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/default.jpg", videos[0].Thumbnail)
}

func TestCommentRecords(t *testing.T) {
	raw := []youtube.RawComment{
		{
			ID: "comment-2",
			Snippet: youtube.CommentThreadSnippet{
				VideoID: "vid-1",
				TopLevelComment: youtube.TopLevelComment{
					Snippet: youtube.CommentSnippet{
						TextDisplay:       "second",
						AuthorDisplayName: "b",
						PublishedAt:       "2024-01-02T00:00:00Z",
					},
				},
			},
		},
		{
			ID: "comment-1",
			Snippet: youtube.CommentThreadSnippet{
				VideoID: "vid-1",
				TopLevelComment: youtube.TopLevelComment{
					Snippet: youtube.CommentSnippet{
						TextDisplay:       "first",
						AuthorDisplayName: "a",
						PublishedAt:       "not-a-date",
					},
				},
			},
		},
	}

	comments := CommentRecords(raw)
	require.Len(t, comments, 2)

	// Upstream order is preserved, not re-sorted.
	assert.Equal(t, "comment-2", comments[0].CommentID)
	assert.Equal(t, "comment-1", comments[1].CommentID)

	assert.Equal(t, "vid-1", comments[0].VideoID)
	assert.Equal(t, "second", comments[0].Text)
	assert.NotNil(t, comments[0].PublishedAt)
	assert.Nil(t, comments[1].PublishedAt)
}
