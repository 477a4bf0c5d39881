//go:build integration
// +build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytharvest/harvester/internal/db"
	"github.com/ytharvest/harvester/internal/db/models"
	"github.com/ytharvest/harvester/internal/db/testutil"
	"github.com/ytharvest/harvester/internal/harvest"
)

func testSnapshot() *harvest.Snapshot {
	playlistID := "UU-one"
	published2022 := time.Date(2022, 6, 1, 12, 0, 0, 0, time.UTC)
	published2023 := time.Date(2023, 1, 15, 9, 0, 0, 0, time.UTC)

	return &harvest.Snapshot{
		ID:        uuid.New(),
		FetchedAt: time.Now(),
		Channels: []models.Channel{
			{
				ChannelID:         "UC-one",
				Name:              "Channel One",
				Type:              models.DefaultChannelType,
				Views:             5000,
				Description:       "test channel",
				Status:            models.DefaultChannelStatus,
				SubscriberCount:   120,
				UploadsPlaylistID: playlistID,
			},
		},
		Playlists: []models.Playlist{
			{PlaylistID: playlistID, ChannelID: "UC-one", Name: "Channel One uploads"},
		},
		Videos: []models.Video{
			{
				VideoID:       "vid-1",
				PlaylistID:    &playlistID,
				Name:          "First Video",
				Description:   "about things",
				Tags:          []string{"go", "testing"},
				PublishedAt:   &published2022,
				ViewCount:     300,
				LikeCount:     40,
				DislikeCount:  0,
				FavoriteCount: 2,
				CommentCount:  2,
				Duration:      600,
				Thumbnail:     "https://img.example/1.jpg",
				CaptionStatus: "false",
			},
			{
				VideoID:     "vid-2",
				PlaylistID:  &playlistID,
				Name:        "Second Video",
				Tags:        []string{},
				PublishedAt: &published2023,
				ViewCount:   900,
				LikeCount:   10,
				Duration:    300,
			},
		},
		Comments: []models.Comment{
			{CommentID: "c-1", VideoID: "vid-1", Text: "great", Author: "alice", PublishedAt: &published2022},
			{CommentID: "c-2", VideoID: "vid-1", Text: "nice", Author: "bob", PublishedAt: &published2023},
		},
	}
}

func TestWrite(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	store := NewStore(td.Pool)
	ctx := context.Background()

	result, err := store.Write(ctx, testSnapshot())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Channels)
	assert.Equal(t, 1, result.Playlists)
	assert.Equal(t, 2, result.Videos)
	assert.Equal(t, 2, result.Comments)
	assert.NotEqual(t, uuid.Nil, result.RunID)

	assert.Equal(t, 1, td.CountRows(t, "channel"))
	assert.Equal(t, 1, td.CountRows(t, "playlist"))
	assert.Equal(t, 2, td.CountRows(t, "video"))
	assert.Equal(t, 2, td.CountRows(t, "comment"))
}

func TestWrite_Idempotent(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	store := NewStore(td.Pool)
	ctx := context.Background()

	_, err := store.Write(ctx, testSnapshot())
	require.NoError(t, err)

	// A second identical write changes nothing: same keys, same counts.
	_, err = store.Write(ctx, testSnapshot())
	require.NoError(t, err)

	assert.Equal(t, 1, td.CountRows(t, "channel"))
	assert.Equal(t, 1, td.CountRows(t, "playlist"))
	assert.Equal(t, 2, td.CountRows(t, "video"))
	assert.Equal(t, 2, td.CountRows(t, "comment"))
}

func TestWrite_UpsertRefreshesMutableFields(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	store := NewStore(td.Pool)
	ctx := context.Background()

	first := testSnapshot()
	_, err := store.Write(ctx, first)
	require.NoError(t, err)

	second := testSnapshot()
	second.Channels[0].Views = 9999
	second.Videos[0].ViewCount = 1234
	_, err = store.Write(ctx, second)
	require.NoError(t, err)

	var channelViews int64
	err = td.Pool.QueryRow(ctx,
		`SELECT channel_views FROM channel WHERE channel_id = $1`, "UC-one",
	).Scan(&channelViews)
	require.NoError(t, err)
	assert.Equal(t, int64(9999), channelViews)

	var viewCount int64
	err = td.Pool.QueryRow(ctx,
		`SELECT view_count FROM video WHERE video_id = $1`, "vid-1",
	).Scan(&viewCount)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), viewCount)

	assert.Equal(t, 2, td.CountRows(t, "video"))
}

func TestWrite_RollsBackAtomically(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	store := NewStore(td.Pool)
	ctx := context.Background()

	// A comment pointing at a video that is not part of the run violates the
	// foreign key and must roll back every table, channels included.
	snapshot := testSnapshot()
	snapshot.Comments = append(snapshot.Comments, models.Comment{
		CommentID: "c-orphan",
		VideoID:   "vid-missing",
		Text:      "orphan",
		Author:    "nobody",
	})

	_, err := store.Write(ctx, snapshot)
	require.Error(t, err)
	assert.True(t, db.IsConstraintViolation(err))

	assert.Equal(t, 0, td.CountRows(t, "channel"))
	assert.Equal(t, 0, td.CountRows(t, "playlist"))
	assert.Equal(t, 0, td.CountRows(t, "video"))
	assert.Equal(t, 0, td.CountRows(t, "comment"))
}

func TestWrite_NullablePlaylistAndTimestamp(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	store := NewStore(td.Pool)
	ctx := context.Background()

	snapshot := testSnapshot()
	snapshot.Videos = append(snapshot.Videos, models.Video{
		VideoID: "vid-loose",
		Name:    "Unattached",
		Tags:    []string{},
	})

	_, err := store.Write(ctx, snapshot)
	require.NoError(t, err)

	var playlistID *string
	var published *time.Time
	err = td.Pool.QueryRow(ctx,
		`SELECT playlist_id, published_date FROM video WHERE video_id = $1`, "vid-loose",
	).Scan(&playlistID, &published)
	require.NoError(t, err)
	assert.Nil(t, playlistID)
	assert.Nil(t, published)
}

func TestRunQueries(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	store := NewStore(td.Pool)
	ctx := context.Background()

	_, err := store.Write(ctx, testSnapshot())
	require.NoError(t, err)

	results, err := store.RunQueries(ctx, QueryKeys())
	require.NoError(t, err)
	require.Len(t, results, len(QueryKeys()))

	top10 := results["top10_viewed"]
	require.Len(t, top10.Rows, 2)
	assert.Equal(t, []string{"channel_name", "video_name", "view_count"}, top10.Columns)
	// vid-2 has more views and sorts first.
	assert.Equal(t, "Second Video", top10.Rows[0][1])

	mostCommented := results["most_commented"]
	require.Len(t, mostCommented.Rows, 1)
	assert.Equal(t, "First Video", mostCommented.Rows[0][1])

	published := results["published_2022"]
	require.Len(t, published.Rows, 1)
	assert.Equal(t, "Channel One", published.Rows[0][0])
}

func TestRunQueries_UnknownKey(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	store := NewStore(td.Pool)

	results, err := store.RunQueries(context.Background(), []string{"top10_viewed", "bogus"})
	require.Error(t, err)
	assert.Nil(t, results)
	assert.Contains(t, err.Error(), "bogus")
}
