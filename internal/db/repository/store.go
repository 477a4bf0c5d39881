// Package repository implements the batch upsert writer and the canned
// query service over the normalized schema.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ytharvest/harvester/internal/db"
	"github.com/ytharvest/harvester/internal/db/models"
	"github.com/ytharvest/harvester/internal/harvest"
	"github.com/ytharvest/harvester/internal/metrics"
)

// Store writes harvest snapshots into the normalized schema and serves the
// canned analytical queries.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store on top of the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// RunResult summarizes one committed write.
type RunResult struct {
	RunID     uuid.UUID     `json:"run_id"`
	Channels  int           `json:"channels"`
	Playlists int           `json:"playlists"`
	Videos    int           `json:"videos"`
	Comments  int           `json:"comments"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Write commits a snapshot as a single transaction. Each record set is
// upserted by its natural key in dependency order (channels, playlists,
// videos, comments) so same-run foreign keys resolve without repair passes.
// Any failure rolls the whole run back, leaving the store in its pre-run
// state.
func (s *Store) Write(ctx context.Context, snapshot *harvest.Snapshot) (*RunResult, error) {
	started := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, db.WrapError(err, "begin write transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck // harmless after commit

	for i := range snapshot.Channels {
		if err := upsertChannel(ctx, tx, &snapshot.Channels[i]); err != nil {
			return nil, err
		}
	}

	for i := range snapshot.Playlists {
		if err := upsertPlaylist(ctx, tx, &snapshot.Playlists[i]); err != nil {
			return nil, err
		}
	}

	for i := range snapshot.Videos {
		if err := upsertVideo(ctx, tx, &snapshot.Videos[i]); err != nil {
			return nil, err
		}
	}

	for i := range snapshot.Comments {
		if err := upsertComment(ctx, tx, &snapshot.Comments[i]); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, db.WrapError(err, "commit write transaction")
	}

	metrics.RowsUpserted.WithLabelValues("channel").Add(float64(len(snapshot.Channels)))
	metrics.RowsUpserted.WithLabelValues("playlist").Add(float64(len(snapshot.Playlists)))
	metrics.RowsUpserted.WithLabelValues("video").Add(float64(len(snapshot.Videos)))
	metrics.RowsUpserted.WithLabelValues("comment").Add(float64(len(snapshot.Comments)))

	return &RunResult{
		RunID:     uuid.New(),
		Channels:  len(snapshot.Channels),
		Playlists: len(snapshot.Playlists),
		Videos:    len(snapshot.Videos),
		Comments:  len(snapshot.Comments),
		Elapsed:   time.Since(started),
	}, nil
}

func upsertChannel(ctx context.Context, tx pgx.Tx, channel *models.Channel) error {
	query := `
		INSERT INTO channel (channel_id, channel_name, channel_type, channel_views,
		                     channel_description, channel_status, subscriber_count, uploads_playlist_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (channel_id) DO UPDATE
		SET channel_name = EXCLUDED.channel_name,
		    channel_type = EXCLUDED.channel_type,
		    channel_views = EXCLUDED.channel_views,
		    channel_description = EXCLUDED.channel_description,
		    channel_status = EXCLUDED.channel_status,
		    subscriber_count = EXCLUDED.subscriber_count,
		    uploads_playlist_id = EXCLUDED.uploads_playlist_id
	`

	_, err := tx.Exec(ctx, query,
		channel.ChannelID,
		channel.Name,
		channel.Type,
		channel.Views,
		channel.Description,
		channel.Status,
		channel.SubscriberCount,
		channel.UploadsPlaylistID,
	)
	if err != nil {
		return db.WrapError(err, "upsert channel")
	}

	return nil
}

func upsertPlaylist(ctx context.Context, tx pgx.Tx, playlist *models.Playlist) error {
	query := `
		INSERT INTO playlist (playlist_id, channel_id, playlist_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (playlist_id) DO UPDATE
		SET channel_id = EXCLUDED.channel_id,
		    playlist_name = EXCLUDED.playlist_name
	`

	_, err := tx.Exec(ctx, query,
		playlist.PlaylistID,
		playlist.ChannelID,
		playlist.Name,
	)
	if err != nil {
		return db.WrapError(err, "upsert playlist")
	}

	return nil
}

func upsertVideo(ctx context.Context, tx pgx.Tx, video *models.Video) error {
	query := `
		INSERT INTO video (video_id, playlist_id, video_name, video_description, tags,
		                   published_date, view_count, like_count, dislike_count,
		                   favorite_count, comment_count, duration, thumbnail, caption_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (video_id) DO UPDATE
		SET playlist_id = EXCLUDED.playlist_id,
		    video_name = EXCLUDED.video_name,
		    video_description = EXCLUDED.video_description,
		    tags = EXCLUDED.tags,
		    published_date = EXCLUDED.published_date,
		    view_count = EXCLUDED.view_count,
		    like_count = EXCLUDED.like_count,
		    favorite_count = EXCLUDED.favorite_count,
		    comment_count = EXCLUDED.comment_count,
		    duration = EXCLUDED.duration,
		    thumbnail = EXCLUDED.thumbnail,
		    caption_status = EXCLUDED.caption_status
	`

	_, err := tx.Exec(ctx, query,
		video.VideoID,
		video.PlaylistID,
		video.Name,
		video.Description,
		video.Tags,
		video.PublishedAt,
		video.ViewCount,
		video.LikeCount,
		video.DislikeCount,
		video.FavoriteCount,
		video.CommentCount,
		video.Duration,
		video.Thumbnail,
		video.CaptionStatus,
	)
	if err != nil {
		return db.WrapError(err, "upsert video")
	}

	return nil
}

func upsertComment(ctx context.Context, tx pgx.Tx, comment *models.Comment) error {
	query := `
		INSERT INTO comment (comment_id, video_id, comment_text, comment_author, comment_published_date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (comment_id) DO UPDATE
		SET video_id = EXCLUDED.video_id,
		    comment_text = EXCLUDED.comment_text,
		    comment_author = EXCLUDED.comment_author,
		    comment_published_date = EXCLUDED.comment_published_date
	`

	_, err := tx.Exec(ctx, query,
		comment.CommentID,
		comment.VideoID,
		comment.Text,
		comment.Author,
		comment.PublishedAt,
	)
	if err != nil {
		return db.WrapError(err, "upsert comment")
	}

	return nil
}
