// Package harvest orchestrates the fetch-normalize pipeline and holds the
// pure normalization functions.
package harvest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ytharvest/harvester/internal/db/models"
	"github.com/ytharvest/harvester/internal/metrics"
	"github.com/ytharvest/harvester/internal/youtube"
)

// Fetcher is the upstream surface the pipeline consumes. *youtube.Client
// implements it; tests substitute a mock.
type Fetcher interface {
	SearchChannels(ctx context.Context, query string, limit int) ([]string, error)
	FetchChannels(ctx context.Context, ids []string) ([]youtube.RawChannel, error)
	FetchPlaylistVideoIDs(ctx context.Context, playlistID string) ([]string, error)
	FetchVideos(ctx context.Context, ids []string) ([]youtube.RawVideo, error)
	FetchComments(ctx context.Context, videoID string) ([]youtube.RawComment, error)
}

// CommentFailure records a video whose comment fetch was skipped.
type CommentFailure struct {
	VideoID string `json:"video_id"`
	Reason  string `json:"reason"`
}

// Snapshot is the in-memory result of one harvest run: the four normalized
// record sets, ready to preview and commit. It is created fresh each run and
// discarded once written.
type Snapshot struct {
	ID              uuid.UUID         `json:"id"`
	Channels        []models.Channel  `json:"channels"`
	Playlists       []models.Playlist `json:"playlists"`
	Videos          []models.Video    `json:"videos"`
	Comments        []models.Comment  `json:"comments"`
	SkippedComments []CommentFailure  `json:"skipped_comments"`
	FetchedAt       time.Time         `json:"fetched_at"`
}

// Config controls pipeline behaviour.
type Config struct {
	// CommentsEnabled turns the comment harvesting stage on or off.
	CommentsEnabled bool
}

// Harvester runs the synchronous batch pipeline: fetch, normalize, and hand
// back a snapshot for the caller to commit. One call processes one channel
// selection to completion; there is no overlap between upstream requests.
type Harvester struct {
	fetcher Fetcher
	cfg     Config
	log     *zap.Logger
}

// NewHarvester creates a Harvester around the given fetcher.
func NewHarvester(fetcher Fetcher, cfg Config, log *zap.Logger) *Harvester {
	if log == nil {
		log = zap.NewNop()
	}
	return &Harvester{fetcher: fetcher, cfg: cfg, log: log}
}

// SearchChannels returns candidate channel ids for a search term so the
// caller can select which channels to harvest.
func (h *Harvester) SearchChannels(ctx context.Context, term string, limit int) ([]string, error) {
	return h.fetcher.SearchChannels(ctx, term, limit)
}

// Harvest fetches and normalizes everything reachable from the given channel
// ids. Any upstream or coercion failure aborts the run before a snapshot is
// produced; the single exception is per-video comment fetching, where
// failures are recorded in the snapshot and the loop continues.
func (h *Harvester) Harvest(ctx context.Context, channelIDs []string) (*Snapshot, error) {
	if len(channelIDs) == 0 {
		return nil, fmt.Errorf("no channel ids selected")
	}

	started := time.Now()

	rawChannels, err := h.fetcher.FetchChannels(ctx, channelIDs)
	if err != nil {
		metrics.HarvestRuns.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("fetch channels: %w", err)
	}

	channels, playlists, err := ChannelRecords(rawChannels)
	if err != nil {
		metrics.HarvestRuns.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("normalize channels: %w", err)
	}

	h.log.Info("channels fetched",
		zap.Int("requested", len(channelIDs)),
		zap.Int("resolved", len(channels)),
	)

	// Walk each uploads playlist, building the video -> playlist join used
	// by the normalizer.
	var videoIDs []string
	playlistByVideo := make(map[string]string)

	for _, playlist := range playlists {
		ids, err := h.fetcher.FetchPlaylistVideoIDs(ctx, playlist.PlaylistID)
		if err != nil {
			metrics.HarvestRuns.WithLabelValues("failed").Inc()
			return nil, fmt.Errorf("fetch playlist %s: %w", playlist.PlaylistID, err)
		}

		for _, id := range ids {
			if _, seen := playlistByVideo[id]; !seen {
				videoIDs = append(videoIDs, id)
				playlistByVideo[id] = playlist.PlaylistID
			}
		}
	}

	h.log.Info("playlist video refs fetched",
		zap.Int("playlists", len(playlists)),
		zap.Int("videos", len(videoIDs)),
	)

	rawVideos, err := h.fetcher.FetchVideos(ctx, videoIDs)
	if err != nil {
		metrics.HarvestRuns.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("fetch videos: %w", err)
	}

	videos, err := VideoRecords(rawVideos, playlistByVideo)
	if err != nil {
		metrics.HarvestRuns.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("normalize videos: %w", err)
	}

	snapshot := &Snapshot{
		ID:        uuid.New(),
		Channels:  channels,
		Playlists: playlists,
		Videos:    videos,
		FetchedAt: started,
	}

	if h.cfg.CommentsEnabled {
		snapshot.Comments, snapshot.SkippedComments = h.harvestComments(ctx, videos)
	}

	metrics.HarvestRuns.WithLabelValues("ok").Inc()

	h.log.Info("harvest complete",
		zap.String("snapshot_id", snapshot.ID.String()),
		zap.Int("channels", len(snapshot.Channels)),
		zap.Int("playlists", len(snapshot.Playlists)),
		zap.Int("videos", len(snapshot.Videos)),
		zap.Int("comments", len(snapshot.Comments)),
		zap.Int("skipped_comment_videos", len(snapshot.SkippedComments)),
		zap.Duration("elapsed", time.Since(started)),
	)

	return snapshot, nil
}

// harvestComments fetches comments per video with per-video failure
// isolation: one video with disabled or failing comments must not block the
// rest of the run.
func (h *Harvester) harvestComments(ctx context.Context, videos []models.Video) ([]models.Comment, []CommentFailure) {
	var comments []models.Comment
	var skipped []CommentFailure

	for _, video := range videos {
		raw, err := h.fetcher.FetchComments(ctx, video.VideoID)
		if err != nil {
			// Context cancellation is the caller aborting, not a per-video
			// condition; stop the loop and surface what we have.
			if ctx.Err() != nil {
				break
			}

			h.log.Warn("skipping comments for video",
				zap.String("video_id", video.VideoID),
				zap.Error(err),
			)
			metrics.CommentFetchSkips.Inc()
			skipped = append(skipped, CommentFailure{
				VideoID: video.VideoID,
				Reason:  err.Error(),
			})
			continue
		}

		comments = append(comments, CommentRecords(raw)...)
	}

	return comments, skipped
}
