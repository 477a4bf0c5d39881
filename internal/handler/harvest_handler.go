package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ytharvest/harvester/internal/db"
	"github.com/ytharvest/harvester/internal/db/repository"
	"github.com/ytharvest/harvester/internal/harvest"
	"github.com/ytharvest/harvester/internal/youtube"
	"github.com/ytharvest/harvester/pkg/logger"
)

// Pipeline is the harvest surface the handler drives.
type Pipeline interface {
	SearchChannels(ctx context.Context, term string, limit int) ([]string, error)
	Harvest(ctx context.Context, channelIDs []string) (*harvest.Snapshot, error)
}

// Writer is the store surface the handler drives.
type Writer interface {
	Write(ctx context.Context, snapshot *harvest.Snapshot) (*repository.RunResult, error)
	RunQueries(ctx context.Context, keys []string) (map[string]repository.QueryResult, error)
}

// HarvestHandler wires the pipeline and the store to the HTTP API. Fetching
// and persisting are deliberately separate calls: a harvest produces a
// cached snapshot that stays uncommitted until the caller confirms.
type HarvestHandler struct {
	pipeline  Pipeline
	writer    Writer
	snapshots *SnapshotCache
}

// NewHarvestHandler creates a new HarvestHandler.
func NewHarvestHandler(pipeline Pipeline, writer Writer, snapshots *SnapshotCache) *HarvestHandler {
	return &HarvestHandler{
		pipeline:  pipeline,
		writer:    writer,
		snapshots: snapshots,
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (h *HarvestHandler) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/api/v1")
	v1.GET("/channels/search", h.SearchChannels)
	v1.POST("/harvests", h.CreateHarvest)
	v1.POST("/harvests/:id/commit", h.CommitHarvest)
	v1.GET("/queries", h.RunQueries)
	v1.GET("/queries/catalog", h.QueryCatalog)
}

// SearchChannels handles GET /api/v1/channels/search?q=term&limit=10.
func (h *HarvestHandler) SearchChannels(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		sendError(c, http.StatusBadRequest, "Bad Request", "query parameter q is required")
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			sendError(c, http.StatusBadRequest, "Bad Request", "limit must be an integer between 1 and 50")
			return
		}
		limit = parsed
	}

	ids, err := h.pipeline.SearchChannels(c.Request.Context(), term, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":       term,
		"channel_ids": ids,
	})
}

type createHarvestRequest struct {
	ChannelIDs []string `json:"channel_ids" binding:"required,min=1"`
}

// CreateHarvest handles POST /api/v1/harvests. It runs the pipeline and
// caches the snapshot for a later commit; nothing is persisted here.
func (h *HarvestHandler) CreateHarvest(c *gin.Context) {
	var req createHarvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Bad Request", "invalid request payload: "+err.Error())
		return
	}

	snapshot, err := h.pipeline.Harvest(c.Request.Context(), req.ChannelIDs)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.snapshots.Put(snapshot)

	logger.Log.Info("harvest snapshot cached",
		zap.String("snapshot_id", snapshot.ID.String()),
		zap.Int("channels", len(snapshot.Channels)),
		zap.Int("videos", len(snapshot.Videos)),
	)

	c.JSON(http.StatusCreated, gin.H{
		"snapshot_id":      snapshot.ID,
		"fetched_at":       snapshot.FetchedAt,
		"channels":         len(snapshot.Channels),
		"playlists":        len(snapshot.Playlists),
		"videos":           len(snapshot.Videos),
		"comments":         len(snapshot.Comments),
		"skipped_comments": snapshot.SkippedComments,
		"preview":          snapshot,
	})
}

// CommitHarvest handles POST /api/v1/harvests/:id/commit. This is the
// explicit confirmation step; only here does the snapshot reach the store.
func (h *HarvestHandler) CommitHarvest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Bad Request", "invalid snapshot id")
		return
	}

	snapshot, ok := h.snapshots.Take(id)
	if !ok {
		sendError(c, http.StatusNotFound, "Not Found", "snapshot not found, expired, or already committed")
		return
	}

	result, err := h.writer.Write(c.Request.Context(), snapshot)
	if err != nil {
		// The write rolled back; put the snapshot back so the caller can
		// retry the commit without re-harvesting.
		h.snapshots.Put(snapshot)
		h.handleError(c, err)
		return
	}

	logger.Log.Info("harvest snapshot committed",
		zap.String("snapshot_id", id.String()),
		zap.String("run_id", result.RunID.String()),
		zap.Duration("elapsed", result.Elapsed),
	)

	c.JSON(http.StatusOK, result)
}

// RunQueries handles GET /api/v1/queries?key=a&key=b.
func (h *HarvestHandler) RunQueries(c *gin.Context) {
	keys := c.QueryArray("key")
	if len(keys) == 0 {
		sendError(c, http.StatusBadRequest, "Bad Request", "at least one key parameter is required")
		return
	}

	results, err := h.writer.RunQueries(c.Request.Context(), keys)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// QueryCatalog handles GET /api/v1/queries/catalog.
func (h *HarvestHandler) QueryCatalog(c *gin.Context) {
	catalog := repository.Queries()
	items := make([]gin.H, len(catalog))
	for i, q := range catalog {
		items[i] = gin.H{"key": q.Key, "question": q.Question}
	}
	c.JSON(http.StatusOK, gin.H{"queries": items})
}

// HealthCheck provides a simple readiness endpoint.
func (h *HarvestHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now(),
	})
}

func (h *HarvestHandler) handleError(c *gin.Context, err error) {
	var coercion *harvest.FieldCoercionError

	switch {
	case youtube.IsUpstreamError(err):
		logger.Log.Error("upstream API failure",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		sendError(c, http.StatusBadGateway, "Bad Gateway", err.Error())
	case errors.As(err, &coercion):
		logger.Log.Error("field coercion failure", zap.Error(err))
		sendError(c, http.StatusUnprocessableEntity, "Unprocessable Entity", err.Error())
	case db.IsConstraintViolation(err):
		logger.Log.Error("constraint violation on commit", zap.Error(err))
		sendError(c, http.StatusConflict, "Conflict", err.Error())
	default:
		logger.Log.Error("request failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		sendError(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
	}
}
