package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vigil-dev/vigil/db"
	"github.com/vigil-dev/vigil/internal/badge"
	"github.com/vigil-dev/vigil/internal/metrics"
	"github.com/vigil-dev/vigil/internal/statuses"
	"github.com/vigil-dev/vigil/internal/types"
	"github.com/vigil-dev/vigil/internal/utils"
	"go.uber.org/zap"
)

type CreateMonitorRequest struct {
	Name string   `json:"name" binding:"required"`
	Tags []string `json:"tags"`
}

type UpdateStateRequest struct {
	State   types.MonitorState `json:"state" binding:"required"`
	Message *string            `json:"message"`
}

type StatusSummary struct {
	ID        uint               `json:"id"`
	State     types.MonitorState `json:"state"`
	Message   *string            `json:"message"`
	Timestamp time.Time          `json:"timestamp"`
}

type MonitorResponse struct {
	ID     uint          `json:"id"`
	Name   string        `json:"name"`
	Tags   []string      `json:"tags"`
	Status StatusSummary `json:"status"`
}

type MonitorStatusResponse struct {
	ID        uint               `json:"id"`
	Name      string             `json:"name"`
	State     types.MonitorState `json:"state"`
	Message   *string            `json:"message"`
	Timestamp time.Time          `json:"timestamp"`
	Tags      []string           `json:"tags"`
}

// CreateMonitor registers a monitor with its tags. The response carries the
// persisted entity, assigned id and initial Normal status included, so a
// follow-up by-id lookup always succeeds.
func CreateMonitor(ctx *gin.Context) {
	var req CreateMonitorRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Monitor name must not be blank"})
		return
	}

	monitor, err := statuses.NewService(db.DB).CreateMonitor(req.Name, req.Tags)

	if err != nil {
		respondError(ctx, err)
		return
	}

	metrics.MonitorsCreated.Inc()

	tags := make([]string, 0, len(monitor.Tags))

	for _, tag := range monitor.Tags {
		tags = append(tags, tag.Name)
	}

	initial := monitor.Statuses[0]

	ctx.JSON(http.StatusOK, MonitorResponse{
		ID:   monitor.ID,
		Name: monitor.Name,
		Tags: tags,
		Status: StatusSummary{
			ID:        initial.ID,
			State:     initial.State,
			Message:   initial.Message,
			Timestamp: initial.Timestamp,
		},
	})
}

// SetMonitorState appends a status record; history is never rewritten.
func SetMonitorState(ctx *gin.Context) {
	monitorID, err := utils.GetMonitorID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateStateRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := statuses.NewService(db.DB).AppendStatus(monitorID, req.State, req.Message); err != nil {
		respondError(ctx, err)
		return
	}

	metrics.StatusesRecorded.WithLabelValues(req.State.String()).Inc()

	ctx.JSON(http.StatusOK, gin.H{"message": "State updated successfully"})
}

func GetMonitorState(ctx *gin.Context) {
	monitorID, err := utils.GetMonitorID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := statuses.NewService(db.DB).StatusOf(monitorID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toStatusResponse(*result))
}

// GetMonitorStateBadge renders the monitor's latest state as a PNG.
func GetMonitorStateBadge(ctx *gin.Context) {
	monitorID, err := utils.GetMonitorID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := statuses.NewService(db.DB).StatusOf(monitorID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	image, err := badge.Render(result.Name, result.Status.State)

	if err != nil {
		zap.L().Error("Failed to render badge", zap.Uint("monitor_id", monitorID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render badge"})
		return
	}

	ctx.Data(http.StatusOK, "image/png", image)
}

// ListMonitorStatuses returns the latest status of every monitor. No
// monitors is an empty list, not an error.
func ListMonitorStatuses(ctx *gin.Context) {
	results, err := statuses.NewService(db.DB).All()

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toStatusResponses(results))
}

// ListMonitorStatusesByTags returns the latest status of every monitor
// carrying all of the requested tags.
func ListMonitorStatusesByTags(ctx *gin.Context) {
	results, err := statuses.NewService(db.DB).ByTags(ctx.QueryArray("tags"))

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toStatusResponses(results))
}

// GetMonitorHistory returns a reverse-chronological page of the monitor's
// status records.
func GetMonitorHistory(ctx *gin.Context) {
	monitorID, err := utils.GetMonitorID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	skip, limit, err := utils.GetPagination(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service := statuses.NewService(db.DB)

	history, err := service.History(monitorID, skip, limit)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]StatusSummary, 0, len(history))

	for _, status := range history {
		response = append(response, StatusSummary{
			ID:        status.ID,
			State:     status.State,
			Message:   status.Message,
			Timestamp: status.Timestamp,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

// DeleteMonitor removes the monitor with its status history and tag
// associations; shared tags stay.
func DeleteMonitor(ctx *gin.Context) {
	monitorID, err := utils.GetMonitorID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := statuses.NewService(db.DB).DeleteMonitor(monitorID); err != nil {
		respondError(ctx, err)
		return
	}

	metrics.MonitorsDeleted.Inc()

	ctx.JSON(http.StatusOK, gin.H{"message": "Monitor deleted successfully"})
}

// respondError translates the typed service errors to status codes. Anything
// unrecognized is a storage failure: logged, surfaced as a bare 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, statuses.ErrMonitorNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Monitor not found"})
	case errors.Is(err, statuses.ErrNoStatus):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "No state found for this monitor"})
	case errors.Is(err, statuses.ErrMonitorExists):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Monitor already exists"})
	case errors.Is(err, statuses.ErrNoTags):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "At least one tag must be provided"})
	default:
		zap.L().Error("Storage failure", zap.String("path", ctx.FullPath()), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func toStatusResponse(result statuses.MonitorStatus) MonitorStatusResponse {
	return MonitorStatusResponse{
		ID:        result.MonitorID,
		Name:      result.Name,
		State:     result.Status.State,
		Message:   result.Status.Message,
		Timestamp: result.Status.Timestamp,
		Tags:      result.Tags,
	}
}

func toStatusResponses(results []statuses.MonitorStatus) []MonitorStatusResponse {
	response := make([]MonitorStatusResponse, 0, len(results))

	for _, result := range results {
		response = append(response, toStatusResponse(result))
	}

	return response
}
