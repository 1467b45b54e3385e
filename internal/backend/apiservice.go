package backend

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jo-hoe/phototune/internal/backend/adjustments"
	"github.com/jo-hoe/phototune/internal/backend/database"
	"github.com/jo-hoe/phototune/internal/backend/imageprocessing"
	"github.com/jo-hoe/phototune/internal/core"
)

// maxUploadBytes caps uploaded image size at 10 MB.
const maxUploadBytes = 10 << 20

var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

type APIService struct {
	config      *core.ServiceConfig
	coreService *core.CoreService
}

func NewAPIService(config *core.ServiceConfig, coreService *core.CoreService) *APIService {
	return &APIService{
		config:      config,
		coreService: coreService,
	}
}

func (service *APIService) SetRoutes(e *echo.Echo) {
	e.GET("/", service.rootHandler)

	// Probe route for health checks
	e.GET("/probe", func(c echo.Context) error {
		return c.String(http.StatusOK, "API Service is running")
	})

	e.POST("/api/upload", service.uploadHandler)

	e.GET("/api/adjustments/:sessionID", service.getAdjustmentsHandler)
	e.POST("/api/adjustments/:sessionID", service.updateAdjustmentsHandler)
	e.DELETE("/api/adjustments/:sessionID", service.resetAdjustmentsHandler)

	e.GET("/api/snapshots/:sessionID", service.listSnapshotsHandler)
	e.POST("/api/snapshots/:sessionID", service.createSnapshotHandler)
	e.POST("/api/snapshots/:sessionID/:snapshotID", service.loadSnapshotHandler)
	e.DELETE("/api/snapshots/:sessionID/:snapshotID", service.deleteSnapshotHandler)

	e.POST("/api/render/:sessionID", service.renderHandler)
	e.POST("/api/upload-rendered/:sessionID", service.uploadRenderedHandler)
	e.GET("/api/download/:sessionID", service.downloadHandler)
	e.GET("/api/info/:sessionID", service.infoHandler)

	e.DELETE("/api/sessions/:sessionID", service.deleteSessionHandler)

	// Originals and snapshot previews
	e.Static("/media", service.coreService.MediaRoot())
}

type errorResponse struct {
	Error string `json:"error"`
}

type uploadResponse struct {
	SessionID   string             `json:"session_id"`
	ImageURL    string             `json:"image_url"`
	Adjustments map[string]float64 `json:"adjustments"`
}

type adjustmentsResponse struct {
	SessionID   string             `json:"session_id"`
	Adjustments map[string]float64 `json:"adjustments"`
}

type successAdjustmentsResponse struct {
	Success     bool               `json:"success"`
	Adjustments map[string]float64 `json:"adjustments"`
	SnapshotID  string             `json:"snapshot_id,omitempty"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type renderResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	SizeBytes int    `json:"size_bytes"`
}

type snapshotResponse struct {
	ID           string             `json:"id"`
	SnapshotID   string             `json:"snapshot_id"`
	SessionID    string             `json:"session_id"`
	Adjustments  map[string]float64 `json:"adjustments"`
	PreviewImage string             `json:"preview_image,omitempty"`
	Description  string             `json:"description"`
	Position     int                `json:"order"` // wire key kept from the original API
	CreatedAt    time.Time          `json:"created_at"`
}

type snapshotListResponse struct {
	SessionID          string             `json:"session_id"`
	OriginalImage      string             `json:"original_image"`
	CurrentAdjustments map[string]float64 `json:"current_adjustments"`
	Snapshots          []snapshotResponse `json:"snapshots"`
}

type createSnapshotRequest struct {
	Description *string            `json:"description" validate:"omitempty,max=200"`
	Adjustments map[string]float64 `json:"adjustments"`
}

// defaultSnapshotDescription labels snapshots created without a description.
const defaultSnapshotDescription = "Snapshot"

func toSnapshotResponse(snapshot *database.Snapshot) snapshotResponse {
	previewImage := ""
	if snapshot.PreviewImage != "" {
		previewImage = "/media/" + snapshot.PreviewImage
	}
	return snapshotResponse{
		ID:           snapshot.ID,
		SnapshotID:   snapshot.ID,
		SessionID:    snapshot.SessionID,
		Adjustments:  snapshot.Adjustments,
		PreviewImage: previewImage,
		Description:  snapshot.Description,
		Position:     snapshot.Position,
		CreatedAt:    snapshot.CreatedAt,
	}
}

// writeError maps core errors to HTTP responses. Internal failures never
// leak their message to the client.
func writeError(ctx echo.Context, handlerName string, err error) error {
	switch {
	case errors.Is(err, core.ErrSessionNotFound), errors.Is(err, core.ErrSnapshotNotFound):
		slog.Warn(handlerName+": resource not found", "status", http.StatusNotFound, "error", err)
		return ctx.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrInvalidInput):
		slog.Warn(handlerName+": invalid input", "status", http.StatusBadRequest, "error", err)
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		slog.Error(handlerName+": internal error", "status", http.StatusInternalServerError, "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func (service *APIService) rootHandler(ctx echo.Context) error {
	return ctx.HTML(http.StatusOK, indexHTML)
}

func (service *APIService) uploadHandler(ctx echo.Context) error {
	imageData, file, ok := service.readUpload(ctx, "image", "uploadHandler")
	if !ok {
		return nil
	}

	if contentType := http.DetectContentType(imageData); !allowedUploadTypes[contentType] {
		slog.Warn("uploadHandler: unsupported content type",
			"status", http.StatusBadRequest, "content_type", contentType, "filename", file.Filename)
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "unsupported image type, expected jpeg, png or gif"})
	}

	session, err := service.coreService.CreateSession(ctx.Request().Context(), file.Filename, imageData)
	if err != nil {
		return writeError(ctx, "uploadHandler", err)
	}

	slog.Info("uploadHandler: session created", "session_id", session.ID, "filename", file.Filename)
	return ctx.JSON(http.StatusOK, uploadResponse{
		SessionID:   session.ID,
		ImageURL:    "/media/" + session.OriginalImage,
		Adjustments: adjustments.Defaults(),
	})
}

func (service *APIService) getAdjustmentsHandler(ctx echo.Context) error {
	sessionID := ctx.Param("sessionID")
	result, err := service.coreService.GetAdjustments(ctx.Request().Context(), sessionID)
	if err != nil {
		return writeError(ctx, "getAdjustmentsHandler", err)
	}
	return ctx.JSON(http.StatusOK, adjustmentsResponse{SessionID: sessionID, Adjustments: result})
}

func (service *APIService) updateAdjustmentsHandler(ctx echo.Context) error {
	sessionID := ctx.Param("sessionID")

	var request struct {
		Adjustments map[string]float64 `json:"adjustments"`
	}
	if err := ctx.Bind(&request); err != nil {
		slog.Warn("updateAdjustmentsHandler: invalid request body", "status", http.StatusBadRequest, "error", err)
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body, expected {\"adjustments\": {...}}"})
	}

	result, err := service.coreService.UpdateAdjustments(ctx.Request().Context(), sessionID, request.Adjustments)
	if err != nil {
		return writeError(ctx, "updateAdjustmentsHandler", err)
	}
	return ctx.JSON(http.StatusOK, successAdjustmentsResponse{Success: true, Adjustments: result})
}

func (service *APIService) resetAdjustmentsHandler(ctx echo.Context) error {
	sessionID := ctx.Param("sessionID")
	result, err := service.coreService.ResetAdjustments(ctx.Request().Context(), sessionID)
	if err != nil {
		return writeError(ctx, "resetAdjustmentsHandler", err)
	}
	return ctx.JSON(http.StatusOK, successAdjustmentsResponse{Success: true, Adjustments: result})
}

func (service *APIService) listSnapshotsHandler(ctx echo.Context) error {
	sessionID := ctx.Param("sessionID")
	session, snapshots, err := service.coreService.ListSnapshots(ctx.Request().Context(), sessionID)
	if err != nil {
		return writeError(ctx, "listSnapshotsHandler", err)
	}

	response := snapshotListResponse{
		SessionID:          sessionID,
		OriginalImage:      "/media/" + session.OriginalImage,
		CurrentAdjustments: adjustments.Merge(session.Adjustments),
		Snapshots:          make([]snapshotResponse, 0, len(snapshots)),
	}
	for _, snapshot := range snapshots {
		response.Snapshots = append(response.Snapshots, toSnapshotResponse(snapshot))
	}
	return ctx.JSON(http.StatusOK, response)
}

func (service *APIService) createSnapshotHandler(ctx echo.Context) error {
	sessionID := ctx.Param("sessionID")

	var request createSnapshotRequest
	if err := ctx.Bind(&request); err != nil {
		slog.Warn("createSnapshotHandler: invalid request body", "status", http.StatusBadRequest, "error", err)
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if err := ctx.Validate(&request); err != nil {
		slog.Warn("createSnapshotHandler: validation failed", "status", http.StatusBadRequest, "error", err)
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "description must be at most 200 characters"})
	}

	// An omitted description gets the conventional label; an explicit empty
	// string is kept as sent.
	description := defaultSnapshotDescription
	if request.Description != nil {
		description = *request.Description
	}

	snapshot, err := service.coreService.CreateSnapshot(ctx.Request().Context(), sessionID, description, request.Adjustments)
	if err != nil {
		return writeError(ctx, "createSnapshotHandler", err)
	}

	slog.Info("createSnapshotHandler: snapshot created",
		"session_id", sessionID, "snapshot_id", snapshot.ID, "position", snapshot.Position)
	return ctx.JSON(http.StatusOK, toSnapshotResponse(snapshot))
}

func (service *APIService) loadSnapshotHandler(ctx echo.Context) error {
	sessionID := ctx.Param("sessionID")
	snapshotID := ctx.Param("snapshotID")

	result, err := service.coreService.LoadSnapshot(ctx.Request().Context(), sessionID, snapshotID)
	if err != nil {
		return writeError(ctx, "loadSnapshotHandler", err)
	}
	return ctx.JSON(http.StatusOK, successAdjustmentsResponse{Success: true, Adjustments: result, SnapshotID: snapshotID})
}

func (service *APIService) deleteSnapshotHandler(ctx echo.Context) error {
	sessionID := ctx.Param("sessionID")
	snapshotID := ctx.Param("snapshotID")

	if err := service.coreService.DeleteSnapshot(ctx.Request().Context(), sessionID, snapshotID); err != nil {
		return writeError(ctx, "deleteSnapshotHandler", err)
	}
	return ctx.JSON(http.StatusOK, successResponse{Success: true, Message: "snapshot deleted"})
}

func (service *APIService) renderHandler(ctx echo.Context) error {
	sessionID := ctx.Param("sessionID")
	rendered, err := service.coreService.RenderSession(ctx.Request().Context(), sessionID)
	if err != nil {
		return writeError(ctx, "renderHandler", err)
	}

	meta, err := imageprocessing.ReadMetadata(rendered)
	if err != nil {
		return writeError(ctx, "renderHandler", err)
	}
	return ctx.JSON(http.StatusOK, renderResponse{
		Success:   true,
		Message:   "image rendered",
		Width:     meta.Width,
		Height:    meta.Height,
		SizeBytes: len(rendered),
	})
}

func (service *APIService) uploadRenderedHandler(ctx echo.Context) error {
	sessionID := ctx.Param("sessionID")

	imageData, _, ok := service.readUpload(ctx, "rendered_image", "uploadRenderedHandler")
	if !ok {
		return nil
	}

	if err := service.coreService.StoreRendered(ctx.Request().Context(), sessionID, imageData); err != nil {
		return writeError(ctx, "uploadRenderedHandler", err)
	}
	return ctx.JSON(http.StatusOK, successResponse{Success: true, Message: "rendered image stored"})
}

func (service *APIService) downloadHandler(ctx echo.Context) error {
	sessionID := ctx.Param("sessionID")

	imageData, err := service.coreService.DownloadImage(ctx.Request().Context(), sessionID)
	if err != nil {
		return writeError(ctx, "downloadHandler", err)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="processed_%s.jpg"`, sessionID))
	return ctx.Blob(http.StatusOK, "image/jpeg", imageData)
}

func (service *APIService) infoHandler(ctx echo.Context) error {
	sessionID := ctx.Param("sessionID")
	meta, err := service.coreService.ImageInfo(ctx.Request().Context(), sessionID)
	if err != nil {
		return writeError(ctx, "infoHandler", err)
	}
	return ctx.JSON(http.StatusOK, meta)
}

func (service *APIService) deleteSessionHandler(ctx echo.Context) error {
	sessionID := ctx.Param("sessionID")
	if err := service.coreService.DeleteSession(ctx.Request().Context(), sessionID); err != nil {
		return writeError(ctx, "deleteSessionHandler", err)
	}
	slog.Info("deleteSessionHandler: session deleted", "session_id", sessionID)
	return ctx.JSON(http.StatusOK, successResponse{Success: true, Message: "session deleted"})
}

// readUpload extracts a multipart image field, enforcing the size limit.
// On failure it writes the error response itself and reports ok=false.
func (service *APIService) readUpload(ctx echo.Context, field, handlerName string) ([]byte, *multipart.FileHeader, bool) {
	file, err := ctx.FormFile(field)
	if err != nil {
		slog.Warn(handlerName+": missing image file", "status", http.StatusBadRequest, "error", err)
		_ = ctx.JSON(http.StatusBadRequest, errorResponse{Error: "no image file provided"})
		return nil, nil, false
	}
	if file.Size > maxUploadBytes {
		slog.Warn(handlerName+": file too large", "status", http.StatusBadRequest, "size", file.Size)
		_ = ctx.JSON(http.StatusBadRequest, errorResponse{Error: "image exceeds the 10MB size limit"})
		return nil, nil, false
	}

	data, err := readFormFile(file)
	if err != nil {
		slog.Error(handlerName+": failed to read uploaded file",
			"status", http.StatusInternalServerError, "error", err, "filename", file.Filename)
		_ = ctx.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return nil, nil, false
	}
	return data, file, true
}

func readFormFile(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			slog.Error("readFormFile: failed to close uploaded file reader", "error", cerr)
		}
	}()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(data) > maxUploadBytes {
		return nil, fmt.Errorf("uploaded file exceeds size limit")
	}
	return data, nil
}
