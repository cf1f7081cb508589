package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/manasranjandas/portfolio-go/internal/archive"
	"github.com/manasranjandas/portfolio-go/internal/chatbot"
	"github.com/manasranjandas/portfolio-go/internal/config"
	domerrors "github.com/manasranjandas/portfolio-go/internal/errors"
	"github.com/manasranjandas/portfolio-go/internal/sentry"
	"github.com/manasranjandas/portfolio-go/internal/storage"
)

// MaxQueryBytes caps the chat query size.
const MaxQueryBytes = 2000

const serviceBanner = "Contact backend is running ✅"

func (a *Application) rootBanner(c *gin.Context) {
	c.String(http.StatusOK, serviceBanner)
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func (a *Application) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), config.StorePing)
	defer cancel()

	if err := a.store.Ping(ctx); err != nil {
		a.logger.WithError(err).Warn("Readiness check failed: storage unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "storage unavailable",
		})
		return
	}

	body := gin.H{
		"status":  "ready",
		"storage": a.store.Backend(),
		"profile": a.responder.Profile().Stats(),
		"corpus":  len(a.responder.Documents()),
		"archive": a.archiver != nil,
	}
	if n, err := a.store.Count(ctx); err == nil {
		body["messages"] = n
	} else {
		a.logger.WithError(err).Warn("Failed to count messages for readiness")
	}
	c.JSON(http.StatusOK, body)
}

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	Intent chatbot.Intent `json:"intent"`
	Lines  []string       `json:"lines"`
	Reply  string         `json:"reply"`
}

func (a *Application) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.metrics.RecordHTTPError("bad_request", "chat")
		abortWithError(c, domerrors.ErrInvalidInput, "Invalid request body")
		return
	}
	if len(req.Query) > MaxQueryBytes {
		a.metrics.RecordHTTPError("query_too_long", "chat")
		abortWithError(c, domerrors.NewValidationError("query", "Query is too long"),
			fmt.Sprintf("Query must be at most %d bytes", MaxQueryBytes))
		return
	}

	start := time.Now()
	reply := a.responder.Answer(req.Query)
	a.metrics.RecordChat(string(reply.Intent), len(reply.Lines), time.Since(start).Seconds())

	c.JSON(http.StatusOK, chatResponse{
		Intent: reply.Intent,
		Lines:  reply.Lines,
		Reply:  reply.Text(),
	})
}

func (a *Application) handleContact(c *gin.Context) {
	var sub storage.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		a.metrics.RecordContact("invalid")
		abortWithError(c, domerrors.ErrMissingFields, "Missing fields")
		return
	}

	clean, err := storage.Sanitize(sub)
	if err != nil {
		status := "invalid"
		message := domerrors.GetUserMessage(err)
		if errors.Is(err, domerrors.ErrMissingFields) {
			status = "missing_fields"
			message = "Missing fields"
		}
		a.metrics.RecordContact(status)
		abortWithError(c, err, message)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), config.RequestProcessing)
	defer cancel()

	msg := storage.NewMessage(clean, a.now())
	if err := a.store.Save(ctx, msg); err != nil {
		a.metrics.RecordContact("error")
		a.metrics.RecordHTTPError("store", "contact")
		a.logger.WithError(err).ErrorContext(ctx, "Failed to save contact message")
		sentry.CaptureException(ctx, err, c.Request)
		abortWithError(c, err, "Server error")
		return
	}

	a.metrics.RecordContact("success")
	a.logger.WithField("message_id", msg.ID).InfoContext(ctx, "Contact message saved")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *Application) handleListMessages(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), config.RequestProcessing)
	defer cancel()

	msgs, err := a.store.List(ctx)
	if err != nil {
		a.adminFailure(c, "list", err, "Server error")
		return
	}
	a.metrics.RecordAdmin("list", "success")
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": msgs})
}

func (a *Application) handleDeleteMessages(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), config.RequestProcessing)
	defer cancel()

	ts := c.Param("timestamp")
	deleted, err := a.store.DeleteByTimestamp(ctx, ts)
	if err != nil {
		a.adminFailure(c, "delete", err, "Server error")
		return
	}

	a.metrics.RecordAdmin("delete", "success")
	a.logger.WithField("timestamp", ts).
		WithField("deleted", deleted).
		InfoContext(ctx, "Admin deleted messages")
	a.refreshStoredMessages(ctx)
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": deleted})
}

func (a *Application) handleExportMessages(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), config.ArchiveUpload)
	defer cancel()

	res, err := a.archiver.Export(ctx, archive.TriggerManual)
	switch {
	case errors.Is(err, domerrors.ErrArchiveDisabled):
		a.adminFailure(c, "export", err, "Archiving is not configured")
		return
	case errors.Is(err, archive.ErrBusy):
		a.metrics.RecordAdmin("export", "conflict")
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusConflict, errorBody("An export is already running"))
		return
	case err != nil:
		a.adminFailure(c, "export", err, "Server error")
		return
	}

	a.metrics.RecordAdmin("export", "success")
	c.JSON(http.StatusOK, gin.H{"success": true, "key": res.Key, "count": res.Count})
}

func (a *Application) handleListArchives(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), config.RequestProcessing)
	defer cancel()

	archives, err := a.archiver.List(ctx)
	if err != nil {
		a.adminFailure(c, "list_archives", err, adminMessage(err))
		return
	}
	a.metrics.RecordAdmin("list_archives", "success")
	c.JSON(http.StatusOK, gin.H{"success": true, "archives": archives})
}

func (a *Application) handleDownloadArchive(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), config.ArchiveUpload)
	defer cancel()

	key := c.Param("key")
	rc, err := a.archiver.Open(ctx, key)
	if err != nil {
		a.adminFailure(c, "download_archive", err, adminMessage(err))
		return
	}
	defer func() { _ = rc.Close() }()

	a.metrics.RecordAdmin("download_archive", "success")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, archiveFilename(key)))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		a.logger.WithError(err).WarnContext(ctx, "Archive download interrupted")
	}
}

func (a *Application) adminFailure(c *gin.Context, op string, err error, message string) {
	status := domerrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		a.logger.WithError(err).WithField("operation", op).ErrorContext(c.Request.Context(), "Admin operation failed")
		sentry.CaptureException(c.Request.Context(), err, c.Request)
	}
	a.metrics.RecordAdmin(op, "error")
	abortWithError(c, err, message)
}

func adminMessage(err error) string {
	switch {
	case errors.Is(err, domerrors.ErrArchiveDisabled):
		return "Archiving is not configured"
	case errors.Is(err, domerrors.ErrNotFound):
		return "Archive not found"
	default:
		return "Server error"
	}
}

// adminOperation names the admin route for metrics.
func adminOperation(c *gin.Context) string {
	switch c.FullPath() {
	case "/api/admin/messages":
		return "list"
	case "/api/admin/messages/:timestamp":
		return "delete"
	case "/api/admin/messages/export":
		return "export"
	case "/api/admin/archives":
		return "list_archives"
	case "/api/admin/archives/*key":
		return "download_archive"
	default:
		return "unknown"
	}
}

func archiveFilename(key string) string {
	return strings.TrimSuffix(path.Base(key), ".zst")
}
