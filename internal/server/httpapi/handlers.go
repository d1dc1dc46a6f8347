// Package httpapi exposes the collaborator endpoints around the ingestion
// core: presigned-upload issuance, thumbnail listing, the event webhook,
// and health. All responses are JSON with permissive CORS; caller input
// errors map to 400, internal failures to 500 with the diagnostic in the
// body (an internal-facing surface, not a security boundary).
package httpapi

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/photoshare/internal/logging"
	"github.com/dmitrijs2005/photoshare/internal/server/codec"
	"github.com/dmitrijs2005/photoshare/internal/server/config"
	"github.com/dmitrijs2005/photoshare/internal/server/pipeline"
	"github.com/dmitrijs2005/photoshare/internal/server/storage"
	"github.com/dmitrijs2005/photoshare/internal/server/trigger"
)

type Handler struct {
	store      storage.ObjectStore
	dispatcher trigger.EventDispatcher
	cfg        *config.Config
	logger     logging.Logger
}

func NewHandler(store storage.ObjectStore, dispatcher trigger.EventDispatcher, cfg *config.Config, logger logging.Logger) *Handler {
	return &Handler{
		store:      store,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger.With("module", "httpapi"),
	}
}

// GetUploadURL issues a time-limited URL a client can PUT a JPEG to.
func (h *Handler) GetUploadURL(c *gin.Context) {
	filename := c.Query("filename")
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing filename query parameter"})
		return
	}

	url, err := h.store.PresignPut(c.Request.Context(), h.cfg.UploadBucket, filename, codec.MIMEType, h.cfg.PresignExpiry)
	if err != nil {
		h.logger.Error(c.Request.Context(), "presign failed", "filename", filename, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"uploadUrl": url})
}

// ListThumbnails returns the locator URLs of every stored thumbnail as a
// flat JSON array. No pagination, no filtering.
func (h *Handler) ListThumbnails(c *gin.Context) {
	keys, err := h.store.List(c.Request.Context(), h.cfg.ThumbnailBucket)
	if err != nil {
		h.logger.Error(c.Request.Context(), "list failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		urls = append(urls, pipeline.ObjectURL(h.cfg.ThumbnailBucket, h.cfg.StoreDomain, key))
	}

	c.JSON(http.StatusOK, urls)
}

// PostEvent ingests an S3 event notification over HTTP and fans it out to
// the pipeline. Unparseable payloads are the caller's fault (400); a record
// that could succeed on redelivery surfaces as 500 so the sender's retry
// policy can act.
func (h *Handler) PostEvent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read request body"})
		return
	}

	outcomes, err := h.dispatcher.Dispatch(c.Request.Context(), body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, out := range outcomes {
		if out.Retryable() {
			c.JSON(http.StatusInternalServerError, gin.H{"error": out.Diagnostic, "results": outcomes})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"results": outcomes})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
