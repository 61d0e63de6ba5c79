package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openlancer/openlancer-backend/internal/auth"
	"github.com/openlancer/openlancer-backend/internal/form"
	"github.com/openlancer/openlancer-backend/internal/models"
	"github.com/openlancer/openlancer-backend/internal/services"
)

const profileFormType = "freelancer-profile"

// maxSubmissionBytes bounds the in-memory portion of a multipart submission.
const maxSubmissionBytes = 32 << 20

type handlers struct {
	submissions *services.SubmissionService
	drafts      form.DraftStore
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// submitProfile decodes the multipart transfer payload and delegates to the
// submission action. The response body is always the SubmissionResult
// contract; media attachment is never part of it.
func (h *handlers) submitProfile(c *gin.Context) {
	payload, err := parseSubmissionForm(c)
	if err != nil {
		slog.Warn("Could not parse profile submission form.", "error", err)
		c.JSON(http.StatusBadRequest, &models.SubmissionResult{
			Success: false,
			Message: "Could not parse the submitted form.",
		})
		return
	}

	result := h.submissions.Submit(c.Request.Context(), payload)
	c.JSON(http.StatusOK, result)
}

func (h *handlers) profileByID(c *gin.Context) {
	profile, err := h.submissions.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		slog.Error("Failed to fetch profile.", "profileId", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// loadDraft returns the caller's persisted draft snapshot, or null when none
// exists. Clients call this once at form mount.
func (h *handlers) loadDraft(c *gin.Context) {
	identity := auth.FromContext(c.Request.Context())
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	snapshot, err := h.drafts.Load(c.Request.Context(), form.DraftKey(profileFormType, identity.UserID))
	if err != nil {
		slog.Error("Failed to load draft.", "userId", identity.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load draft"})
		return
	}
	if snapshot == nil {
		c.Data(http.StatusOK, "application/json", []byte("null"))
		return
	}
	c.Data(http.StatusOK, "application/json", snapshot)
}

func (h *handlers) saveDraft(c *gin.Context) {
	identity := auth.FromContext(c.Request.Context())
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	snapshot, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSubmissionBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read draft body"})
		return
	}
	if err := h.drafts.Save(c.Request.Context(), form.DraftKey(profileFormType, identity.UserID), snapshot); err != nil {
		slog.Error("Failed to save draft.", "userId", identity.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save draft"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) deleteDraft(c *gin.Context) {
	identity := auth.FromContext(c.Request.Context())
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	if err := h.drafts.Delete(c.Request.Context(), form.DraftKey(profileFormType, identity.UserID)); err != nil {
		slog.Error("Failed to delete draft.", "userId", identity.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete draft"})
		return
	}
	c.Status(http.StatusNoContent)
}
