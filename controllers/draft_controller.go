package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vibelink-events/vibelink-api/catalog"
	"github.com/vibelink-events/vibelink-api/config"
	"github.com/vibelink-events/vibelink-api/services"
	"github.com/vibelink-events/vibelink-api/wizard"
	"go.uber.org/zap"
)

const (
	NavigateNext = "next"
	NavigatePrev = "prev"
	NavigateGoTo = "goto"
)

// NavigateRequest moves a draft between wizard steps
type NavigateRequest struct {
	Action string      `json:"action" binding:"required,oneof=next prev goto"`
	Step   wizard.Step `json:"step"`
}

// SubmitDraftRequest carries what a draft submission needs beyond the form itself
type SubmitDraftRequest struct {
	CaptchaToken string `json:"captcha_token"`
	ReferralCode string `json:"referral_code"`
}

func draftView(ctx context.Context, w *wizard.Wizard) gin.H {
	return gin.H{
		"draft":                w,
		"progress":             w.Progress(),
		"quote":                w.FormData.Quote(),
		"reference_image_urls": services.ResolveImageURLs(ctx, services.GetImageService(), w.FormData.ReferenceImages),
	}
}

// loadDraft fetches the draft named by the :id parameter, writing the error response on failure
func loadDraft(c *gin.Context) (*wizard.Wizard, bool) {
	store := wizard.GetDraftStore()
	if store == nil {
		respondError(c, http.StatusServiceUnavailable, "DRAFTS_UNAVAILABLE", "Draft storage is not configured")
		return nil, false
	}

	w, err := store.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to load draft")
		return nil, false
	}
	return w, true
}

func saveDraft(c *gin.Context, w *wizard.Wizard, status int) {
	if err := wizard.GetDraftStore().Save(c.Request.Context(), w); err != nil {
		respondServiceError(c, err, "Failed to save draft")
		return
	}
	respondData(c, status, draftView(c.Request.Context(), w))
}

// CreateDraft handles POST /api/v1/drafts - starts a new wizard draft
func CreateDraft(c *gin.Context) {
	if wizard.GetDraftStore() == nil {
		respondError(c, http.StatusServiceUnavailable, "DRAFTS_UNAVAILABLE", "Draft storage is not configured")
		return
	}

	w := wizard.New(uuid.NewString())

	// an initial patch is optional
	if c.Request.ContentLength > 0 {
		var patch wizard.FormPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			respondBindError(c, err)
			return
		}
		w.UpdateFormData(patch)
	}

	saveDraft(c, w, http.StatusCreated)
}

// GetDraft handles GET /api/v1/drafts/:id
func GetDraft(c *gin.Context) {
	w, ok := loadDraft(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, draftView(c.Request.Context(), w))
}

// UpdateDraft handles PATCH /api/v1/drafts/:id - merges a partial form update
func UpdateDraft(c *gin.Context) {
	w, ok := loadDraft(c)
	if !ok {
		return
	}

	var patch wizard.FormPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}
	w.UpdateFormData(patch)

	saveDraft(c, w, http.StatusOK)
}

// NavigateDraft handles POST /api/v1/drafts/:id/navigate
func NavigateDraft(c *gin.Context) {
	w, ok := loadDraft(c)
	if !ok {
		return
	}

	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	switch req.Action {
	case NavigateNext:
		if _, err := w.NextStep(); err != nil {
			respondServiceError(c, err, "Failed to change step")
			return
		}
	case NavigatePrev:
		w.PrevStep()
	case NavigateGoTo:
		if err := w.GoToStep(req.Step); err != nil {
			respondServiceError(c, err, "Failed to change step")
			return
		}
	}

	saveDraft(c, w, http.StatusOK)
}

// ToggleDraftAddOn handles POST /api/v1/drafts/:id/add-ons/:addOnId - selects the
// add-on when absent and deselects it when present
func ToggleDraftAddOn(c *gin.Context) {
	w, ok := loadDraft(c)
	if !ok {
		return
	}

	addOnID := c.Param("addOnId")
	if _, found := catalog.FindAddOn(addOnID); !found {
		respondError(c, http.StatusNotFound, "ADD_ON_NOT_FOUND", "Add-on not found")
		return
	}
	w.ToggleAddOn(addOnID)

	saveDraft(c, w, http.StatusOK)
}

// UploadDraftImage handles POST /api/v1/drafts/:id/images - attaches one reference image
func UploadDraftImage(c *gin.Context) {
	w, ok := loadDraft(c)
	if !ok {
		return
	}

	if len(w.FormData.ReferenceImages) >= wizard.MaxReferenceImages {
		respondServiceError(c, wizard.ErrTooManyImages, "Failed to add image")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "An image file is required")
		return
	}

	images := services.GetImageService()
	if images == nil {
		respondError(c, http.StatusServiceUnavailable, "UPLOADS_UNAVAILABLE", "Image uploads are not configured")
		return
	}

	key, err := images.UploadImage(c.Request.Context(), fileHeader)
	if err != nil {
		respondServiceError(c, err, "Failed to upload image")
		return
	}

	if err := w.AddReferenceImage(key); err != nil {
		respondServiceError(c, err, "Failed to add image")
		return
	}

	saveDraft(c, w, http.StatusOK)
}

// DeleteDraftImage handles DELETE /api/v1/drafts/:id/images?key= - detaches and deletes a reference image
func DeleteDraftImage(c *gin.Context) {
	w, ok := loadDraft(c)
	if !ok {
		return
	}

	key := c.Query("key")
	if !w.RemoveReferenceImage(key) {
		respondError(c, http.StatusNotFound, "IMAGE_NOT_FOUND", "Image is not attached to this draft")
		return
	}

	if images := services.GetImageService(); images != nil {
		if err := images.DeleteImage(c.Request.Context(), key); err != nil {
			config.GetLogger().Warn("Failed to delete draft image", zap.String("key", key), zap.Error(err))
		}
	}

	saveDraft(c, w, http.StatusOK)
}

// SubmitDraft handles POST /api/v1/drafts/:id/submit - turns a finished draft into an order
func SubmitDraft(c *gin.Context) {
	w, ok := loadDraft(c)
	if !ok {
		return
	}

	var req SubmitDraftRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	if err := w.ValidateForSubmission(); err != nil {
		respondServiceError(c, err, "Failed to submit order")
		return
	}

	result, err := orderService().Submit(c.Request.Context(), services.SubmitRequest{
		Form:         w.FormData,
		CaptchaToken: req.CaptchaToken,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to submit order")
		return
	}

	if err := wizard.GetDraftStore().Delete(c.Request.Context(), w.ID); err != nil {
		config.GetLogger().Warn("Failed to delete submitted draft", zap.String("draft_id", w.ID), zap.Error(err))
	}

	respondData(c, http.StatusCreated, gin.H{
		"order":         services.PresentOrder(c.Request.Context(), services.GetImageService(), *result.Order),
		"quote":         result.Quote,
		"whatsapp_url":  result.WhatsAppURL,
		"failed_images": result.FailedImages,
	})
}
