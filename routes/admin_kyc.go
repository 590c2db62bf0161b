package routes

import (
	"strings"
	"time"

	"new-rent-server/models"
	"new-rent-server/storage"
	"new-rent-server/utils"

	"github.com/kataras/iris/v12"
)

// GET /admin/kyc — all pending document submissions, newest first, each
// joined with its owning user.
func AdminListPendingKYC(ctx iris.Context) {
	var docs []models.KYCDocument
	if err := storage.DB.Preload("User").
		Where("status = ?", models.KYCStatusPending).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	ctx.JSON(iris.Map{
		"data":  docs,
		"meta":  iris.Map{"total": len(docs)},
		"links": iris.Map{},
	})
}

// POST /admin/kyc/{id}/approve — approves the document and flips the owner's
// profile gate. The two writes are independent and each idempotent: reapplying
// approve to an already-approved document re-asserts the profile flag without
// touching the review stamps, so a retry repairs any partial failure.
func AdminApproveKYCDocument(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	reviewerID := ctx.Values().Get("userID").(uint)

	var doc models.KYCDocument
	if err := storage.DB.First(&doc, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "document not found")
		return
	}

	alreadyApproved := doc.Status == models.KYCStatusApproved
	before := doc

	if !alreadyApproved {
		now := time.Now()
		doc.Status = models.KYCStatusApproved
		doc.ReviewedAt = &now
		doc.ReviewedBy = &reviewerID
		if err := storage.DB.Save(&doc).Error; err != nil {
			utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
			return
		}
	}

	if err := storage.DB.Model(&models.User{}).Where("id = ?", doc.UserID).
		Update("kyc_status", models.KYCStatusApproved).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	if !alreadyApproved {
		utils.Audit(ctx, "kyc.document.approve", "kyc_document", doc.ID, before, doc)
	}
	ctx.JSON(iris.Map{"data": iris.Map{"document": doc}})
}

// POST /admin/kyc/{id}/reject — marks the document rejected with a mandatory
// reason. This does NOT flip the profile's kyc_status: the user may resubmit,
// and terminal profile rejection is a separate explicit admin action
// (AdminSetUserKYCStatus).
func AdminRejectKYCDocument(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	reviewerID := ctx.Values().Get("userID").(uint)

	var body RejectKYCDocumentInput
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if strings.TrimSpace(body.RejectionReason) == "" {
		utils.JSONError(ctx, iris.StatusUnprocessableEntity, "invalid_payload", "rejection reason is required")
		return
	}

	var doc models.KYCDocument
	if err := storage.DB.First(&doc, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "document not found")
		return
	}

	before := doc
	now := time.Now()
	doc.Status = models.KYCStatusRejected
	doc.RejectionReason = body.RejectionReason
	doc.ReviewedAt = &now
	doc.ReviewedBy = &reviewerID
	if err := storage.DB.Save(&doc).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "kyc.document.reject", "kyc_document", doc.ID, before, doc)
	ctx.JSON(iris.Map{"data": iris.Map{"document": doc}})
}

type RejectKYCDocumentInput struct {
	RejectionReason string `json:"rejectionReason"`
}
