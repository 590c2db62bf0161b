package routes

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"new-rent-server/models"
	"new-rent-server/storage"
	"new-rent-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// GetKYCState returns everything the onboarding screen needs: the document
// history (newest first), the verification record if any, and the stage
// derived from those rows. The stage is never stored; recomputing it on every
// load is what lets a second device resume at the right step.
func GetKYCState(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	docs, verification, err := loadKYCRecords(userID)
	if err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	stage := models.ResolveKYCStage(user.KYCStatus, docs, verification)

	res := iris.Map{
		"stage":        stage,
		"kycStatus":    user.KYCStatus,
		"documents":    docs,
		"verification": verification,
		"canHost":      models.CanHost(user),
	}
	if stage == models.KYCStageRejected && len(docs) > 0 && docs[0].RejectionReason != "" {
		res["rejectionReason"] = docs[0].RejectionReason
	}
	ctx.JSON(res)
}

// SubmitKYCDocument records a new identity document with status pending and
// stamps the profile's submission time. It does not advance the visible
// stage: the video step opens only after an admin approves a document.
func SubmitKYCDocument(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input SubmitKYCDocumentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	documentURL := input.DocumentURL
	if documentURL == "" {
		// Raw base64 payload; push it through the upload collaborator first.
		url, err := storage.UploadBase64(storage.ResourceRaw, input.Data, kycPublicID(userID, "document"), input.Mime)
		if err != nil {
			utils.JSONError(ctx, iris.StatusBadGateway, "upload_failed", err.Error())
			return
		}
		documentURL = url
	}

	fileName := input.FileName
	if fileName == "" {
		if i := strings.LastIndex(documentURL, "/"); i != -1 {
			fileName = documentURL[i+1:]
		}
	}

	doc := models.KYCDocument{
		UserID:       userID,
		DocumentType: input.DocumentType,
		DocumentURL:  documentURL,
		FileName:     fileName,
		Status:       models.KYCStatusPending,
	}
	if err := storage.DB.Create(&doc).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	now := time.Now()
	if err := storage.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("kyc_submitted_at", &now).Error; err != nil {
		// The document row is already durable; retrying the submit is safe and
		// will re-stamp the profile.
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	respondWithKYCState(ctx, userID, iris.Map{"document": doc})
}

// SubmitKYCVideo stores the self-video URL on the per-user verification
// record, creating it on first use.
func SubmitKYCVideo(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input SubmitKYCVideoInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	videoURL := input.VideoURL
	if videoURL == "" {
		url, err := storage.UploadBase64(storage.ResourceVideo, input.Data, kycPublicID(userID, "video"), input.Mime)
		if err != nil {
			utils.JSONError(ctx, iris.StatusBadGateway, "upload_failed", err.Error())
			return
		}
		videoURL = url
	}

	verification, err := getOrCreateVerification(userID)
	if err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	now := time.Now()
	verification.VideoURL = videoURL
	verification.VideoUploadedAt = &now
	verification.VerificationStatus = models.VerificationStatusInReview
	if err := storage.DB.Save(verification).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	respondWithKYCState(ctx, userID, iris.Map{"verification": verification})
}

// SendPhoneCode stores the normalized phone number on the profile and a fresh
// 6-digit code on the verification record. Delivery is stubbed: the code is
// returned in the response, where a real deployment would hand it to an SMS
// provider instead.
func SendPhoneCode(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input SendPhoneCodeInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	phone, err := utils.NormalizePhoneNumber(input.PhoneNumber)
	if err != nil {
		utils.CreateError(iris.StatusUnprocessableEntity, "Validation Error", "Invalid phone number.", ctx)
		return
	}

	if err := storage.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("phone_number", phone).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	code, err := utils.GenerateVerificationCode()
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	verification, err := getOrCreateVerification(userID)
	if err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	now := time.Now()
	verification.PhoneVerificationCode = code
	verification.PhoneCodeSentAt = &now
	verification.VerificationStatus = models.VerificationStatusInReview
	if err := storage.DB.Save(verification).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	ctx.JSON(iris.Map{
		"codeSent":    true,
		"phoneNumber": phone,
		// SMS delivery is out of scope; surface the code directly.
		"verificationCode": code,
	})
}

// VerifyPhoneCode compares the submitted code byte for byte against the
// stored one. A mismatch is a validation error with no state change and may
// be retried indefinitely; there is deliberately no lockout or rate limit.
func VerifyPhoneCode(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input VerifyPhoneCodeInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	verification, err := loadVerification(userID)
	if err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if verification == nil || verification.PhoneVerificationCode == "" {
		utils.CreateError(iris.StatusUnprocessableEntity, "Validation Error", "No verification code was sent.", ctx)
		return
	}

	if input.Code != verification.PhoneVerificationCode {
		utils.CreateError(iris.StatusUnprocessableEntity, "Validation Error", "Invalid verification code.", ctx)
		return
	}

	// Two independent writes, no transaction; each is idempotent so a retry
	// after a partial failure converges.
	if verification.PhoneCodeVerifiedAt == nil {
		now := time.Now()
		verification.PhoneCodeVerifiedAt = &now
		verification.VerificationStatus = models.VerificationStatusInReview
		if err := storage.DB.Save(verification).Error; err != nil {
			utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
			return
		}
	}

	now := time.Now()
	verified := true
	if err := storage.DB.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"phone_verified":    &verified,
			"phone_verified_at": &now,
		}).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	respondWithKYCState(ctx, userID, iris.Map{"verified": true})
}

// loadKYCRecords fetches the document history (newest first) and the optional
// verification record for a user.
func loadKYCRecords(userID uint) ([]models.KYCDocument, *models.KYCVerification, error) {
	var docs []models.KYCDocument
	if err := storage.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, nil, err
	}

	verification, err := loadVerification(userID)
	if err != nil {
		return nil, nil, err
	}
	return docs, verification, nil
}

func loadVerification(userID uint) (*models.KYCVerification, error) {
	var verification models.KYCVerification
	err := storage.DB.Where("user_id = ?", userID).First(&verification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &verification, nil
}

// getOrCreateVerification is the single mutation entry point for the
// per-user verification record. The unique index on user_id makes the
// create-if-absent race-safe: a concurrent insert loses and the winner's row
// is read back by the retrying request.
func getOrCreateVerification(userID uint) (*models.KYCVerification, error) {
	var verification models.KYCVerification
	err := storage.DB.
		Where(models.KYCVerification{UserID: userID}).
		Attrs(models.KYCVerification{VerificationStatus: models.VerificationStatusPending}).
		FirstOrCreate(&verification).Error
	if err != nil {
		return nil, err
	}
	return &verification, nil
}

// respondWithKYCState re-reads stored state and responds with the derived
// stage merged into extra, so the client never has to track progress itself.
func respondWithKYCState(ctx iris.Context, userID uint, extra iris.Map) {
	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}
	docs, verification, err := loadKYCRecords(userID)
	if err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	res := iris.Map{
		"stage":        models.ResolveKYCStage(user.KYCStatus, docs, verification),
		"documents":    docs,
		"verification": verification,
	}
	for k, v := range extra {
		res[k] = v
	}
	ctx.JSON(res)
}

func kycPublicID(userID uint, kind string) string {
	return "kyc/" + strconv.FormatUint(uint64(userID), 10) + "/" + kind
}

type SubmitKYCDocumentInput struct {
	DocumentType string `json:"documentType" validate:"required,oneof=passport drivers_license national_id other"`
	DocumentURL  string `json:"documentURL" validate:"omitempty,url"`
	Data         string `json:"data"` // base64 payload when no URL is provided
	Mime         string `json:"mime"`
	FileName     string `json:"fileName"`
}

type SubmitKYCVideoInput struct {
	VideoURL string `json:"videoURL" validate:"omitempty,url"`
	Data     string `json:"data"`
	Mime     string `json:"mime"`
}

type SendPhoneCodeInput struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

type VerifyPhoneCodeInput struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}
