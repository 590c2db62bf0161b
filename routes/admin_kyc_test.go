package routes

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"new-rent-server/models"
	"new-rent-server/storage"

	"github.com/kataras/iris/v12"
)

func seedPendingDocument(t *testing.T, userID uint, docType string) models.KYCDocument {
	t.Helper()
	doc := models.KYCDocument{
		UserID:       userID,
		DocumentType: docType,
		DocumentURL:  "https://cdn.example/" + docType + ".png",
		Status:       models.KYCStatusPending,
	}
	if err := storage.DB.Create(&doc).Error; err != nil {
		t.Fatalf("seed document: %v", err)
	}
	return doc
}

func TestAdminApproveIsIdempotent(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)
	user := createTestUser(t, "applicant@example.com", "user", models.KYCStatusPending)
	admin := createTestUser(t, "reviewer@example.com", "admin", models.KYCStatusApproved)
	adminToken := signTestToken(admin.ID, "admin")
	doc := seedPendingDocument(t, user.ID, "passport")

	path := "/api/admin/kyc/documents/" + strconv.Itoa(int(doc.ID)) + "/approve"

	resp := doJSON(t, app, http.MethodPost, path, adminToken, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("first approve: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var approved models.KYCDocument
	storage.DB.First(&approved, doc.ID)
	if approved.Status != models.KYCStatusApproved {
		t.Fatalf("document status = %q, want approved", approved.Status)
	}
	if approved.ReviewedAt == nil || approved.ReviewedBy == nil || *approved.ReviewedBy != admin.ID {
		t.Fatal("review stamps missing after approve")
	}
	firstReviewedAt := *approved.ReviewedAt

	var owner models.User
	storage.DB.First(&owner, user.ID)
	if owner.KYCStatus != models.KYCStatusApproved {
		t.Fatalf("profile kyc_status = %q, want approved", owner.KYCStatus)
	}

	// Simulate a partial failure: the document write landed but the profile
	// flag did not. A retried approve must repair it without touching stamps.
	storage.DB.Model(&models.User{}).Where("id = ?", user.ID).
		Update("kyc_status", models.KYCStatusPending)

	resp = doJSON(t, app, http.MethodPost, path, adminToken, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("retried approve: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	storage.DB.First(&approved, doc.ID)
	if !approved.ReviewedAt.Equal(firstReviewedAt) {
		t.Fatal("retry overwrote reviewed_at on an already-approved document")
	}
	storage.DB.First(&owner, user.ID)
	if owner.KYCStatus != models.KYCStatusApproved {
		t.Fatalf("retry did not repair profile kyc_status, got %q", owner.KYCStatus)
	}

	// Only the first approve is audited.
	var audits int64
	storage.DB.Model(&models.AuditLog{}).
		Where("action = ? AND resource_id = ?", "kyc.document.approve", doc.ID).
		Count(&audits)
	if audits != 1 {
		t.Fatalf("audit entries = %d, want 1", audits)
	}
}

func TestAdminRejectRequiresReason(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)
	user := createTestUser(t, "applicant2@example.com", "user", models.KYCStatusPending)
	admin := createTestUser(t, "reviewer2@example.com", "admin", models.KYCStatusApproved)
	adminToken := signTestToken(admin.ID, "admin")
	doc := seedPendingDocument(t, user.ID, "drivers_license")

	path := "/api/admin/kyc/documents/" + strconv.Itoa(int(doc.ID)) + "/reject"

	for _, reason := range []string{"", "   "} {
		resp := doJSON(t, app, http.MethodPost, path, adminToken, iris.Map{"rejectionReason": reason})
		if resp.Code != http.StatusUnprocessableEntity {
			t.Fatalf("reason %q: expected 422, got %d: %s", reason, resp.Code, resp.Body.String())
		}
	}

	// Nothing was written.
	var reloaded models.KYCDocument
	storage.DB.First(&reloaded, doc.ID)
	if reloaded.Status != models.KYCStatusPending {
		t.Fatalf("document status = %q, want pending after refused rejects", reloaded.Status)
	}
	if reloaded.ReviewedAt != nil {
		t.Fatal("refused reject must not stamp reviewed_at")
	}
}

func TestAdminRejectDoesNotFlipProfile(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)
	user := createTestUser(t, "applicant3@example.com", "user", models.KYCStatusPending)
	admin := createTestUser(t, "reviewer3@example.com", "admin", models.KYCStatusApproved)
	adminToken := signTestToken(admin.ID, "admin")
	doc := seedPendingDocument(t, user.ID, "national_id")

	path := "/api/admin/kyc/documents/" + strconv.Itoa(int(doc.ID)) + "/reject"
	resp := doJSON(t, app, http.MethodPost, path, adminToken, iris.Map{
		"rejectionReason": "photo does not match",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var rejected models.KYCDocument
	storage.DB.First(&rejected, doc.ID)
	if rejected.Status != models.KYCStatusRejected {
		t.Fatalf("document status = %q, want rejected", rejected.Status)
	}
	if rejected.RejectionReason != "photo does not match" {
		t.Fatalf("rejection reason = %q", rejected.RejectionReason)
	}

	// Document rejection leaves the profile open for resubmission; the terminal
	// profile flag is a separate admin action.
	var owner models.User
	storage.DB.First(&owner, user.ID)
	if owner.KYCStatus != models.KYCStatusPending {
		t.Fatalf("profile kyc_status = %q, document reject must not change it", owner.KYCStatus)
	}
}

func TestAdminPendingListNewestFirst(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)
	user := createTestUser(t, "applicant4@example.com", "user", models.KYCStatusPending)
	admin := createTestUser(t, "reviewer4@example.com", "admin", models.KYCStatusApproved)
	adminToken := signTestToken(admin.ID, "admin")

	older := seedPendingDocument(t, user.ID, "passport")
	storage.DB.Model(&older).Update("created_at", time.Now().Add(-time.Hour))
	newer := seedPendingDocument(t, user.ID, "national_id")

	// Approved and rejected documents stay out of the queue.
	done := seedPendingDocument(t, user.ID, "other")
	storage.DB.Model(&done).Update("status", models.KYCStatusApproved)

	resp := doJSON(t, app, http.MethodGet, "/api/admin/kyc/documents", adminToken, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	body := decodeBody(t, resp)
	data, ok := body["data"].([]interface{})
	if !ok || len(data) != 2 {
		t.Fatalf("data = %v, want 2 pending documents", body["data"])
	}
	first := data[0].(map[string]interface{})
	if uint(first["id"].(float64)) != newer.ID {
		t.Fatalf("first document id = %v, want newest %d", first["id"], newer.ID)
	}
	if first["user"].(map[string]interface{})["email"] != user.Email {
		t.Fatal("pending entries must be joined with their owning user")
	}
}

func TestAdminSetUserKYCStatus(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)
	user := createTestUser(t, "applicant5@example.com", "user", models.KYCStatusPending)
	admin := createTestUser(t, "reviewer5@example.com", "admin", models.KYCStatusApproved)
	adminToken := signTestToken(admin.ID, "admin")

	path := "/api/admin/users/" + strconv.Itoa(int(user.ID)) + "/kyc"

	resp := doJSON(t, app, http.MethodPost, path, adminToken, iris.Map{"status": "banana"})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown status, got %d", resp.Code)
	}

	resp = doJSON(t, app, http.MethodPost, path, adminToken, iris.Map{"status": models.KYCStatusRejected})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var reloaded models.User
	storage.DB.First(&reloaded, user.ID)
	if reloaded.KYCStatus != models.KYCStatusRejected {
		t.Fatalf("kyc_status = %q, want rejected", reloaded.KYCStatus)
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)
	user := createTestUser(t, "plain@example.com", "user", models.KYCStatusPending)
	userToken := signTestToken(user.ID, "user")

	resp := doJSON(t, app, http.MethodGet, "/api/admin/kyc/documents", userToken, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", resp.Code)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/admin/kyc/documents", "", nil)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/admin/users", userToken, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin on user list, got %d", resp.Code)
	}
}
