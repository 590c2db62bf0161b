package routes

import (
	"strings"
	"time"

	"new-rent-server/models"
	"new-rent-server/storage"
	"new-rent-server/utils"

	"github.com/kataras/iris/v12"
)

// GET /admin/users?role=&kyc_status=&q=&page=&per_page=
func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	var users []models.User
	q := strings.TrimSpace(ctx.URLParamDefault("q", ""))
	role := strings.TrimSpace(ctx.URLParamDefault("role", ""))
	kycStatus := strings.TrimSpace(ctx.URLParamDefault("kyc_status", ""))

	query := storage.DB.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if kycStatus != "" {
		query = query.Where("kyc_status = ?", kycStatus)
	}
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(email) LIKE ?", like, like, like)
	}

	var total int64
	query.Count(&total)
	query = query.Offset((page - 1) * perPage).Limit(perPage)
	if err := query.Find(&users).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

// GET /admin/users/:id — full user info plus KYC history
func AdminGetUser(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "user not found")
		return
	}

	docs, verification, recordsErr := loadKYCRecords(user.ID)
	if recordsErr != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", recordsErr.Error())
		return
	}

	var actions []models.AuditLog
	storage.DB.Where("resource_type = ? AND resource_id = ?", "user", id).
		Order("created_at DESC").Limit(50).Find(&actions)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"user":         user,
			"documents":    docs,
			"verification": verification,
			"stage":        models.ResolveKYCStage(user.KYCStatus, docs, verification),
			"auditTrail":   actions,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

// PATCH /admin/users/:id/role
func AdminChangeUserRole(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := ctx.ReadJSON(&body); err != nil || (body.Role != "user" && body.Role != "admin") {
		utils.JSONError(ctx, iris.StatusUnprocessableEntity, "invalid_payload", "role must be user/admin")
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "user not found")
		return
	}

	before := user
	user.Role = body.Role
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "user.role_update", "user", user.ID, before, user)
	ctx.JSON(iris.Map{"data": user})
}

// POST /admin/users/:id/kyc { status } — the explicit profile-level KYC
// decision. This is deliberately separate from the per-document review panel:
// rejecting a single document does not flip this flag.
func AdminSetUserKYCStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var body struct {
		Status string `json:"status"` // pending, approved, rejected
	}
	if err := ctx.ReadJSON(&body); err != nil ||
		(body.Status != models.KYCStatusPending &&
			body.Status != models.KYCStatusApproved &&
			body.Status != models.KYCStatusRejected) {
		utils.JSONError(ctx, iris.StatusUnprocessableEntity, "invalid_payload", "status must be pending/approved/rejected")
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "user not found")
		return
	}

	before := user
	user.KYCStatus = body.Status
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "user.kyc_status", "user", user.ID, before, user)
	ctx.JSON(iris.Map{"data": user})
}

// GET /admin/products
func AdminListProducts(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := storage.DB.Model(&models.Product{}).Preload("Host").Preload("Category")
	if q := strings.TrimSpace(ctx.URLParamDefault("q", "")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(title) LIKE ? OR lower(location) LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	var products []models.Product
	if err := query.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&products).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, products, page, perPage, total)
}

// DELETE /admin/products/:id
func AdminDeleteProduct(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var product models.Product
	if err := storage.DB.First(&product, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "product not found")
		return
	}

	if err := storage.DB.Delete(&product).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "product.delete", "product", product.ID, product, nil)
	ctx.JSON(iris.Map{"data": iris.Map{"deleted": true}})
}

// GET /admin/rentals
func AdminListRentals(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := storage.DB.Model(&models.Rental{}).Preload("Product").Preload("Renter").Preload("Host")
	if status := strings.TrimSpace(ctx.URLParamDefault("status", "")); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var rentals []models.Rental
	if err := query.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&rentals).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, rentals, page, perPage, total)
}

// GET /admin/stats
func AdminStats(ctx iris.Context) {
	var totalUsers, totalProducts, totalRentals int64
	storage.DB.Model(&models.User{}).Count(&totalUsers)
	storage.DB.Model(&models.Product{}).Count(&totalProducts)
	storage.DB.Model(&models.Rental{}).Count(&totalRentals)

	var pendingKYCDocuments int64
	storage.DB.Model(&models.KYCDocument{}).Where("status = ?", models.KYCStatusPending).Count(&pendingKYCDocuments)

	since7 := time.Now().AddDate(0, 0, -7)
	since30 := time.Now().AddDate(0, 0, -30)
	var newRentals7, newRentals30 int64
	storage.DB.Model(&models.Rental{}).Where("created_at >= ?", since7).Count(&newRentals7)
	storage.DB.Model(&models.Rental{}).Where("created_at >= ?", since30).Count(&newRentals30)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"total_users":           totalUsers,
			"total_products":        totalProducts,
			"total_rentals":         totalRentals,
			"pending_kyc_documents": pendingKYCDocuments,
			"new_rentals_7d":        newRentals7,
			"new_rentals_30d":       newRentals30,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}
