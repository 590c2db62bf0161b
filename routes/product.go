package routes

import (
	"strconv"

	"new-rent-server/models"
	"new-rent-server/storage"
	"new-rent-server/utils"

	"github.com/kataras/iris/v12"
)

// CreateProduct lists a new item. Only users whose KYC has been approved may
// host; everyone else gets a 403 pointing at the verification flow.
func CreateProduct(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !models.CanHost(user) {
		utils.JSONError(ctx, iris.StatusForbidden, "kyc_required",
			"Complete KYC verification before listing products.")
		return
	}

	var input CreateProductInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	imageURL := input.ImageURL
	if imageURL == "" && input.ImageData != "" {
		url, err := storage.UploadBase64(storage.ResourceImage, input.ImageData, "", "")
		if err != nil {
			utils.JSONError(ctx, iris.StatusBadGateway, "upload_failed", err.Error())
			return
		}
		imageURL = url
	}

	available := true
	product := models.Product{
		HostID:      userID,
		Title:       input.Title,
		Description: input.Description,
		PricePerDay: input.PricePerDay,
		ImageURL:    imageURL,
		Location:    input.Location,
		LocationURL: input.LocationURL,
		IsAvailable: &available,
	}
	if input.CategoryID > 0 {
		categoryID := input.CategoryID
		product.CategoryID = &categoryID
	}

	if err := storage.DB.Create(&product).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(product)
}

func GetProduct(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	if id == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var product models.Product
	if err := storage.DB.Preload("Host").Preload("Category").First(&product, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var avgRating float64
	var reviewCount int64
	storage.DB.Model(&models.Review{}).Where("product_id = ?", id).Count(&reviewCount)
	if reviewCount > 0 {
		storage.DB.Model(&models.Review{}).Where("product_id = ?", id).
			Select("AVG(rating)").Scan(&avgRating)
	}

	ctx.JSON(iris.Map{
		"product":     product,
		"avgRating":   avgRating,
		"reviewCount": reviewCount,
	})
}

// ListProducts is the browse endpoint: free-text search over title,
// description and location plus category/price/availability filters.
func ListProducts(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := storage.DB.Model(&models.Product{}).Preload("Host").Preload("Category")

	if q := ctx.URLParamDefault("q", ""); q != "" {
		search := "%" + q + "%"
		query = query.Where(
			"lower(title) LIKE lower(?) OR lower(description) LIKE lower(?) OR lower(location) LIKE lower(?)",
			search, search, search)
	}
	if categoryID := ctx.URLParamIntDefault("category_id", 0); categoryID > 0 {
		query = query.Where("category_id = ?", categoryID)
	}
	if minPrice, err := strconv.ParseFloat(ctx.URLParamDefault("min_price", ""), 64); err == nil {
		query = query.Where("price_per_day >= ?", minPrice)
	}
	if maxPrice, err := strconv.ParseFloat(ctx.URLParamDefault("max_price", ""), 64); err == nil {
		query = query.Where("price_per_day <= ?", maxPrice)
	}
	if ctx.URLParamDefault("available", "") == "true" {
		query = query.Where("is_available = ?", true)
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

// GetHostProducts returns the authenticated user's own listings.
func GetHostProducts(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var products []models.Product
	if err := storage.DB.Preload("Category").
		Where("host_id = ?", userID).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	ctx.JSON(products)
}

func UpdateProduct(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().GetUintDefault("id", 0)

	var product models.Product
	if err := storage.DB.First(&product, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if product.HostID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	var input UpdateProductInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Title != "" {
		product.Title = input.Title
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.PricePerDay > 0 {
		product.PricePerDay = input.PricePerDay
	}
	if input.Location != "" {
		product.Location = input.Location
	}
	if input.LocationURL != "" {
		product.LocationURL = input.LocationURL
	}
	if input.ImageURL != "" {
		product.ImageURL = input.ImageURL
	}
	if input.CategoryID > 0 {
		categoryID := input.CategoryID
		product.CategoryID = &categoryID
	}
	if input.IsAvailable != nil {
		product.IsAvailable = input.IsAvailable
	}

	if err := storage.DB.Save(&product).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	ctx.JSON(product)
}

func DeleteProduct(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().GetUintDefault("id", 0)

	var product models.Product
	if err := storage.DB.First(&product, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if product.HostID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	if err := storage.DB.Delete(&product).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	// Best effort; the listing is already gone.
	if product.ImageURL != "" {
		storage.DeleteAsset(product.ImageURL, storage.ResourceImage)
	}

	ctx.JSON(iris.Map{"deleted": true})
}

type CreateProductInput struct {
	Title       string  `json:"title" validate:"required,max=256"`
	Description string  `json:"description" validate:"required,max=5000"`
	PricePerDay float32 `json:"pricePerDay" validate:"required,gt=0"`
	CategoryID  uint    `json:"categoryID"`
	ImageURL    string  `json:"imageURL" validate:"omitempty,url"`
	ImageData   string  `json:"imageData"`
	Location    string  `json:"location" validate:"required,max=256"`
	LocationURL string  `json:"locationURL" validate:"omitempty,url"`
}

type UpdateProductInput struct {
	Title       string  `json:"title" validate:"max=256"`
	Description string  `json:"description" validate:"max=5000"`
	PricePerDay float32 `json:"pricePerDay" validate:"omitempty,gt=0"`
	CategoryID  uint    `json:"categoryID"`
	ImageURL    string  `json:"imageURL" validate:"omitempty,url"`
	Location    string  `json:"location" validate:"max=256"`
	LocationURL string  `json:"locationURL" validate:"omitempty,url"`
	IsAvailable *bool   `json:"isAvailable"`
}
