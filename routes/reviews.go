package routes

import (
	"errors"
	"strings"

	"new-rent-server/models"
	"new-rent-server/storage"
	"new-rent-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// ListProductReviews returns a product's reviews plus whether the current
// user may leave one (completed rental, no prior review).
func ListProductReviews(ctx iris.Context) {
	productID := ctx.Params().GetUintDefault("id", 0)
	if productID == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid product id")
		return
	}

	var reviews []models.Review
	if err := storage.DB.Preload("Reviewer").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	var totalRating float64
	for _, review := range reviews {
		totalRating += float64(review.Rating)
	}
	avgRating := 0.0
	if len(reviews) > 0 {
		avgRating = totalRating / float64(len(reviews))
	}

	canReview := false
	if v := ctx.Values().Get("userID"); v != nil {
		if userID, ok := v.(uint); ok {
			canReview = userCanReview(userID, productID)
		}
	}

	ctx.JSON(iris.Map{
		"reviews":   reviews,
		"avgRating": avgRating,
		"canReview": canReview,
	})
}

// CreateReview records a rating for a product. Only renters with a completed
// rental may review, once per product.
func CreateReview(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	productID := ctx.Params().GetUintDefault("id", 0)
	if productID == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid product id")
		return
	}

	var input CreateReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if strings.TrimSpace(input.Comment) == "" {
		utils.JSONError(ctx, iris.StatusUnprocessableEntity, "invalid_payload", "comment is required")
		return
	}

	if !userCanReview(userID, productID) {
		utils.JSONError(ctx, iris.StatusForbidden, "not_eligible",
			"you can review a product only after completing a rental, and only once")
		return
	}

	review := models.Review{
		ProductID:  productID,
		ReviewerID: userID,
		Rating:     input.Rating,
		Comment:    input.Comment,
	}
	if err := storage.DB.Create(&review).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	storage.DB.Preload("Reviewer").First(&review, review.ID)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(review)
}

func userCanReview(userID, productID uint) bool {
	var rental models.Rental
	if err := storage.DB.Where("product_id = ? AND renter_id = ? AND status = ?",
		productID, userID, models.RentalStatusCompleted).
		First(&rental).Error; err != nil {
		return false
	}

	var existing models.Review
	err := storage.DB.Where("product_id = ? AND reviewer_id = ?", productID, userID).
		First(&existing).Error
	return errors.Is(err, gorm.ErrRecordNotFound)
}

type CreateReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=1000"`
}
