package routes

import (
	"time"

	"new-rent-server/models"
	"new-rent-server/storage"
	"new-rent-server/utils"

	"github.com/kataras/iris/v12"
)

// CreateRental requests a booking for a product over an inclusive day range.
// The request starts in pending until the host approves it.
func CreateRental(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreateRentalInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	start, startErr := time.Parse("2006-01-02", input.StartDate)
	end, endErr := time.Parse("2006-01-02", input.EndDate)
	if startErr != nil || endErr != nil {
		utils.JSONError(ctx, iris.StatusUnprocessableEntity, "invalid_dates", "dates must be YYYY-MM-DD")
		return
	}
	today := time.Now().Truncate(24 * time.Hour)
	if end.Before(start) || start.Before(today) {
		utils.JSONError(ctx, iris.StatusUnprocessableEntity, "invalid_dates", "start must not be in the past and must not follow end")
		return
	}

	var product models.Product
	if err := storage.DB.First(&product, input.ProductID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if product.IsAvailable == nil || !*product.IsAvailable {
		utils.JSONError(ctx, iris.StatusConflict, "unavailable", "product is not available")
		return
	}
	if product.HostID == userID {
		utils.JSONError(ctx, iris.StatusUnprocessableEntity, "own_product", "you cannot rent your own product")
		return
	}

	// Refuse ranges colliding with rentals the host already committed to.
	var overlapping int64
	storage.DB.Model(&models.Rental{}).
		Where("product_id = ? AND status IN ?", product.ID,
			[]string{models.RentalStatusApproved, models.RentalStatusActive}).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Count(&overlapping)
	if overlapping > 0 {
		utils.JSONError(ctx, iris.StatusConflict, "dates_taken", "product is already rented for those dates")
		return
	}

	days := models.RentalDays(start, end)
	rental := models.Rental{
		ProductID:  product.ID,
		RenterID:   userID,
		HostID:     product.HostID,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: float32(days) * product.PricePerDay,
		Status:     models.RentalStatusPending,
	}
	if err := storage.DB.Create(&rental).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(rental)
}

// GetUserRentals lists the authenticated user's rentals, as renter by default
// or as host with ?role=host.
func GetUserRentals(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	query := storage.DB.Preload("Product").Preload("Renter").Preload("Host")
	if ctx.URLParamDefault("role", "renter") == "host" {
		query = query.Where("host_id = ?", userID)
	} else {
		query = query.Where("renter_id = ?", userID)
	}

	var rentals []models.Rental
	if err := query.Order("created_at DESC").Find(&rentals).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	ctx.JSON(rentals)
}

// UpdateRentalStatus applies one transition of the rental lifecycle:
// pending -> approved (host), approved -> active (host), active -> completed
// (host), pending/approved -> cancelled (host or renter).
func UpdateRentalStatus(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().GetUintDefault("id", 0)

	var body UpdateRentalStatusInput
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var rental models.Rental
	if err := storage.DB.First(&rental, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	isHost := rental.HostID == userID
	isRenter := rental.RenterID == userID
	if !isHost && !isRenter {
		utils.CreateForbidden(ctx)
		return
	}

	if !rentalTransitionAllowed(rental.Status, body.Status, isHost) {
		utils.JSONError(ctx, iris.StatusUnprocessableEntity, "invalid_transition",
			"cannot move rental from "+rental.Status+" to "+body.Status)
		return
	}

	rental.Status = body.Status
	if err := storage.DB.Save(&rental).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	ctx.JSON(rental)
}

func rentalTransitionAllowed(from, to string, isHost bool) bool {
	switch to {
	case models.RentalStatusApproved:
		return isHost && from == models.RentalStatusPending
	case models.RentalStatusActive:
		return isHost && from == models.RentalStatusApproved
	case models.RentalStatusCompleted:
		return isHost && from == models.RentalStatusActive
	case models.RentalStatusCancelled:
		return from == models.RentalStatusPending || from == models.RentalStatusApproved
	default:
		return false
	}
}

type CreateRentalInput struct {
	ProductID uint   `json:"productID" validate:"required"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

type UpdateRentalStatusInput struct {
	Status string `json:"status" validate:"required,oneof=approved active completed cancelled"`
}
