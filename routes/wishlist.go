package routes

import (
	"encoding/json"

	"new-rent-server/models"
	"new-rent-server/storage"
	"new-rent-server/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
)

// GetUserWishlist resolves the saved product ids on the profile into full
// product rows.
func GetUserWishlist(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var saved []uint
	if user.SavedProducts != nil {
		if err := json.Unmarshal(user.SavedProducts, &saved); err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}
	if len(saved) == 0 {
		ctx.JSON([]models.Product{})
		return
	}

	var products []models.Product
	if err := storage.DB.Preload("Host").Preload("Category").
		Where("id IN ?", saved).Find(&products).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(products)
}

// AlterUserWishlist adds or removes one product id on the profile's saved
// list.
func AlterUserWishlist(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var req AlterWishlistInput
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var product models.Product
	if err := storage.DB.First(&product, req.ProductID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var saved []uint
	if user.SavedProducts != nil {
		if err := json.Unmarshal(user.SavedProducts, &saved); err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	switch req.Op {
	case "add":
		if !slices.Contains(saved, req.ProductID) {
			saved = append(saved, req.ProductID)
		}
	case "remove":
		if i := slices.Index(saved, req.ProductID); i != -1 {
			saved = slices.Delete(saved, i, i+1)
		}
	}

	marshalled, marshalErr := json.Marshal(saved)
	if marshalErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	user.SavedProducts = marshalled
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	ctx.JSON(iris.Map{"savedProducts": saved})
}

type AlterWishlistInput struct {
	ProductID uint   `json:"productID" validate:"required"`
	Op        string `json:"op" validate:"required,oneof=add remove"`
}
