package routes

import (
	"new-rent-server/models"
	"new-rent-server/storage"
	"new-rent-server/utils"

	"github.com/kataras/iris/v12"
)

func GetCategories(ctx iris.Context) {
	var categories []models.Category
	if err := storage.DB.Order("name ASC").Find(&categories).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	ctx.JSON(categories)
}
