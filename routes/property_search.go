package routes

import (
	"dream-homes-server/models"
	"dream-homes-server/services"
	"dream-homes-server/storage"
	"dream-homes-server/utils"
	"strings"

	"github.com/kataras/iris/v12"
)

// SearchProperties handles the public listing feed with optional filters.
// The collection is small enough that the whole set is pulled and filtered
// in memory; moving the predicates into indexed store queries is the upgrade
// path if the catalog ever grows.
func SearchProperties(ctx iris.Context) {
	criteria := services.SearchCriteria{
		Query:    strings.TrimSpace(ctx.URLParam("query")),
		Type:     strings.TrimSpace(ctx.URLParam("type")),
		Location: strings.TrimSpace(ctx.URLParam("location")),
		Status:   strings.TrimSpace(ctx.URLParam("status")),
		MinPrice: strings.TrimSpace(ctx.URLParam("minPrice")),
		MaxPrice: strings.TrimSpace(ctx.URLParam("maxPrice")),
	}

	var properties []models.Property
	if err := storage.DB.Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(services.FilterProperties(properties, criteria))
}
