package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/thereayou/relyexchange/internal/services"
)

// listQuery reads page, per_page, order and q from the query string.
func listQuery(c *gin.Context, defaultOrder services.Order) (services.ListQuery, error) {
	pageReq, err := services.ParsePageRequest(c.Query("page"), c.Query("per_page"))
	if err != nil {
		return services.ListQuery{}, err
	}
	order, err := services.ParseOrder(c.Query("order"), defaultOrder)
	if err != nil {
		return services.ListQuery{}, err
	}
	return services.ListQuery{
		PageRequest: pageReq,
		Order:       order,
		Search:      c.Query("q"),
	}, nil
}
