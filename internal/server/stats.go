package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/smallbiznis/facturo/internal/catalog/domain"
	invoicedomain "github.com/smallbiznis/facturo/internal/invoice/domain"
	partydomain "github.com/smallbiznis/facturo/internal/party/domain"
)

type statsResponse struct {
	Customers int64 `json:"customers"`
	Products  int64 `json:"products"`
	Invoices  int64 `json:"invoices"`
}

// GetStats returns the dashboard row counts.
func (s *Server) GetStats(c *gin.Context) {
	ctx := c.Request.Context()
	var stats statsResponse

	if err := s.db.WithContext(ctx).Model(&partydomain.Customer{}).Count(&stats.Customers).Error; err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.db.WithContext(ctx).Model(&catalogdomain.Product{}).Count(&stats.Products).Error; err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.db.WithContext(ctx).Model(&invoicedomain.Invoice{}).Count(&stats.Invoices).Error; err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
