package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	partydomain "github.com/smallbiznis/facturo/internal/party/domain"
)

type createCustomerRequest struct {
	Code      string `json:"code"`
	DNI       string `json:"dni"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	District  string `json:"district"`
	City      string `json:"city"`
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	customer, err := s.partySvc.CreateCustomer(c.Request.Context(), partydomain.CreateCustomerRequest{
		Code:      req.Code,
		DNI:       req.DNI,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		Street:    req.Street,
		District:  req.District,
		City:      req.City,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": customer})
}

func (s *Server) ListCustomers(c *gin.Context) {
	resp, err := s.partySvc.ListCustomers(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Customers})
}

func (s *Server) GetCustomerByCode(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		AbortWithError(c, partydomain.ErrInvalidCode)
		return
	}

	customer, err := s.partySvc.GetCustomerByCode(c.Request.Context(), code)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": customer})
}

type createSellerRequest struct {
	Code      string `json:"code"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (s *Server) CreateSeller(c *gin.Context) {
	var req createSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	seller, err := s.partySvc.CreateSeller(c.Request.Context(), partydomain.CreateSellerRequest{
		Code:      req.Code,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": seller})
}

func (s *Server) ListSellers(c *gin.Context) {
	resp, err := s.partySvc.ListSellers(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Sellers})
}
