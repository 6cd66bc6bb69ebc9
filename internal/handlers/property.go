package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealflowhq/dealflow-backend/internal/domain/lifecycle"
	"github.com/dealflowhq/dealflow-backend/internal/repos"
	"github.com/dealflowhq/dealflow-backend/internal/requestdata"
	"github.com/dealflowhq/dealflow-backend/internal/services"
	"github.com/dealflowhq/dealflow-backend/internal/types"
)

type PropertyHandler struct {
	propertyService services.PropertyService
}

func NewPropertyHandler(propertyService services.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

func (ph *PropertyHandler) Create(c *gin.Context) {
	var req struct {
		Address      string   `json:"address"`
		City         string   `json:"city"`
		State        string   `json:"state"`
		ZipCode      string   `json:"zip_code"`
		PropertyType string   `json:"property_type"`
		SquareFeet   *float64 `json:"square_feet"`
		Bedrooms     *int     `json:"bedrooms"`
		Bathrooms    *float64 `json:"bathrooms"`
		YearBuilt    *int     `json:"year_built"`

		ARV           *decimal.Decimal `json:"arv"`
		PurchasePrice *decimal.Decimal `json:"purchase_price"`
		RepairCost    *decimal.Decimal `json:"repair_cost"`
		HoldingCost   *decimal.Decimal `json:"holding_cost"`
		SellingPrice  *decimal.Decimal `json:"selling_price"`

		Description string `json:"description"`
		Notes       string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	property := types.Property{
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
		PropertyType:  req.PropertyType,
		SquareFeet:    req.SquareFeet,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		YearBuilt:     req.YearBuilt,
		ARV:           req.ARV,
		PurchasePrice: req.PurchasePrice,
		RepairCost:    req.RepairCost,
		HoldingCost:   req.HoldingCost,
		SellingPrice:  req.SellingPrice,
		Description:   req.Description,
		Notes:         req.Notes,
		OwnerID:       rd.UserID,
	}
	created, err := ph.propertyService.Create(c.Request.Context(), &property)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (ph *PropertyHandler) Get(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid property id"})
		return
	}
	property, err := ph.propertyService.Get(c.Request.Context(), propertyID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

func (ph *PropertyHandler) List(c *gin.Context) {
	filter := repos.PropertyFilter{
		Search: c.Query("search"),
		City:   c.Query("city"),
		State:  c.Query("state"),
	}
	if raw := c.Query("status"); raw != "" {
		status, err := lifecycle.ParsePropertyStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("owner_id"); raw != "" {
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid owner_id"})
			return
		}
		filter.OwnerID = &ownerID
	}
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	properties, err := ph.propertyService.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

func (ph *PropertyHandler) Update(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid property id"})
		return
	}
	var req struct {
		ExpectedVersion int `json:"expected_version"`

		Address      *string  `json:"address"`
		City         *string  `json:"city"`
		State        *string  `json:"state"`
		ZipCode      *string  `json:"zip_code"`
		PropertyType *string  `json:"property_type"`
		SquareFeet   *float64 `json:"square_feet"`
		Bedrooms     *int     `json:"bedrooms"`
		Bathrooms    *float64 `json:"bathrooms"`
		YearBuilt    *int     `json:"year_built"`

		ARV           *decimal.Decimal `json:"arv"`
		PurchasePrice *decimal.Decimal `json:"purchase_price"`
		RepairCost    *decimal.Decimal `json:"repair_cost"`
		HoldingCost   *decimal.Decimal `json:"holding_cost"`
		SellingPrice  *decimal.Decimal `json:"selling_price"`

		Description *string `json:"description"`
		Notes       *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ExpectedVersion <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected_version is required"})
		return
	}
	in := services.PropertyUpdate{
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
		PropertyType:  req.PropertyType,
		SquareFeet:    req.SquareFeet,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		YearBuilt:     req.YearBuilt,
		ARV:           req.ARV,
		PurchasePrice: req.PurchasePrice,
		RepairCost:    req.RepairCost,
		HoldingCost:   req.HoldingCost,
		SellingPrice:  req.SellingPrice,
		Description:   req.Description,
		Notes:         req.Notes,
	}
	property, err := ph.propertyService.Update(c.Request.Context(), propertyID, req.ExpectedVersion, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

func (ph *PropertyHandler) UpdateStatus(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid property id"})
		return
	}
	var req struct {
		Status          string `json:"status"`
		ExpectedVersion int    `json:"expected_version"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ExpectedVersion <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected_version is required"})
		return
	}
	property, err := ph.propertyService.UpdateStatus(c.Request.Context(), propertyID, req.Status, req.ExpectedVersion)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

func (ph *PropertyHandler) Delete(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid property id"})
		return
	}
	if err := ph.propertyService.Delete(c.Request.Context(), propertyID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
