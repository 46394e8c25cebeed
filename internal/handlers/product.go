package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/agripulse/marketplace/internal/catalog"
	"github.com/agripulse/marketplace/internal/events"
	"github.com/agripulse/marketplace/internal/logging"
	"github.com/agripulse/marketplace/internal/models"
	"github.com/agripulse/marketplace/internal/search"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
	Indexer  *search.Indexer
}

type createProductRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Price       float64 `json:"price"       validate:"required,gte=0"`
	Unit        string  `json:"unit"        validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"    validate:"required"`
	Image       string  `json:"image"`
	FarmerID    uint    `json:"farmer_id"   validate:"required"`
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Required fields: name, price, unit, category, farmer_id")
	}
	if err := validate.Struct(&req); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "missing field")
		return echo.NewHTTPError(http.StatusBadRequest, "Required fields: name, price, unit, category, farmer_id")
	}

	// Lookup then insert, two statements with no transaction between them.
	// No deletion path exists for users, so the gap is latent.
	var farmer models.User
	err := h.DB.WithContext(ctx).
		Where("id = ? AND user_type = ?", req.FarmerID, models.RoleFarmer).
		First(&farmer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		l.Warn("create_product_failed", "status", 404, "reason", "farmer not found", "farmer_id", req.FarmerID)
		return echo.NewHTTPError(http.StatusNotFound, "Farmer not found")
	}
	if err != nil {
		l.Error("create_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
	}

	prod := models.Product{
		Name:           req.Name,
		Price:          req.Price,
		Unit:           req.Unit,
		Description:    req.Description,
		Category:       req.Category,
		Image:          req.Image,
		FarmerID:       farmer.ID,
		FarmerName:     farmer.Name,
		FarmerLocation: farmer.Location,
	}
	if err := h.DB.WithContext(ctx).Create(&prod).Error; err != nil {
		l.Error("create_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
	}

	publish(c, h.Producer, events.TopicProductEvents, fmt.Sprint(prod.FarmerID), map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"farmerID":  prod.FarmerID,
		"name":      prod.Name,
	})
	if err := h.Indexer.IndexProduct(ctx, &prod); err != nil {
		l.Error("product index failed", "product_id", prod.ID, "error", err)
	}

	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message":   "Product added successfully",
		"productId": prod.ID,
	})
}

// GetProducts returns every listing, newest first. The optional category and
// q params apply the same filter the consumer view computes locally.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	var items []models.Product
	if err := h.DB.WithContext(ctx).Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		l.Error("list_products_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
	}

	category := c.QueryParam("category")
	query := c.QueryParam("q")
	if category != "" || query != "" {
		items = catalog.Filter(items, category, query)
	}

	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) GetFarmerProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list_by_farmer")

	farmerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("list_farmer_products_failed", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid farmer id")
	}

	var items []models.Product
	if err := h.DB.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC, id DESC").
		Find(&items).Error; err != nil {
		l.Error("list_farmer_products_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
	}

	return c.JSON(http.StatusOK, items)
}

type deleteProductRequest struct {
	FarmerID uint `json:"farmer_id" validate:"required"`
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("delete_product_failed", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product id")
	}

	var req deleteProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("delete_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Farmer ID required")
	}
	if err := validate.Struct(&req); err != nil {
		l.Warn("delete_product_failed", "status", 400, "reason", "missing farmer_id")
		return echo.NewHTTPError(http.StatusBadRequest, "Farmer ID required")
	}

	// Single owner-checked delete. Zero rows covers both "does not exist"
	// and "not owned by this farmer"; callers cannot tell them apart.
	res := h.DB.WithContext(ctx).
		Where("id = ? AND farmer_id = ?", productID, req.FarmerID).
		Delete(&models.Product{})
	if res.Error != nil {
		l.Error("delete_product_failed", "status", 500, "error", res.Error)
		return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
	}
	if res.RowsAffected == 0 {
		l.Warn("delete_product_failed", "status", 404, "product_id", productID, "farmer_id", req.FarmerID)
		return echo.NewHTTPError(http.StatusNotFound, "Product not found or unauthorized")
	}

	publish(c, h.Producer, events.TopicProductEvents, fmt.Sprint(req.FarmerID), map[string]any{
		"type":      "product_deleted",
		"productID": productID,
		"farmerID":  req.FarmerID,
	})
	if err := h.Indexer.DeleteProduct(ctx, uint(productID)); err != nil {
		l.Error("product unindex failed", "product_id", productID, "error", err)
	}

	l.Info("delete_product_success", "product_id", productID)
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}
