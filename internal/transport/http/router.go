package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/agripulse/marketplace/internal/handlers"
)

type Deps struct {
	DB             *gorm.DB
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	PredictHandler *handlers.PredictHandler
	SearchHandler  *handlers.SearchHandler // nil unless ES is configured
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)

	e.POST("/products", d.ProductHandler.CreateProduct)
	e.GET("/products", d.ProductHandler.GetProducts)
	e.GET("/products/farmer/:id", d.ProductHandler.GetFarmerProducts)
	e.DELETE("/products/:id", d.ProductHandler.DeleteProduct)

	e.POST("/predict-disease", d.PredictHandler.PredictDisease)
	e.GET("/ml-health", d.PredictHandler.MLHealth)

	if d.SearchHandler != nil {
		e.GET("/search", d.SearchHandler.Search)
	}
}
