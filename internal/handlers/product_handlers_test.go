package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agripulse/marketplace/internal/models"
)

func TestCreateProductDenormalizesFarmer(t *testing.T) {
	env := newTestEnv(t)
	farmer := env.createFarmer("ravi", "New Delhi")

	payload := map[string]any{
		"name":      "Organic Kale",
		"price":     40.5,
		"unit":      "kg",
		"category":  "Vegetables",
		"farmer_id": farmer.ID,
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/products", payload)
	require.NoError(t, env.P.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Message   string `json:"message"`
		ProductID uint   `json:"productId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Product added successfully", resp.Message)
	require.NotZero(t, resp.ProductID)

	var prod models.Product
	require.NoError(t, env.DB.First(&prod, resp.ProductID).Error)
	assert.Equal(t, farmer.ID, prod.FarmerID)
	assert.Equal(t, "ravi", prod.FarmerName)
	assert.Equal(t, "New Delhi", prod.FarmerLocation)
	assert.Equal(t, 40.5, prod.Price)
}

func TestCreateProductDenormalizedFieldsStayStale(t *testing.T) {
	env := newTestEnv(t)
	farmer := env.createFarmer("ravi", "New Delhi")

	payload := map[string]any{
		"name":      "Mint",
		"price":     15,
		"unit":      "bunch",
		"category":  "Herbs",
		"farmer_id": farmer.ID,
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/products", payload)
	require.NoError(t, env.P.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	// A later profile change must not leak into the existing listing.
	require.NoError(t, env.DB.Model(&models.User{}).Where("id = ?", farmer.ID).Update("location", "Mumbai").Error)

	var prod models.Product
	require.NoError(t, env.DB.Where("farmer_id = ?", farmer.ID).First(&prod).Error)
	assert.Equal(t, "New Delhi", prod.FarmerLocation)
}

func TestCreateProductMissingFields(t *testing.T) {
	env := newTestEnv(t)
	farmer := env.createFarmer("ravi", "New Delhi")

	complete := map[string]any{
		"name":      "Organic Kale",
		"price":     40.5,
		"unit":      "kg",
		"category":  "Vegetables",
		"farmer_id": farmer.ID,
	}

	for _, field := range []string{"name", "price", "unit", "category", "farmer_id"} {
		payload := map[string]any{}
		for k, v := range complete {
			if k != field {
				payload[k] = v
			}
		}
		_, c := env.doJSONRequest(http.MethodPost, "/products", payload)
		requireHTTPError(t, env.P.CreateProduct(c), http.StatusBadRequest)
	}

	assert.Equal(t, int64(0), env.productCount())
}

func TestCreateProductUnknownFarmerIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]any{
		"name":      "Organic Kale",
		"price":     40.5,
		"unit":      "kg",
		"category":  "Vegetables",
		"farmer_id": 999,
	}
	_, c := env.doJSONRequest(http.MethodPost, "/products", payload)
	he := requireHTTPError(t, env.P.CreateProduct(c), http.StatusNotFound)
	assert.Equal(t, "Farmer not found", he.Message)
	assert.Equal(t, int64(0), env.productCount())
}

func TestCreateProductCustomerIsNotAFarmer(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer("asha")

	payload := map[string]any{
		"name":      "Organic Kale",
		"price":     40.5,
		"unit":      "kg",
		"category":  "Vegetables",
		"farmer_id": customer.ID,
	}
	_, c := env.doJSONRequest(http.MethodPost, "/products", payload)
	requireHTTPError(t, env.P.CreateProduct(c), http.StatusNotFound)
	assert.Equal(t, int64(0), env.productCount())
}

func (env *testEnv) seedProduct(farmer models.User, name string, createdAt time.Time) models.Product {
	env.T.Helper()
	prod := models.Product{
		Name:           name,
		Price:          10,
		Unit:           "kg",
		Category:       "Vegetables",
		FarmerID:       farmer.ID,
		FarmerName:     farmer.Name,
		FarmerLocation: farmer.Location,
		CreatedAt:      createdAt,
	}
	require.NoError(env.T, env.DB.Create(&prod).Error)
	return prod
}

func TestGetProductsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	farmer := env.createFarmer("ravi", "New Delhi")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	env.seedProduct(farmer, "P1", base)
	env.seedProduct(farmer, "P2", base.Add(time.Hour))

	rec, c := env.doJSONRequest(http.MethodGet, "/products", nil)
	require.NoError(t, env.P.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "P2", items[0].Name)
	assert.Equal(t, "P1", items[1].Name)
}

func TestGetProductsWithFilterParams(t *testing.T) {
	env := newTestEnv(t)
	farmer := env.createFarmer("ravi", "New Delhi")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	env.seedProduct(farmer, "Organic Kale", base)
	env.seedProduct(farmer, "Mint", base.Add(time.Hour))

	rec, c := env.doJSONRequest(http.MethodGet, "/products?category=Organic", nil)
	require.NoError(t, env.P.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Organic Kale", items[0].Name)

	rec, c = env.doJSONRequest(http.MethodGet, "/products?q=delhi", nil)
	require.NoError(t, env.P.GetProducts(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 2)
}

func TestGetFarmerProducts(t *testing.T) {
	env := newTestEnv(t)
	ravi := env.createFarmer("ravi", "New Delhi")
	meera := env.createFarmer("meera", "Nashik")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	env.seedProduct(ravi, "Kale", base)
	env.seedProduct(meera, "Tomatoes", base.Add(time.Minute))
	env.seedProduct(ravi, "Mint", base.Add(time.Hour))

	rec, c := env.doJSONRequest(http.MethodGet, "/products/farmer/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.P.GetFarmerProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Mint", items[0].Name)
	assert.Equal(t, "Kale", items[1].Name)
}

func TestDeleteProductOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ravi := env.createFarmer("ravi", "New Delhi")
	meera := env.createFarmer("meera", "Nashik")

	env.seedProduct(ravi, "Kale", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	// Wrong owner: 404, row intact.
	rec, c := env.doJSONRequest(http.MethodDelete, "/products/1", map[string]any{"farmer_id": meera.ID})
	c.SetParamNames("id")
	c.SetParamValues("1")
	he := requireHTTPError(t, env.P.DeleteProduct(c), http.StatusNotFound)
	assert.Equal(t, "Product not found or unauthorized", he.Message)
	assert.Equal(t, int64(1), env.productCount())

	// Correct owner: deleted.
	rec, c = env.doJSONRequest(http.MethodDelete, "/products/1", map[string]any{"farmer_id": ravi.ID})
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.P.DeleteProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), env.productCount())

	// Already gone: same 404 as "not owned".
	_, c = env.doJSONRequest(http.MethodDelete, "/products/1", map[string]any{"farmer_id": ravi.ID})
	c.SetParamNames("id")
	c.SetParamValues("1")
	requireHTTPError(t, env.P.DeleteProduct(c), http.StatusNotFound)
}

func TestDeleteProductRequiresFarmerID(t *testing.T) {
	env := newTestEnv(t)
	ravi := env.createFarmer("ravi", "New Delhi")
	env.seedProduct(ravi, "Kale", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	_, c := env.doJSONRequest(http.MethodDelete, "/products/1", map[string]any{})
	c.SetParamNames("id")
	c.SetParamValues("1")
	he := requireHTTPError(t, env.P.DeleteProduct(c), http.StatusBadRequest)
	assert.Equal(t, "Farmer ID required", he.Message)
	assert.Equal(t, int64(1), env.productCount())
}
