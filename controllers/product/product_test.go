package productcontroller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EyobAbdella/EasyShop/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Customer{}, &models.Category{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{}, &models.Review{},
	))
	return db
}

func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("email", userID+"@example.com")
		c.Next()
	}
}

func newRouter(db *gorm.DB, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/store/products", GetProducts(db))
	r.GET("/store/products/:slug", GetProduct(db))
	r.GET("/store/categories", GetCategories(db))
	r.GET("/store/products/:slug/reviews", GetReviews(db))
	r.POST("/store/products/:slug/reviews", fakeAuth(userID), CreateReview(db))
	r.PUT("/store/products/:slug/reviews/:reviewID", fakeAuth(userID), UpdateReview(db))
	r.POST("/admin/products", CreateProduct(db))
	r.DELETE("/admin/products/:id", DeleteProduct(db))
	r.POST("/admin/categories", CreateCategory(db))
	r.DELETE("/admin/categories/:id", DeleteCategory(db))
	return r
}

func seedCatalog(t *testing.T, db *gorm.DB) (models.Category, models.Product) {
	t.Helper()
	category := models.Category{Title: "Grocery"}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{Title: "Green Apples", Slug: "green-apples", CategoryID: category.ID, UnitPrice: 10, Inventory: 5}
	require.NoError(t, db.Create(&product).Error)
	return category, product
}

func TestGetProductsFilters(t *testing.T) {
	db := setupTestDB(t)
	category, _ := seedCatalog(t, db)
	other := models.Category{Title: "Hardware"}
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&models.Product{Title: "Hammer", Slug: "hammer", CategoryID: other.ID, UnitPrice: 25, Inventory: 3}).Error)

	r := newRouter(db, "U1")

	// Category filter is case-insensitive on the title.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/store/products?category=grocery", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var views []ProductView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, category.ID, views[0].Category.ID)

	// Title search
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/store/products?search=Hammer", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "hammer", views[0].Slug)
}

func TestProductRatingAverage(t *testing.T) {
	db := setupTestDB(t)
	_, product := seedCatalog(t, db)
	require.NoError(t, db.Create(&models.Customer{ID: "U1", Email: "u1@example.com"}).Error)
	require.NoError(t, db.Create(&models.Customer{ID: "U2", Email: "u2@example.com"}).Error)
	require.NoError(t, db.Create(&models.Review{ProductID: product.ID, CustomerID: "U1", Review: "good", Rating: 4}).Error)
	require.NoError(t, db.Create(&models.Review{ProductID: product.ID, CustomerID: "U2", Review: "great", Rating: 5}).Error)

	r := newRouter(db, "U1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/store/products/green-apples", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var view ProductView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.InDelta(t, 4.5, view.Rating, 0.001)
}

func TestDeleteProductProtectedByOrders(t *testing.T) {
	db := setupTestDB(t)
	_, product := seedCatalog(t, db)
	require.NoError(t, db.Create(&models.Customer{ID: "U1", Email: "u1@example.com"}).Error)
	order := models.Order{CustomerID: "U1", StreetAddress: "1 Main St", City: "Springfield", Zipcode: "12345"}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&models.OrderItem{OrderID: order.ID, ProductID: product.ID, Quantity: 1}).Error)

	r := newRouter(db, "U1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/products/%d", product.ID), nil))
	assert.Equal(t, http.StatusConflict, w.Code)

	// Order history stays resolvable.
	var still models.Product
	assert.NoError(t, db.First(&still, product.ID).Error)
}

func TestDeleteCategoryProtectedByProducts(t *testing.T) {
	db := setupTestDB(t)
	category, product := seedCatalog(t, db)

	r := newRouter(db, "U1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/categories/%d", category.ID), nil))
	assert.Equal(t, http.StatusConflict, w.Code)

	// Unreferenced product can go, and then the category can too.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/products/%d", product.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/categories/%d", category.ID), nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateProductGeneratesUniqueSlug(t *testing.T) {
	db := setupTestDB(t)
	category, _ := seedCatalog(t, db)
	r := newRouter(db, "U1")

	body, _ := json.Marshal(ProductInput{Title: "Green Apples", CategoryID: category.ID, UnitPrice: 8, Inventory: 2})
	req := httptest.NewRequest(http.MethodPost, "/admin/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	// "green-apples" is taken by the seed product.
	assert.Equal(t, "green-apples-2", created.Slug)
}

func TestReviewUniquePerCustomer(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	r := newRouter(db, "U1")

	body, _ := json.Marshal(ReviewInput{Review: "crisp", Rating: 5})
	req := httptest.NewRequest(http.MethodPost, "/store/products/green-apples/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/store/products/green-apples/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateReviewOwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	_, product := seedCatalog(t, db)
	require.NoError(t, db.Create(&models.Customer{ID: "U1", Email: "u1@example.com"}).Error)
	review := models.Review{ProductID: product.ID, CustomerID: "U1", Review: "fine", Rating: 3}
	require.NoError(t, db.Create(&review).Error)

	// U2 may not touch U1's review.
	r := newRouter(db, "U2")
	body, _ := json.Marshal(ReviewInput{Review: "mine now", Rating: 1})
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/store/products/green-apples/reviews/%d", review.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
