package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gulfsteel/steelstore-api/logger"
	"github.com/gulfsteel/steelstore-api/middleware"
	"github.com/gulfsteel/steelstore-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func setupOrderRouter() *gin.Engine {
	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/orders/quote", QuoteOrder)
	v1.POST("/orders", middleware.EnsureSession("ws_session", false), CreateOrder)

	admin := v1.Group("/admin", mockAuthMiddleware("auth0|admin", models.RoleAdmin), middleware.RequireAdmin())
	admin.GET("/orders", ListOrders)
	admin.GET("/orders/:id", GetOrder)
	admin.PATCH("/orders/:id/status", UpdateOrderStatus)
	return router
}

func validOrderBody() map[string]interface{} {
	return map[string]interface{}{
		"customer_name":   "Khalid Al-Thani",
		"customer_phone":  "+974 5555 1234",
		"customer_email":  "khalid@example.com",
		"delivery_method": "trailer",
		"payment_method":  "cod",
		"order_type":      "straight",
		"delivery_date":   "2024-03-10",
		"items": []map[string]interface{}{
			{"diameter_mm": 12, "length_m": 12, "quantity": 50},
		},
	}
}

func TestQuoteOrder(t *testing.T) {
	db, _ := setupControllerTest(t)
	seedRebar(t, db, 2400, 12)
	router := setupOrderRouter()

	w := performJSON(router, http.MethodPost, "/api/v1/orders/quote", map[string]interface{}{
		"delivery_method": "crane",
		"items": []map[string]interface{}{
			{"diameter_mm": 12, "length_m": 6, "quantity": 10},
			{"diameter_mm": 20, "length_m": 12, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeResponse(t, w)["data"].(map[string]interface{})
	summary := data["summary"].(map[string]interface{})
	assert.Equal(t, "QAR", summary["currency"])
	assert.Equal(t, float64(700), summary["fees"].(map[string]interface{})["delivery_fee"])
	assert.Equal(t, []interface{}{float64(1)}, data["unresolved_lines"], "20mm has no variant")
}

func TestQuoteOrder_OversizedLength(t *testing.T) {
	db, _ := setupControllerTest(t)
	seedRebar(t, db, 2400, 12)
	router := setupOrderRouter()

	w := performJSON(router, http.MethodPost, "/api/v1/orders/quote", map[string]interface{}{
		"delivery_method": "trailer",
		"items":           []map[string]interface{}{{"diameter_mm": 12, "length_m": 1e308, "quantity": 50}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestCreateOrder_JSON(t *testing.T) {
	db, _ := setupControllerTest(t)
	seedRebar(t, db, 2400, 12)
	router := setupOrderRouter()

	w := performJSON(router, http.MethodPost, "/api/v1/orders", validOrderBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeResponse(t, w)["data"].(map[string]interface{})
	order := data["order"].(map[string]interface{})
	assert.Regexp(t, regexp.MustCompile(`^WS-\d{8}-\d{4}$`), order["order_number"])
	assert.Equal(t, "pending_review", order["status"])
	assert.Equal(t, "Khalid Al-Thani", order["contact_name"])
	assert.Equal(t, 1278.72, order["subtotal_qr"])
	assert.Equal(t, 1478.72, order["grand_total_qr"])
	assert.Nil(t, data["boq_upload_error"])
	assert.NotContains(t, order, "session_id")

	var stored models.Order
	require.NoError(t, db.First(&stored).Error)
	require.NotNil(t, stored.SessionID, "the order is tied to the visitor session")
	require.NotNil(t, stored.PreferredDeliveryDate)
	assert.Equal(t, "2024-03-10", stored.PreferredDeliveryDate.Format("2006-01-02"))
}

func TestCreateOrder_Validation(t *testing.T) {
	setupControllerTest(t)
	router := setupOrderRouter()

	tests := []struct {
		name   string
		mutate func(body map[string]interface{})
	}{
		{"missing name", func(b map[string]interface{}) { delete(b, "customer_name") }},
		{"missing phone", func(b map[string]interface{}) { delete(b, "customer_phone") }},
		{"bad email", func(b map[string]interface{}) { b["customer_email"] = "not-an-email" }},
		{"unknown delivery method", func(b map[string]interface{}) { b["delivery_method"] = "drone" }},
		{"unknown payment method", func(b map[string]interface{}) { b["payment_method"] = "crypto" }},
		{"bad delivery date", func(b map[string]interface{}) { b["delivery_date"] = "10/03/2024" }},
		{"no items", func(b map[string]interface{}) { b["items"] = []interface{}{} }},
		{"zero quantity", func(b map[string]interface{}) {
			b["items"] = []map[string]interface{}{{"diameter_mm": 12, "length_m": 12, "quantity": 0}}
		}},
		{"negative length", func(b map[string]interface{}) {
			b["items"] = []map[string]interface{}{{"diameter_mm": 12, "length_m": -1, "quantity": 1}}
		}},
		{"oversized length", func(b map[string]interface{}) {
			b["items"] = []map[string]interface{}{{"diameter_mm": 12, "length_m": 1e308, "quantity": 50}}
		}},
		{"oversized quantity", func(b map[string]interface{}) {
			b["items"] = []map[string]interface{}{{"diameter_mm": 12, "length_m": 12, "quantity": 100001}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validOrderBody()
			tt.mutate(body)
			w := performJSON(router, http.MethodPost, "/api/v1/orders", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
		})
	}
}

func TestCreateOrder_MultipartWithBOQ(t *testing.T) {
	db, storage := setupControllerTest(t)
	seedRebar(t, db, 2400, 12)
	router := setupOrderRouter()

	payload, _ := json.Marshal(validOrderBody())
	w := performMultipart(router, "/api/v1/orders",
		map[string]string{"payload": string(payload)},
		formFile{field: "boq_file", filename: "boq.pdf", content: []byte("%PDF")},
	)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeResponse(t, w)["data"].(map[string]interface{})
	order := data["order"].(map[string]interface{})
	files := order["order_files"].([]interface{})
	require.Len(t, files, 1)
	path := files[0].(map[string]interface{})["file_path"].(string)
	assert.True(t, storage.Exists(path))
	assert.Nil(t, data["boq_upload_error"])
}

func TestCreateOrder_MultipartUploadFailureStillCreatesOrder(t *testing.T) {
	db, storage := setupControllerTest(t)
	storage.FailUploadsWithPrefix("order-files")
	router := setupOrderRouter()

	payload, _ := json.Marshal(validOrderBody())
	w := performMultipart(router, "/api/v1/orders",
		map[string]string{"payload": string(payload)},
		formFile{field: "boq_file", filename: "boq.xlsx", content: []byte("xlsx")},
	)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Contains(t, data["boq_upload_error"], "submitted without the file")

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateOrder_MultipartRejectsBadFile(t *testing.T) {
	db, _ := setupControllerTest(t)
	router := setupOrderRouter()

	payload, _ := json.Marshal(validOrderBody())
	w := performMultipart(router, "/api/v1/orders",
		map[string]string{"payload": string(payload)},
		formFile{field: "boq_file", filename: "virus.exe", content: []byte("MZ")},
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FILE_FORMAT", errorCode(t, w))

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count, "a rejected file rejects the order")

	w = performMultipart(router, "/api/v1/orders", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminOrders(t *testing.T) {
	db, _ := setupControllerTest(t)
	seedAdmin(t, db, "auth0|admin")
	seedRebar(t, db, 2400, 12)
	router := setupOrderRouter()

	for range 2 {
		w := performJSON(router, http.MethodPost, "/api/v1/orders", validOrderBody())
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := performJSON(router, http.MethodGet, "/api/v1/admin/orders?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	assert.Len(t, response["data"], 1)
	assert.Equal(t, float64(2), response["pagination"].(map[string]interface{})["total"])

	id := uint(response["data"].([]interface{})[0].(map[string]interface{})["id"].(float64))

	w = performJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/admin/orders/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	order := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Len(t, order["order_items"], 1)

	w = performJSON(router, http.MethodPatch, fmt.Sprintf("/api/v1/admin/orders/%d/status", id), map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confirmed", decodeResponse(t, w)["data"].(map[string]interface{})["status"])

	w = performJSON(router, http.MethodPatch, fmt.Sprintf("/api/v1/admin/orders/%d/status", id), map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_STATUS", errorCode(t, w))

	w = performJSON(router, http.MethodGet, "/api/v1/admin/orders/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performJSON(router, http.MethodGet, "/api/v1/admin/orders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", errorCode(t, w))

	w = performJSON(router, http.MethodGet, "/api/v1/admin/orders?status=lost", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatus_LogsAdmin(t *testing.T) {
	db, _ := setupControllerTest(t)
	seedAdmin(t, db, "auth0|admin")
	seedRebar(t, db, 2400, 12)
	router := setupOrderRouter()

	w := performJSON(router, http.MethodPost, "/api/v1/orders", validOrderBody())
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(decodeResponse(t, w)["data"].(map[string]interface{})["order"].(map[string]interface{})["id"].(float64))

	core, logs := observer.New(zap.InfoLevel)
	logger.SetLogger(zap.New(core))
	t.Cleanup(func() { logger.SetLogger(zap.NewNop()) })

	w = performJSON(router, http.MethodPatch, fmt.Sprintf("/api/v1/admin/orders/%d/status", id), map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)

	entries := logs.FilterMessage("order status updated").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "auth0|admin@example.com", entries[0].ContextMap()["admin_email"])
}

func TestAdminOrders_RequiresAdminProfile(t *testing.T) {
	setupControllerTest(t)
	router := setupOrderRouter()

	w := performJSON(router, http.MethodGet, "/api/v1/admin/orders", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "PROFILE_NOT_FOUND", errorCode(t, w))
}
