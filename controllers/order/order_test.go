package orderControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/MoNRaSpGit/KioscoPiloto-Back/models"
)

type recordedEvent struct {
	event   string
	payload interface{}
}

type recordingBroadcaster struct {
	events []recordedEvent
}

func (r *recordingBroadcaster) Broadcast(event string, payload interface{}) {
	r.events = append(r.events, recordedEvent{event: event, payload: payload})
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)",
		strings.ReplaceAll(t.Name(), "/", "_"),
	)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderDetail{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, id uint, name, image string, price float64) {
	t.Helper()
	require.NoError(t, db.Create(&models.Product{
		ID:    id,
		Name:  name,
		Price: price,
		Image: image,
	}).Error)
}

func TestPlaceOrderKeepsValidatedItems(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 3, "Yerba", "/uploads/yerba.png", 10.0)
	bc := &recordingBroadcaster{}
	before := time.Now()

	view, err := PlaceOrder(db, bc, PlaceOrderRequest{
		UserID: 7,
		Products: []OrderItemRequest{
			{ID: 3, Quantity: 2, Price: 10.0},
			{ID: 3, Quantity: 0, Price: 5.0},  // dropped: zero quantity
			{ID: 3, Quantity: 1, Price: -1.0}, // dropped: negative price
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, view.Status)
	assert.Equal(t, uint(7), view.UserID)
	assert.False(t, view.CreatedAt.Before(before.Truncate(time.Second)))
	require.Len(t, view.Products, 1)
	assert.Equal(t, uint(3), view.Products[0].ID)
	assert.Equal(t, 2, view.Products[0].Quantity)
	assert.Equal(t, 10.0, view.Products[0].Price)
	assert.Equal(t, "Yerba", view.Products[0].Name)
	assert.Equal(t, "/uploads/yerba.png", view.Products[0].Image)

	var detailCount int64
	require.NoError(t, db.Model(&models.OrderDetail{}).Count(&detailCount).Error)
	assert.EqualValues(t, 1, detailCount)

	require.Len(t, bc.events, 1)
	assert.Equal(t, EventNewOrder, bc.events[0].event)
	assert.Equal(t, view, bc.events[0].payload)
}

func TestPlaceOrderRejectsEmptyItems(t *testing.T) {
	db := newTestDB(t)
	bc := &recordingBroadcaster{}

	_, err := PlaceOrder(db, bc, PlaceOrderRequest{UserID: 7})
	assert.ErrorIs(t, err, ErrInvalidOrder)

	// A batch where every item fails validation is the same as an empty one.
	_, err = PlaceOrder(db, bc, PlaceOrderRequest{
		UserID: 7,
		Products: []OrderItemRequest{
			{ID: 1, Quantity: 0, Price: 10.0},
			{ID: 2, Quantity: 3, Price: -0.5},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidOrder)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.EqualValues(t, 0, orderCount)
	assert.Empty(t, bc.events)
}

func TestPlaceOrderRejectsMissingUser(t *testing.T) {
	db := newTestDB(t)
	bc := &recordingBroadcaster{}

	_, err := PlaceOrder(db, bc, PlaceOrderRequest{
		Products: []OrderItemRequest{{ID: 3, Quantity: 1, Price: 2.0}},
	})
	assert.ErrorIs(t, err, ErrInvalidOrder)
	assert.Empty(t, bc.events)
}

func TestPlaceOrderRollsBackOnLineItemFailure(t *testing.T) {
	db := newTestDB(t)
	bc := &recordingBroadcaster{}

	// No product with id 99 exists, so the line-item insert violates the
	// foreign key after the header insert already succeeded. The whole
	// transaction must roll back: no orphan header survives.
	_, err := PlaceOrder(db, bc, PlaceOrderRequest{
		UserID:   7,
		Products: []OrderItemRequest{{ID: 99, Quantity: 1, Price: 4.0}},
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidOrder)

	var orderCount, detailCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderDetail{}).Count(&detailCount).Error)
	assert.EqualValues(t, 0, orderCount)
	assert.EqualValues(t, 0, detailCount)
	assert.Empty(t, bc.events)
}

func TestUpdateOrderStatus(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 3, "Yerba", "", 10.0)
	bc := &recordingBroadcaster{}

	view, err := PlaceOrder(db, bc, PlaceOrderRequest{
		UserID:   7,
		Products: []OrderItemRequest{{ID: 3, Quantity: 2, Price: 10.0}},
	})
	require.NoError(t, err)

	status, err := UpdateOrderStatus(db, bc, view.ID, "Procesando")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, status)

	var stored models.Order
	require.NoError(t, db.First(&stored, view.ID).Error)
	assert.Equal(t, models.OrderStatusProcessing, stored.Status)

	require.Len(t, bc.events, 2)
	assert.Equal(t, EventOrderStatusUpdated, bc.events[1].event)
	assert.Equal(t, StatusChange{ID: view.ID, Status: models.OrderStatusProcessing}, bc.events[1].payload)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 3, "Yerba", "", 10.0)
	bc := &recordingBroadcaster{}

	view, err := PlaceOrder(db, bc, PlaceOrderRequest{
		UserID:   7,
		Products: []OrderItemRequest{{ID: 3, Quantity: 1, Price: 10.0}},
	})
	require.NoError(t, err)

	_, err = UpdateOrderStatus(db, bc, view.ID, "Enviado")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	var stored models.Order
	require.NoError(t, db.First(&stored, view.ID).Error)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	assert.Len(t, bc.events, 1) // only the new_order broadcast
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	db := newTestDB(t)
	bc := &recordingBroadcaster{}

	_, err := UpdateOrderStatus(db, bc, 9999, "Listo")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Empty(t, bc.events)
}

func TestGetOrdersEmptyIsNotAnError(t *testing.T) {
	db := newTestDB(t)

	views, err := GetOrders(db)
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestGetOrdersNewestFirstWithJoinedProducts(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 3, "Yerba", "/uploads/yerba.png", 10.0)
	seedProduct(t, db, 4, "Azúcar", "/uploads/azucar.png", 2.5)
	bc := &recordingBroadcaster{}

	first, err := PlaceOrder(db, bc, PlaceOrderRequest{
		UserID:   7,
		Products: []OrderItemRequest{{ID: 3, Quantity: 2, Price: 10.0}},
	})
	require.NoError(t, err)
	second, err := PlaceOrder(db, bc, PlaceOrderRequest{
		UserID:   8,
		Products: []OrderItemRequest{{ID: 4, Quantity: 1, Price: 2.5}},
	})
	require.NoError(t, err)

	// Push the first order into the past so the DESC ordering is observable.
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", first.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	views, err := GetOrders(db)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, second.ID, views[0].ID)
	assert.Equal(t, first.ID, views[1].ID)

	require.Len(t, views[1].Products, 1)
	assert.Equal(t, "Yerba", views[1].Products[0].Name)
	assert.Equal(t, "/uploads/yerba.png", views[1].Products[0].Image)
	assert.Equal(t, 10.0, views[1].Products[0].Price)
	assert.Equal(t, 2, views[1].Products[0].Quantity)
}

func TestDeleteOrderRemovesHeaderAndItems(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, 3, "Yerba", "", 10.0)
	bc := &recordingBroadcaster{}

	view, err := PlaceOrder(db, bc, PlaceOrderRequest{
		UserID:   7,
		Products: []OrderItemRequest{{ID: 3, Quantity: 2, Price: 10.0}},
	})
	require.NoError(t, err)

	require.NoError(t, DeleteOrder(db, view.ID))

	var orderCount, detailCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderDetail{}).Count(&detailCount).Error)
	assert.EqualValues(t, 0, orderCount)
	assert.EqualValues(t, 0, detailCount)

	views, err := GetOrders(db)
	require.NoError(t, err)
	assert.Empty(t, views)

	// Deleting again reports not-found instead of crashing.
	assert.ErrorIs(t, DeleteOrder(db, view.ID), ErrOrderNotFound)
}

func TestOrderHandlersMapErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	seedProduct(t, db, 3, "Yerba", "", 10.0)
	bc := &recordingBroadcaster{}

	r := gin.New()
	r.POST("/api/orders", PlaceOrderHandler(db, bc, nil))
	r.PUT("/api/orders/:id/status", UpdateOrderStatusHandler(db, bc))
	r.DELETE("/api/orders/:id", DeleteOrderHandler(db))

	// 201 on a valid order
	body := `{"userId":7,"products":[{"id":3,"quantity":2,"price":10.0}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Message string `json:"message"`
		OrderID uint   `json:"orderId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Pedido registrado con éxito.", created.Message)
	assert.NotZero(t, created.OrderID)

	// 400 on an empty item list
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(`{"userId":7,"products":[]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 400 on an unknown status
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut,
		fmt.Sprintf("/api/orders/%d/status", created.OrderID),
		bytes.NewBufferString(`{"status":"Enviado"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 404 on a nonexistent order
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/orders/9999/status",
		bytes.NewBufferString(`{"status":"Listo"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 200 on delete, then 404 on the second delete
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/orders/%d", created.OrderID), nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/orders/%d", created.OrderID), nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
