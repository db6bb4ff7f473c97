package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"logistics/internal/database"
	"logistics/internal/history"
	"logistics/internal/models"
	"logistics/internal/redis"
	"logistics/internal/repository"
	"logistics/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testLabel = "Người gửi: Nguyễn Văn An\nNgười nhận: Trần Thị Bình\nĐịa chỉ: 45 Trần Phú, Đà Nẵng"

type staticRecognizer string

func (r staticRecognizer) ExtractText([]byte, string) (string, error) {
	return string(r), nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type APIHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
	admin  string
	staff  string
}

func TestAPIHandlerSuite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(APIHandlerTestSuite))
}

func (s *APIHandlerTestSuite) SetupTest() {
	db, err := database.Initialize("sqlite://:memory:", "silent")
	require.NoError(s.T(), err)

	server := miniredis.RunT(s.T())
	sessions, err := redis.Initialize("redis://" + server.Addr())
	require.NoError(s.T(), err)
	s.T().Cleanup(func() { sessions.Close() })

	orderRepo := repository.NewOrderRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	routeService := services.NewRouteService(repository.NewRouteRepository(db), orderRepo, decimal.NewFromInt(10000))
	orderService := services.NewOrderService(orderRepo, warehouseRepo, routeService)
	warehouseService := services.NewWarehouseService(warehouseRepo, orderRepo)
	userService := services.NewUserService(repository.NewUserRepository(db))
	undoService := services.NewUndoService(history.New(10), orderService, warehouseService, routeService, zerolog.Nop())
	ocrService := services.NewOCRService(staticRecognizer(testLabel), sessions, time.Hour, zerolog.Nop())

	_, err = userService.CreateDefaultAdmin("admin123")
	require.NoError(s.T(), err)
	_, err = userService.CreateUser("lan", "staff123", "Lê Lan", models.RoleStaff)
	require.NoError(s.T(), err)

	h := NewAPIHandler(
		userService, orderService, warehouseService, routeService, undoService,
		ocrService, services.NewReportService(orderRepo),
		sessions, "test-secret", time.Hour, zerolog.Nop(),
	)
	s.router = gin.New()
	h.RegisterRoutes(s.router)

	s.admin = s.login("admin", "admin123")
	s.staff = s.login("lan", "staff123")
}

func (s *APIHandlerTestSuite) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APIHandlerTestSuite) decode(w *httptest.ResponseRecorder, data interface{}) envelope {
	var env envelope
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(s.T(), json.Unmarshal(env.Data, data))
	}
	return env
}

func (s *APIHandlerTestSuite) login(username, password string) string {
	w := s.do(http.MethodPost, "/api/auth/login", gin.H{"username": username, "password": password}, "")
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp loginResponse
	s.decode(w, &resp)
	return resp.Token
}

func (s *APIHandlerTestSuite) createOrder(code string) models.Order {
	w := s.do(http.MethodPost, "/api/orders", gin.H{
		"tracking_code": code,
		"sender":        gin.H{"name": "Nguyễn Văn An", "province": "Hà Nội"},
		"receiver":      gin.H{"name": "Trần Thị Bình", "province": "Đà Nẵng"},
		"weight":        2,
		"shipping_cost": 30000,
	}, s.staff)
	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())
	var order models.Order
	s.decode(w, &order)
	return order
}

func (s *APIHandlerTestSuite) TestLoginRejected() {
	w := s.do(http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": "nope"}, "")
	require.Equal(s.T(), http.StatusUnauthorized, w.Code)
	env := s.decode(w, nil)
	require.False(s.T(), env.Success)

	w = s.do(http.MethodPost, "/api/auth/login", gin.H{"username": "admin"}, "")
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *APIHandlerTestSuite) TestAuthRequired() {
	require.Equal(s.T(), http.StatusUnauthorized, s.do(http.MethodGet, "/api/orders", nil, "").Code)
	require.Equal(s.T(), http.StatusUnauthorized, s.do(http.MethodGet, "/api/orders", nil, "garbage").Code)

	w := s.do(http.MethodGet, "/api/auth/me", nil, s.staff)
	require.Equal(s.T(), http.StatusOK, w.Code)
	var me models.User
	s.decode(w, &me)
	require.Equal(s.T(), "lan", me.Username)
}

func (s *APIHandlerTestSuite) TestLogoutRevokesSession() {
	require.Equal(s.T(), http.StatusOK, s.do(http.MethodPost, "/api/auth/logout", nil, s.staff).Code)
	require.Equal(s.T(), http.StatusUnauthorized, s.do(http.MethodGet, "/api/orders", nil, s.staff).Code)
	require.Equal(s.T(), http.StatusOK, s.do(http.MethodGet, "/api/orders", nil, s.admin).Code)
}

func (s *APIHandlerTestSuite) TestAdminOnlyRoutes() {
	order := s.createOrder("VN001")
	path := "/api/orders/" + itoa(order.ID)

	require.Equal(s.T(), http.StatusForbidden, s.do(http.MethodDelete, path, nil, s.staff).Code)
	require.Equal(s.T(), http.StatusForbidden, s.do(http.MethodPost, "/api/users", gin.H{"username": "x", "password": "y"}, s.staff).Code)

	require.Equal(s.T(), http.StatusOK, s.do(http.MethodDelete, path, nil, s.admin).Code)
	require.Equal(s.T(), http.StatusNotFound, s.do(http.MethodGet, path, nil, s.admin).Code)
}

func (s *APIHandlerTestSuite) TestOrderLifecycleWithUndo() {
	order := s.createOrder("VN001")
	require.Equal(s.T(), models.StatusNew, order.Status)

	dup := s.do(http.MethodPost, "/api/orders", gin.H{"tracking_code": "VN001"}, s.staff)
	require.Equal(s.T(), http.StatusConflict, dup.Code)

	path := "/api/orders/" + itoa(order.ID)
	w := s.do(http.MethodPut, path+"/status", gin.H{"status": models.StatusShipping, "note": "picked up"}, s.staff)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/history", nil, s.staff)
	var state services.HistoryState
	s.decode(w, &state)
	require.True(s.T(), state.CanUndo)
	require.Equal(s.T(), "Undo change status of order #"+itoa(order.ID), state.UndoDescription)

	w = s.do(http.MethodPost, "/api/history/undo", nil, s.staff)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())

	var current models.Order
	s.decode(s.do(http.MethodGet, path, nil, s.staff), &current)
	require.Equal(s.T(), models.StatusNew, current.Status)

	var rows []models.OrderStatusHistory
	s.decode(s.do(http.MethodGet, path+"/status-history", nil, s.staff), &rows)
	require.Len(s.T(), rows, 3)

	require.Equal(s.T(), http.StatusOK, s.do(http.MethodPost, "/api/history/redo", nil, s.staff).Code)
	s.decode(s.do(http.MethodGet, path, nil, s.staff), &current)
	require.Equal(s.T(), models.StatusShipping, current.Status)

	require.Equal(s.T(), http.StatusConflict, s.do(http.MethodPost, "/api/history/redo", nil, s.staff).Code)
}

func (s *APIHandlerTestSuite) TestUpdateAndFilterOrders() {
	order := s.createOrder("VN001")
	s.createOrder("VN002")
	path := "/api/orders/" + itoa(order.ID)

	require.Equal(s.T(), http.StatusBadRequest, s.do(http.MethodPut, path, gin.H{}, s.staff).Code)
	require.Equal(s.T(), http.StatusBadRequest, s.do(http.MethodPut, "/api/orders/abc", gin.H{"item_name": "x"}, s.staff).Code)

	w := s.do(http.MethodPut, path, gin.H{"item_name": "Laptop"}, s.staff)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())

	var found []models.Order
	s.decode(s.do(http.MethodGet, "/api/orders?q=laptop", nil, s.staff), &found)
	require.Len(s.T(), found, 1)
	require.Equal(s.T(), order.ID, found[0].ID)

	// the filter only looks at codes, names and phones
	s.decode(s.do(http.MethodGet, "/api/orders?search=laptop", nil, s.staff), &found)
	require.Empty(s.T(), found)

	s.decode(s.do(http.MethodGet, "/api/orders?search=VN002", nil, s.staff), &found)
	require.Len(s.T(), found, 1)

	s.decode(s.do(http.MethodGet, "/api/orders?"+url.Values{"province": {"Hà Nội"}, "days": {"7"}}.Encode(), nil, s.staff), &found)
	require.Len(s.T(), found, 2)

	require.Equal(s.T(), http.StatusBadRequest, s.do(http.MethodGet, "/api/orders?status=Lost", nil, s.staff).Code)

	var provinces []string
	s.decode(s.do(http.MethodGet, "/api/orders/provinces", nil, s.staff), &provinces)
	require.Equal(s.T(), []string{"Hà Nội", "Đà Nẵng"}, provinces)
}

func (s *APIHandlerTestSuite) TestWarehouseFlow() {
	w := s.do(http.MethodPost, "/api/warehouses", gin.H{"name": "Kho Hà Nội", "capacity": 4}, s.staff)
	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())
	var warehouse models.Warehouse
	s.decode(w, &warehouse)

	order := s.createOrder("VN001")
	w = s.do(http.MethodPut, "/api/orders/"+itoa(order.ID)+"/warehouse", gin.H{"warehouse_id": warehouse.ID}, s.staff)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())

	var stats models.WarehouseStats
	s.decode(s.do(http.MethodGet, "/api/warehouses/"+itoa(warehouse.ID)+"/stats", nil, s.staff), &stats)
	require.EqualValues(s.T(), 1, stats.OrderCount)
	require.Equal(s.T(), 25.0, stats.CapacityPct)

	var moves []models.OrderWarehouseHistory
	s.decode(s.do(http.MethodGet, "/api/orders/"+itoa(order.ID)+"/warehouse-history", nil, s.staff), &moves)
	require.Len(s.T(), moves, 1)

	require.Equal(s.T(), http.StatusConflict, s.do(http.MethodDelete, "/api/warehouses/"+itoa(warehouse.ID), nil, s.staff).Code)
}

func (s *APIHandlerTestSuite) TestRoutesAndQuote() {
	w := s.do(http.MethodPost, "/api/routes", gin.H{
		"origin_province": "Hà Nội",
		"dest_province":   "Đà Nẵng",
		"base_price":      30000,
		"price_per_kg":    5000,
	}, s.staff)
	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())

	var quote quoteResponse
	s.decode(s.do(http.MethodGet, "/api/routes/quote?"+url.Values{"origin": {"Hà Nội"}, "dest": {"Đà Nẵng"}, "weight": {"7.5"}}.Encode(), nil, s.staff), &quote)
	require.True(s.T(), decimal.NewFromInt(67500).Equal(quote.Cost), quote.Cost.String())

	require.Equal(s.T(), http.StatusBadRequest, s.do(http.MethodGet, "/api/routes/quote?weight=-2", nil, s.staff).Code)

	var stats []models.RouteStats
	s.decode(s.do(http.MethodGet, "/api/routes/stats", nil, s.staff), &stats)
	require.Len(s.T(), stats, 1)
}

func (s *APIHandlerTestSuite) TestOCREndpoints() {
	var info struct {
		Sender   models.Contact `json:"sender"`
		Receiver models.Contact `json:"receiver"`
	}
	s.decode(s.do(http.MethodPost, "/api/ocr/parse", gin.H{"text": testLabel}, s.staff), &info)
	require.Equal(s.T(), "Trần Thị Bình", info.Receiver.Name)
	require.Equal(s.T(), "Đà Nẵng", info.Receiver.Province)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "label.png")
	require.NoError(s.T(), err)
	_, err = part.Write([]byte("fake image"))
	require.NoError(s.T(), err)
	require.NoError(s.T(), form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/ocr/scan", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.staff)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	s.decode(w, &info)
	require.Equal(s.T(), "Nguyễn Văn An", info.Sender.Name)

	require.Equal(s.T(), http.StatusBadRequest, s.do(http.MethodPost, "/api/ocr/scan", nil, s.staff).Code)
}

func (s *APIHandlerTestSuite) TestExport() {
	require.Equal(s.T(), http.StatusNotFound, s.do(http.MethodGet, "/api/orders/export", nil, s.staff).Code)

	s.createOrder("VN001")
	w := s.do(http.MethodGet, "/api/orders/export", nil, s.staff)
	require.Equal(s.T(), http.StatusOK, w.Code)
	require.Equal(s.T(), xlsxContentType, w.Header().Get("Content-Type"))
	require.Contains(s.T(), w.Header().Get("Content-Disposition"), ".xlsx")
	require.NotZero(s.T(), w.Body.Len())
}

func (s *APIHandlerTestSuite) TestUsers() {
	w := s.do(http.MethodPost, "/api/users", gin.H{"username": "minh", "password": "pw"}, s.admin)
	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())

	var users []models.User
	s.decode(s.do(http.MethodGet, "/api/users", nil, s.staff), &users)
	require.Len(s.T(), users, 3)
	require.NotContains(s.T(), s.do(http.MethodGet, "/api/users", nil, s.staff).Body.String(), "password")

	require.Equal(s.T(), http.StatusForbidden, s.do(http.MethodDelete, "/api/users/1", nil, s.admin).Code)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
