package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/schoolsite/internal/app/controllers"
	"github.com/yigit/schoolsite/internal/middleware"
	"github.com/yigit/schoolsite/internal/pkg/auth"
	"github.com/yigit/schoolsite/internal/pkg/visitor"
	"github.com/yigit/schoolsite/internal/pkg/websocket"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	lgr := zerolog.Nop()
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})

	router := gin.New()
	SetupRouter(router, Controllers{
		Site:      controllers.NewSiteController(nil, nil, lgr),
		Admission: controllers.NewAdmissionController(nil, nil, nil, visitor.NewStore(time.Minute), lgr),
		Stats:     controllers.NewStatsController(nil, nil, lgr),
		Auth:      controllers.NewAuthController(nil, lgr),
		Admin:     controllers.NewAdminController(nil, lgr),
		Live:      websocket.NewHandler(websocket.NewHub(lgr), "", lgr),
	}, middleware.NewAuthMiddleware(jwt), middleware.VisitorConfig{CookieName: "vid", TTL: time.Minute})
	return router
}

func TestSetupRouter_RouteTable(t *testing.T) {
	registered := map[string]bool{}
	for _, r := range newRouter().Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /",
		"GET /notices",
		"GET " + controllers.AdmissionPath,
		"POST " + controllers.AdmissionPath,
		"GET " + controllers.ConfirmationPath,
		"GET /api/v1/stats",
		"GET /api/v1/health",
		"GET /api/v1/notices/live",
		"POST /api/v1/auth/login",
		"PUT /api/v1/admin/academic-years/:id/current",
		"POST /api/v1/admin/notices",
	} {
		assert.True(t, registered[want], "route %s", want)
	}
}

func TestSetupRouter_AdminRequiresToken(t *testing.T) {
	router := newRouter()

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/api/v1/admin/notices", nil),
		httptest.NewRequest(http.MethodPut, "/api/v1/admin/academic-years/1/current", nil),
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, req.URL.Path)
	}
}
