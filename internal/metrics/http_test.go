package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scrape returns the Prometheus exposition of provider.
func scrape(t *testing.T, provider *Provider) string {
	t.Helper()

	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success_RecordsRoutePatternNotPath", func(t *testing.T) {
		provider, err := NewProvider("http_test")
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, provider.Shutdown(context.Background()))
		}()

		router := gin.New()
		router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "http_test"))
		router.GET("/users/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"_id": c.Param("id")})
		})

		for _, id := range []string{"alice", "bob"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/"+id, nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}

		output := scrape(t, provider)
		assertBizMetricLine(
			t,
			output,
			`http_test_http_requests_total`,
			`method="GET".*path="/users/:id".*status_code="200"`,
			`2`,
		)
		assert.NotContains(t, output, `path="/users/alice"`)
	})

	t.Run("Success_RecordsStatusCodes", func(t *testing.T) {
		provider, err := NewProvider("http_status_test")
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, provider.Shutdown(context.Background()))
		}()

		router := gin.New()
		router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "http_status_test"))
		router.PUT("/users", func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"id": "carol", "rev": "1-c"})
		})
		router.DELETE("/users/:id", func(c *gin.Context) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/users", nil))
		assert.Equal(t, http.StatusCreated, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/bob", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)

		output := scrape(t, provider)
		assertBizMetricLine(t, output, `http_status_test_http_requests_total`,
			`method="PUT".*path="/users".*status_code="201"`, `1`)
		assertBizMetricLine(t, output, `http_status_test_http_requests_total`,
			`method="DELETE".*path="/users/:id".*status_code="403"`, `1`)
		assertBizMetricLine(t, output, `http_status_test_http_requests_total`,
			`path="unknown".*status_code="404"`, `1`)
	})
}

func TestRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen []string
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Next()
		seen = append(seen, routePattern(c))
	})
	router.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/transmitters/_names", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, target := range []string{"/users/alice", "/transmitters/_names", "/nowhere"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	assert.Equal(t, []string{"/users/:id", "/transmitters/_names", "unknown"}, seen)
}
