package metrics

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRoute(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/api/products/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})
	app.Get("/metrics", Handler())

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/products/:id", "404"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/products/abc", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/products/def", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/products/:id", "404"))
	assert.Equal(t, before+2, after)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `storefront_http_requests_total{method="GET",path="/api/products/:id",status="404"}`)
}

func TestRecordOrderCreated(t *testing.T) {
	before := testutil.ToFloat64(ordersCreated)
	RecordOrderCreated(3)
	assert.Equal(t, before+1, testutil.ToFloat64(ordersCreated))
}

func TestRecordOrderEvent(t *testing.T) {
	before := testutil.ToFloat64(orderEvents.WithLabelValues("false"))
	RecordOrderEvent(false)
	assert.Equal(t, before+1, testutil.ToFloat64(orderEvents.WithLabelValues("false")))
}

func TestMiddleware_ScrapeAfterMixedTraffic(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	echo := func(c *fiber.Ctx) error {
		return c.Send(c.Body())
	}
	app.Get("/api/widgets/:id", echo)
	app.Post("/api/widgets", echo)
	app.Put("/api/widgets/:id", echo)
	app.Delete("/api/widgets/:id", echo)
	app.Get("/metrics", Handler())

	methods := []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}
	for i := 0; i < 300; i++ {
		method := methods[i%len(methods)]
		target := fmt.Sprintf("/api/widgets/%d", i)
		if method == http.MethodPost {
			target = "/api/widgets"
		}
		req := httptest.NewRequest(method, target, strings.NewReader(fmt.Sprintf(`{"n":%d,"pad":"%s"}`, i, strings.Repeat("x", i%17))))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	for _, method := range methods {
		assert.Contains(t, string(body), fmt.Sprintf(`method="%s"`, method))
	}
	assert.NotContains(t, string(body), `method="POS"`)
}
