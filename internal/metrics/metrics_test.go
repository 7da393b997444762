package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordStockAdjustmentSkipsNonPositive(t *testing.T) {
	before := testutil.ToFloat64(stockAdjustmentsTotal.WithLabelValues("batch", "updated"))
	RecordStockAdjustment("batch", "updated", 0)
	RecordStockAdjustment("batch", "updated", 2)
	after := testutil.ToFloat64(stockAdjustmentsTotal.WithLabelValues("batch", "updated"))
	if after-before != 2 {
		t.Fatalf("want +2 got %v", after-before)
	}
}

func TestGinMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("ping want 200 got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	if !strings.Contains(body, `http_requests_total{endpoint="/ping",method="GET",status_code="200"} 1`) {
		t.Fatalf("metrics output missing ping counter:\n%s", body)
	}
}
