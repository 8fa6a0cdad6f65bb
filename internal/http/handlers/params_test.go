package handlers

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestQueryHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/?lat=40.5&radius_km=&skills=boat,%20medic&skills=rope&limit=x", nil)

	if v, ok := queryFloat(c, "lat"); !ok || v != 40.5 {
		t.Fatalf("expected 40.5, got %v %v", v, ok)
	}
	if v, ok := queryFloatDefault(c, "radius_km", 10); !ok || v != 10 {
		t.Fatalf("expected default radius, got %v %v", v, ok)
	}
	if got := queryList(c, "skills"); !reflect.DeepEqual(got, []string{"boat", "medic", "rope"}) {
		t.Fatalf("unexpected skills: %v", got)
	}
	if _, ok := queryInt(c, "limit"); ok {
		t.Fatalf("expected invalid limit")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 written, got %d", w.Code)
	}
}
