package team

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gracecity/church-backend/internal/db"
)

func TestListInDisplayOrder(t *testing.T) {
	h, _ := db.Open("", time.Second)
	m := Init(h)
	admin := m.AdminRoutes()
	for _, body := range []string{
		`{"name":"Deacon Ade","order":3,"isPublished":true}`,
		`{"name":"Pastor Grace","order":1,"isPublished":true}`,
		`{"name":"Hidden","order":0,"isPublished":false}`,
		`{"name":"Sister Joy","order":2,"isPublished":true}`,
	} {
		rec := httptest.NewRecorder()
		admin.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		if rec.Code != http.StatusCreated {
			t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	m.PublicRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	var list struct {
		Members []Member `json:"members"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &list)

	var names []string
	for _, mem := range list.Members {
		names = append(names, mem.Name)
	}
	if strings.Join(names, ",") != "Pastor Grace,Sister Joy,Deacon Ade" {
		t.Fatalf("order = %v", names)
	}
}
