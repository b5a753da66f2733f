package api

import (
	"net/http"
	"strings"
	"testing"
)

func jsonRequest(body string) *http.Request {
	r, _ := http.NewRequest(http.MethodPost, "/api/tenants", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
		Days int    `json:"days"`
	}
	if err := DecodeJSON(jsonRequest(`{"name":"Ravi","days":30}`), &dst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dst.Name != "Ravi" || dst.Days != 30 {
		t.Errorf("decoded %+v", dst)
	}
}

func TestDecodeJSON_BadInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"empty body", "", "request body is empty"},
		{"malformed", `{bad}`, "malformed JSON"},
		{"wrong type", `{"days":"thirty"}`, "invalid value for field"},
		{"unknown field", `{"daze":30}`, "unknown field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst struct {
				Days int `json:"days"`
			}
			err := DecodeJSON(jsonRequest(tt.body), &dst)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeJSON_NilBody(t *testing.T) {
	r, _ := http.NewRequest(http.MethodPost, "/api/tenants", nil)

	var dst struct{}
	if err := DecodeJSON(r, &dst); err == nil {
		t.Fatal("expected error for nil body")
	}
}

func TestDecodeJSON_OversizedBody(t *testing.T) {
	huge := `{"note":"` + strings.Repeat("x", maxRequestBody+1) + `"}`

	var dst struct {
		Note string `json:"note"`
	}
	err := DecodeJSON(jsonRequest(huge), &dst)
	if err == nil {
		t.Fatal("expected error for oversized body")
	}
	if !strings.Contains(err.Error(), "exceeds maximum size") {
		t.Errorf("error = %q", err)
	}
}
