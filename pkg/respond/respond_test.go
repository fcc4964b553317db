package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		data     interface{}
		wantCode int
		wantBody map[string]interface{}
	}{
		{
			name:     "success response",
			code:     http.StatusOK,
			data:     map[string]string{"message": "Item added successfully"},
			wantCode: http.StatusOK,
			wantBody: map[string]interface{}{"message": "Item added successfully"},
		},
		{
			name:     "envelope response",
			code:     http.StatusOK,
			data:     map[string]int{"statusCode": 200},
			wantCode: http.StatusOK,
			wantBody: map[string]interface{}{"statusCode": float64(200)}, // JSON unmarshals numbers as float64
		},
		{
			name:     "empty object",
			code:     http.StatusOK,
			data:     map[string]string{},
			wantCode: http.StatusOK,
			wantBody: map[string]interface{}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			JSON(w, r, tt.code, tt.data)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

			var got map[string]interface{}
			err := json.NewDecoder(w.Body).Decode(&got)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, got)
		})
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		message  string
		wantCode int
		wantErr  string
	}{
		{
			name:     "bad request",
			code:     http.StatusBadRequest,
			message:  "invalid event json",
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid event json",
		},
		{
			name:     "unknown action",
			code:     http.StatusBadRequest,
			message:  "Unknown action: purgeAll",
			wantCode: http.StatusBadRequest,
			wantErr:  "Unknown action: purgeAll",
		},
		{
			name:     "internal error",
			code:     http.StatusInternalServerError,
			message:  "something went wrong",
			wantCode: http.StatusInternalServerError,
			wantErr:  "something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			Error(w, r, tt.code, tt.message)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var got map[string]string
			err := json.NewDecoder(w.Body).Decode(&got)
			require.NoError(t, err)
			assert.Equal(t, tt.wantErr, got["error"])
		})
	}
}

func TestMarshal(t *testing.T) {
	tests := []struct {
		name string
		data interface{}
		want string
	}{
		{
			name: "no html escaping",
			data: map[string]string{"description": "milk & <eggs>"},
			want: `{"description":"milk & <eggs>"}`,
		},
		{
			name: "empty list",
			data: []string{},
			want: `[]`,
		},
		{
			name: "non ascii kept",
			data: map[string]string{"description": "купить молоко"},
			want: `{"description":"купить молоко"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeaders(t *testing.T) {
	h := Headers()
	assert.Equal(t, ContentType, h["Content-Type"])
	assert.Equal(t, "*", h["Access-Control-Allow-Origin"])

	h["Content-Type"] = "text/plain"
	assert.Equal(t, ContentType, Headers()["Content-Type"], "each call returns a fresh map")
}
