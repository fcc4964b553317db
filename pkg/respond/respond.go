package respond

import (
	"bytes"
	"encoding/json"
	"net/http"
)

const ContentType = "application/json"

// Headers returns the headers every function result carries: JSON content
// and a permissive cross-origin marker for browser callers.
func Headers() map[string]string {
	return map[string]string{
		"Content-Type":                ContentType,
		"Access-Control-Allow-Origin": "*",
	}
}

// Marshal encodes data as compact JSON text without HTML escaping, so that
// descriptions round-trip byte for byte.
func Marshal(data interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func JSON(w http.ResponseWriter, r *http.Request, code int, data interface{}) {
	for k, v := range Headers() {
		w.Header().Set(k, v)
	}
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, map[string]string{"error": message})
}
