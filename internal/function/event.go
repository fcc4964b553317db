package function

import (
	"encoding/json"

	"github.com/BuzzLyutic/serverless-todo/internal/model"
	"github.com/BuzzLyutic/serverless-todo/pkg/respond"
)

// Event is an invocation payload. Values stay raw because callers disagree
// on their shape: body in particular may be an object or a JSON string.
type Event map[string]json.RawMessage

func (e Event) String(key string) string {
	return model.ScalarString(e[key])
}

func (e Event) Bool(key string) bool {
	return model.ScalarBool(e[key])
}

func (e Event) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// Response is the function result envelope. Body is JSON text.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

func newResponse(code int, data interface{}) Response {
	body, err := respond.Marshal(data)
	if err != nil {
		code = 500
		body = `{"error":"failed to encode result"}`
	}
	return Response{
		StatusCode: code,
		Headers:    respond.Headers(),
		Body:       body,
	}
}

func ok(message string) Response {
	return newResponse(200, model.Message{Message: message})
}

func failure(code int, message string) Response {
	return newResponse(code, model.Failure{Error: message})
}
