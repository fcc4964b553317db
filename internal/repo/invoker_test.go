package repo

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/serverless-todo/internal/function"
)

type MockLambdaAPI struct {
	mock.Mock
}

func (m *MockLambdaAPI) Invoke(ctx context.Context, in *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*lambda.InvokeOutput)
	return out, args.Error(1)
}

func TestInvokePath(t *testing.T) {
	assert.Equal(t, "/2015-03-31/functions/TodoFunction/invocations", InvokePath("TodoFunction"))
	assert.Equal(t, "/2015-03-31/functions/a%2Fb/invocations", InvokePath("a/b"))
}

func TestHTTPInvoker(t *testing.T) {
	var gotPath, gotMethod, gotBody, gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"statusCode":200,"body":"[]"}`))
	}))
	defer server.Close()

	inv := NewHTTPInvoker(server.URL+"/", time.Second)
	raw, err := inv.Invoke(context.Background(), "TodoFunction", []byte(`{"action":"getTodoItems"}`))

	require.NoError(t, err)
	assert.JSONEq(t, `{"statusCode":200,"body":"[]"}`, string(raw))
	assert.Equal(t, "/2015-03-31/functions/TodoFunction/invocations", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, `{"action":"getTodoItems"}`, gotBody)
}

func TestHTTPInvoker_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such function", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewHTTPInvoker(server.URL, time.Second).Invoke(context.Background(), "Missing", []byte(`{}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "http status 404")
	assert.Contains(t, err.Error(), "no such function")
}

func TestHTTPInvoker_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewHTTPInvoker(url, time.Second).Invoke(context.Background(), "TodoFunction", []byte(`{}`))

	assert.Error(t, err)
}

func TestLambdaInvoker(t *testing.T) {
	api := new(MockLambdaAPI)
	api.On("Invoke", mock.Anything, mock.MatchedBy(func(in *lambda.InvokeInput) bool {
		return aws.ToString(in.FunctionName) == "TodoFunction" &&
			in.InvocationType == types.InvocationTypeRequestResponse &&
			string(in.Payload) == `{"action":"getTodoItems"}`
	})).Return(&lambda.InvokeOutput{StatusCode: 200, Payload: []byte(`{"statusCode":200,"body":"[]"}`)}, nil)

	raw, err := NewLambdaInvoker(api).Invoke(context.Background(), "TodoFunction", []byte(`{"action":"getTodoItems"}`))

	require.NoError(t, err)
	assert.Equal(t, `{"statusCode":200,"body":"[]"}`, string(raw))
	api.AssertExpectations(t)
}

func TestLambdaInvoker_Error(t *testing.T) {
	api := new(MockLambdaAPI)
	api.On("Invoke", mock.Anything, mock.Anything).Return(nil, errors.New("ResourceNotFoundException"))

	_, err := NewLambdaInvoker(api).Invoke(context.Background(), "Missing", []byte(`{}`))

	assert.EqualError(t, err, "ResourceNotFoundException")
}

func TestDirectInvoker(t *testing.T) {
	h := function.NewHandler(function.NewMemoryTable(), function.Options{}, zap.NewNop())
	inv := NewDirectInvoker(h)

	raw, err := inv.Invoke(context.Background(), "TodoFunction", []byte(`{"action":"nope"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"statusCode":400,"headers":{"Content-Type":"application/json","Access-Control-Allow-Origin":"*"},"body":"{\"error\":\"Unknown action: nope\"}"}`, string(raw))

	_, err = inv.Invoke(context.Background(), "TodoFunction", []byte(`not json`))
	assert.Error(t, err)
}
