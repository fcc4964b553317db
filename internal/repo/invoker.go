package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"github.com/BuzzLyutic/serverless-todo/internal/function"
)

// Invoker runs a function synchronously and returns its raw result.
type Invoker interface {
	Invoke(ctx context.Context, functionName string, payload []byte) ([]byte, error)
}

// InvokePath is the Lambda Invoke REST path; the function server serves the
// same route.
func InvokePath(functionName string) string {
	return "/2015-03-31/functions/" + url.PathEscape(functionName) + "/invocations"
}

// HTTPInvoker posts the payload to a function server.
type HTTPInvoker struct {
	baseURL string
	client  *http.Client
}

func NewHTTPInvoker(baseURL string, timeout time.Duration) *HTTPInvoker {
	return &HTTPInvoker{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (i *HTTPInvoker) Invoke(ctx context.Context, functionName string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.baseURL+InvokePath(functionName), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invoke %s: http status %d: %s", functionName, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// LambdaAPI is the part of the Lambda client the invoker uses.
type LambdaAPI interface {
	Invoke(ctx context.Context, in *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaInvoker calls a deployed function through the AWS Lambda API.
type LambdaInvoker struct {
	client LambdaAPI
}

func NewLambdaInvoker(client LambdaAPI) *LambdaInvoker {
	return &LambdaInvoker{client: client}
}

// OpenLambdaInvoker builds a client from the default credential chain.
func OpenLambdaInvoker(ctx context.Context, region string) (*LambdaInvoker, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewLambdaInvoker(lambda.NewFromConfig(cfg)), nil
}

// Invoke returns the function payload as is. An unhandled function error
// arrives as {"errorMessage": ...} without a statusCode, which the gateway
// reports as a failed result.
func (i *LambdaInvoker) Invoke(ctx context.Context, functionName string, payload []byte) ([]byte, error) {
	out, err := i.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(functionName),
		InvocationType: types.InvocationTypeRequestResponse,
		Payload:        payload,
	})
	if err != nil {
		return nil, err
	}
	return out.Payload, nil
}

// DirectInvoker runs a handler in process.
type DirectInvoker struct {
	handler *function.Handler
}

func NewDirectInvoker(handler *function.Handler) *DirectInvoker {
	return &DirectInvoker{handler: handler}
}

func (i *DirectInvoker) Invoke(ctx context.Context, functionName string, payload []byte) ([]byte, error) {
	var ev function.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return json.Marshal(i.handler.Handle(ctx, ev, functionName))
}
