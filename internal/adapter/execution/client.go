// Package execution triggers deployed relay functions through a hosted
// function runtime's executions API and decodes what they returned.
package execution

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mehmetymw/notification-relay/pkg/tracing"
)

var ErrExecutionFailed = errors.New("function execution failed")

type Config struct {
	Endpoint  string
	ProjectID string
	APIKey    string
	Timeout   time.Duration
}

type Client struct {
	endpoint string
	client   *resty.Client
}

func NewClient(cfg Config) *Client {
	hc := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	rc := resty.NewWithClient(hc).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Appwrite-Project", cfg.ProjectID)
	if cfg.APIKey != "" {
		rc.SetHeader("X-Appwrite-Key", cfg.APIKey)
	}

	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		client:   rc,
	}
}

// Execution mirrors the fields of an execution record the harness reports.
type Execution struct {
	ID                 string `json:"$id"`
	Status             string `json:"status"`
	ResponseStatusCode int    `json:"responseStatusCode"`
	ResponseBody       string `json:"responseBody"`
	Logs               string `json:"logs"`
	Errors             string `json:"errors"`
	Stdout             string `json:"stdout"`
	Stderr             string `json:"stderr"`
}

// FunctionResponse decodes the function's own JSON reply. ok is false when
// the body is empty or not a JSON object.
func (e *Execution) FunctionResponse() (resp map[string]any, ok bool) {
	if e.ResponseBody == "" {
		return nil, false
	}
	if err := json.Unmarshal([]byte(e.ResponseBody), &resp); err != nil {
		return nil, false
	}
	return resp, true
}

// Succeeded reports whether the function replied with success:true.
func (e *Execution) Succeeded() bool {
	resp, ok := e.FunctionResponse()
	if !ok {
		return false
	}
	success, _ := resp["success"].(bool)
	return success
}

type executionRequest struct {
	Body string `json:"body"`
}

// Execute runs functionID synchronously with payload serialized as the
// request body string.
func (c *Client) Execute(ctx context.Context, functionID string, payload any) (*Execution, error) {
	ctx, span := tracing.Tracer().Start(ctx, "execution.create")
	defer span.End()

	span.SetAttributes(attribute.String("execution.function_id", functionID))

	body, err := json.Marshal(payload)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(executionRequest{Body: string(body)}).
		Post(fmt.Sprintf("%s/v1/functions/%s/executions", c.endpoint, functionID))
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%w: %v", ErrExecutionFailed, err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode()))

	if resp.IsError() {
		statusErr := fmt.Errorf("%w: %s: %s", ErrExecutionFailed, resp.Status(), strings.TrimSpace(string(resp.Body())))
		tracing.RecordError(span, statusErr)
		return nil, statusErr
	}

	var exec Execution
	if err := json.Unmarshal(resp.Body(), &exec); err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%w: decoding execution: %v", ErrExecutionFailed, err)
	}
	if exec.ID == "" {
		return nil, fmt.Errorf("%w: unexpected response format", ErrExecutionFailed)
	}

	span.SetAttributes(
		attribute.String("execution.id", exec.ID),
		attribute.String("execution.status", exec.Status),
	)

	return &exec, nil
}
