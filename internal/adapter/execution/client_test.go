package execution

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_Success(t *testing.T) {
	var gotPath, gotProject, gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotProject = r.Header.Get("X-Appwrite-Project")

		var req executionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotBody = req.Body

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"$id": "exec-1",
			"status": "completed",
			"responseStatusCode": 200,
			"responseBody": "{\"success\":true,\"messageId\":\"<m1@relay>\"}",
			"logs": "email sent"
		}`))
	}))
	defer server.Close()

	c := NewClient(Config{Endpoint: server.URL + "/", ProjectID: "proj-1", Timeout: 2 * time.Second})
	exec, err := c.Execute(context.Background(), "fn-1", map[string]string{"to": "a@b.com"})

	require.NoError(t, err)
	assert.Equal(t, "/v1/functions/fn-1/executions", gotPath)
	assert.Equal(t, "proj-1", gotProject)
	assert.JSONEq(t, `{"to":"a@b.com"}`, gotBody)

	assert.Equal(t, "exec-1", exec.ID)
	assert.Equal(t, "completed", exec.Status)
	assert.Equal(t, "email sent", exec.Logs)
	assert.True(t, exec.Succeeded())

	resp, ok := exec.FunctionResponse()
	require.True(t, ok)
	assert.Equal(t, "<m1@relay>", resp["messageId"])
}

func TestExecution_FunctionResponse(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantOK      bool
		wantSuccess bool
	}{
		{"empty", "", false, false},
		{"not json", "Internal error", false, false},
		{"failure", `{"success":false,"error":"Out of quota"}`, true, false},
		{"success", `{"success":true,"textId":"1"}`, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Execution{ResponseBody: tt.body}
			_, ok := e.FunctionResponse()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantSuccess, e.Succeeded())
		})
	}
}

func TestExecute_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"missing scope"}`))
	}))
	defer server.Close()

	_, err := NewClient(Config{Endpoint: server.URL, ProjectID: "p"}).Execute(context.Background(), "fn", map[string]string{})

	require.ErrorIs(t, err, ErrExecutionFailed)
	assert.Contains(t, err.Error(), "missing scope")
}

func TestExecute_UnexpectedFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	_, err := NewClient(Config{Endpoint: server.URL, ProjectID: "p"}).Execute(context.Background(), "fn", map[string]string{})

	assert.ErrorIs(t, err, ErrExecutionFailed)
}
