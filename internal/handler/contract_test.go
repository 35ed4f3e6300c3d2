package handler_test

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"
)

func compileSchema(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()

	path, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + path)
	require.NoError(t, err)
	return schema
}

func TestEnvelopeContract(t *testing.T) {
	api := newAPI(t, true)
	schema := compileSchema(t, "envelope.schema.json")
	mentor := bearer(t, "mentor-1", "mentor")

	cases := []struct {
		name   string
		method string
		path   string
		auth   string
		body   any
		status int
	}{
		{name: "list", method: http.MethodGet, path: "/api/v1/projects", auth: mentor, status: http.StatusOK},
		{name: "forbidden", method: http.MethodPost, path: "/api/v1/projects", auth: mentor, body: map[string]string{"title": "x"}, status: http.StatusForbidden},
		{name: "not found", method: http.MethodPost, path: "/api/v1/applications/404/decision", auth: mentor, body: map[string]string{"outcome": "approved"}, status: http.StatusNotFound},
		{name: "invalid", method: http.MethodPost, path: "/api/v1/applications/1/decision", auth: mentor, body: map[string]string{"outcome": "maybe"}, status: http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := api.raw(tc.method, tc.path, tc.auth, tc.body)
			require.Equal(t, tc.status, resp.StatusCode, string(body))

			var payload interface{}
			require.NoError(t, json.Unmarshal(body, &payload))
			require.NoError(t, schema.Validate(payload))
		})
	}
}

func TestSubmissionContract(t *testing.T) {
	api := newAPI(t, true)
	schema := compileSchema(t, "submission.schema.json")

	status, env := api.call(http.MethodGet, "/api/v1/submissions", bearer(t, "coord", "coordinator"), nil)
	require.Equal(t, http.StatusOK, status)

	var submissions []interface{}
	require.NoError(t, json.Unmarshal(env.Data, &submissions))
	require.NotEmpty(t, submissions)
	for _, submission := range submissions {
		require.NoError(t, schema.Validate(submission))
	}
}
