package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// GraphQLError is one entry of a GraphQL response's top-level errors.
type GraphQLError struct {
	Message string `json:"message"`
}

// GraphQLResponse is the decoded body of a /graphql response.
type GraphQLResponse struct {
	Data   map[string]any `json:"data"`
	Errors []GraphQLError `json:"errors"`
}

// Field walks nested objects of Data by key.
func (r GraphQLResponse) Field(path ...string) any {
	var cur any = r.Data
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[key]
	}
	return cur
}

// PostGraphQL sends a GraphQL request to handler and decodes the response.
// An empty token sends an anonymous request.
func PostGraphQL(t *testing.T, handler http.Handler, token, query string, variables map[string]any) (int, GraphQLResponse) {
	t.Helper()

	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	require.NoError(t, err, "Failed to marshal GraphQL request")

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var resp GraphQLResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Failed to parse GraphQL response: %s", w.Body.String())
	return w.Code, resp
}
