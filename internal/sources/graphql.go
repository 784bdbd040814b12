// internal/sources/graphql.go
package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// PostGraphQL executes one GraphQL request and decodes the data payload into
// out. Failures map onto the source error taxonomy: transport problems are
// network errors, 401/403 are auth errors, a non-empty errors array is a
// graphql error carrying the upstream message, and an undecodable body is a
// malformed-response error. Nothing is retried.
func PostGraphQL(ctx context.Context, client *http.Client, url string, headers map[string]string, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return WrapError(ErrKindMalformed, err, "encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return WrapError(ErrKindNetwork, err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return WrapError(ErrKindNetwork, err, "request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return WrapError(ErrKindNetwork, err, "read response")
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return NewError(ErrKindAuth, fmt.Sprintf("authentication rejected (%d): %s", resp.StatusCode, bodySnippet(respBody)))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return NewError(ErrKindNetwork, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, bodySnippet(respBody)))
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return WrapError(ErrKindMalformed, err, "decode response")
	}

	if len(gqlResp.Errors) > 0 {
		messages := make([]string, len(gqlResp.Errors))
		for i, e := range gqlResp.Errors {
			messages[i] = e.Message
		}
		return NewError(ErrKindGraphQL, strings.Join(messages, "; "))
	}

	if len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
		return NewError(ErrKindMalformed, "response contained no data")
	}

	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return WrapError(ErrKindMalformed, err, "decode data payload")
	}

	return nil
}

func bodySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
