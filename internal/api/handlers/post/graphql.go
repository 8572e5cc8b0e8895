package post

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/graphql-go/graphql"

	"Postboard/internal/api/schema"
)

// maxRequestBytes bounds the size of a GraphQL request body
const maxRequestBytes = 1 * 1024 * 1024

// GraphQLHandler serves posts queries and mutations
type GraphQLHandler struct {
	schema graphql.Schema
}

// NewGraphQLHandler creates a new GraphQL handler over s
func NewGraphQLHandler(s graphql.Schema) *GraphQLHandler {
	return &GraphQLHandler{
		schema: s,
	}
}

// HandleGraphQL handles POST /graphql
// Body: {"query": "...", "variables": {...}, "operationName": "..."}
// Field and validation errors are reported inside a 200 response, per GraphQL-over-HTTP.
func (h *GraphQLHandler) HandleGraphQL(w http.ResponseWriter, r *http.Request) {
	// 1. Check HTTP method
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", "Only POST is supported")
		return
	}

	// 2. Limit request body size
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	// 3. Parse request body
	var req schema.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "RequestTooLarge",
				"Request body too large (max 1MB)")
			return
		}
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	// 4. Validate required fields
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "query is required")
		return
	}

	// 5. Execute against the schema
	result := schema.Execute(r.Context(), h.schema, req)
	if result.HasErrors() {
		slog.Debug("graphql operation returned errors",
			"operation", req.OperationName,
			"errors", len(result.Errors),
		)
	}

	// 6. Return result
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		// Headers already sent
		slog.Error("failed to encode graphql response", "error", err)
	}
}
