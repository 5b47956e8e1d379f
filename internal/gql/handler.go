package gql

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
)

type request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

// Handler executes GraphQL requests sent as GET ?query= or as a JSON POST body.
type Handler struct {
	schema graphql.Schema
	log    *slog.Logger
}

func NewHandler(schema graphql.Schema, log *slog.Logger) *Handler {
	return &Handler{schema: schema, log: log}
}

func (h *Handler) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	var gqlReq request

	switch req.Method {
	case http.MethodGet:
		gqlReq.Query = req.URL.Query().Get("query")
		gqlReq.OperationName = req.URL.Query().Get("operationName")
		if vars := req.URL.Query().Get("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &gqlReq.Variables); err != nil {
				http.Error(writer, "invalid variables", http.StatusBadRequest)
				return
			}
		}
	case http.MethodPost:
		if err := json.NewDecoder(req.Body).Decode(&gqlReq); err != nil {
			http.Error(writer, "invalid request body", http.StatusBadRequest)
			return
		}
	default:
		writer.Header().Set("Allow", "GET, POST")
		http.Error(writer, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if gqlReq.Query == "" {
		http.Error(writer, "query is required", http.StatusBadRequest)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  gqlReq.Query,
		VariableValues: gqlReq.Variables,
		OperationName:  gqlReq.OperationName,
		Context:        req.Context(),
	})
	if result.HasErrors() {
		h.log.DebugContext(req.Context(), "graphql request returned errors", "errors", result.Errors)
	}

	writer.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(writer).Encode(result); err != nil {
		h.log.ErrorContext(req.Context(), "failed to write graphql response", sl.Err(err))
	}
}
