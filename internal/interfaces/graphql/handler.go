package graphql

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
)

// Request is a GraphQL request body
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Handler executes GraphQL requests against a schema
type Handler struct {
	schema       graphql.Schema
	maxQuerySize int64
}

// NewHandler creates a Handler. maxQuerySize caps the request body in bytes.
func NewHandler(schema graphql.Schema, maxQuerySize int64) *Handler {
	return &Handler{schema: schema, maxQuerySize: maxQuerySize}
}

// Register mounts the endpoint for GET and POST at path
func (h *Handler) Register(r gin.IRoutes, path string) {
	r.POST(path, h.Serve)
	r.GET(path, h.Serve)
}

// Serve handles one request
func (h *Handler) Serve(c *gin.Context) {
	req, err := h.read(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, &graphql.Result{
			Errors: []gqlerrors.FormattedError{gqlerrors.NewFormattedError(err.Error())},
		})
		return
	}

	res := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request.Context(),
	})
	c.JSON(http.StatusOK, res)
}

func (h *Handler) read(c *gin.Context) (Request, error) {
	var req Request
	if c.Request.Method == http.MethodGet {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if vars := c.Query("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
				return req, errors.New("variables must be a JSON object")
			}
		}
	} else {
		body := io.Reader(c.Request.Body)
		if h.maxQuerySize > 0 {
			body = io.LimitReader(body, h.maxQuerySize+1)
		}
		raw, err := io.ReadAll(body)
		if err != nil {
			return req, errors.New("could not read request body")
		}
		if h.maxQuerySize > 0 && int64(len(raw)) > h.maxQuerySize {
			return req, errors.New("request too large")
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			return req, errors.New("request body must be JSON")
		}
	}
	if req.Query == "" {
		return req, errors.New("must provide query string")
	}
	return req, nil
}
