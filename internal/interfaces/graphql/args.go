package graphql

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/shared"
)

// listArgs are accepted by every list query
func listArgs(extra graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	args := graphql.FieldConfigArgument{
		"search": &graphql.ArgumentConfig{Type: graphql.String},
		"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
		"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: shared.DefaultLimit},
	}
	for k, v := range extra {
		args[k] = v
	}
	return args
}

type listParams struct {
	Search string
	Offset int
	Limit  int
}

func readList(args map[string]interface{}) listParams {
	return listParams{
		Search: argString(args, "search"),
		Offset: argInt(args, "offset"),
		Limit:  argInt(args, "limit"),
	}
}

func argString(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}

func argOptString(args map[string]interface{}, name string) *string {
	s, ok := args[name].(string)
	if !ok {
		return nil
	}
	return &s
}

func argInt(args map[string]interface{}, name string) int {
	i, _ := args[name].(int)
	return i
}

func argOptInt(args map[string]interface{}, name string) *int {
	i, ok := args[name].(int)
	if !ok {
		return nil
	}
	return &i
}

func argOptBool(args map[string]interface{}, name string) *bool {
	b, ok := args[name].(bool)
	if !ok {
		return nil
	}
	return &b
}

func argStrings(args map[string]interface{}, name string) []string {
	raw, ok := args[name].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// decode copies a coerced GraphQL value into a DTO whose json tags are snake_case
func decode(raw interface{}, out interface{}) error {
	b, err := json.Marshal(snakeKeys(raw))
	if err != nil {
		return &inputError{fmt.Errorf("encode input: %w", err)}
	}
	if err := json.Unmarshal(b, out); err != nil {
		return &inputError{fmt.Errorf("invalid input: %w", err)}
	}
	return nil
}

// inputError is a malformed argument, reported to the client as is
type inputError struct{ err error }

func (e *inputError) Error() string { return e.err.Error() }

func (e *inputError) Unwrap() error { return e.err }

// argID parses an id argument. A malformed id resolves to no node.
func argID(args map[string]interface{}, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(argString(args, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &mutation.NodeNotFoundError{ID: raw}
	}
	return id, nil
}

func argOptID(args map[string]interface{}, name string) (*uuid.UUID, error) {
	if _, ok := args[name].(string); !ok {
		return nil, nil
	}
	id, err := argID(args, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func snakeKeys(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[snakeCase(k)] = snakeKeys(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = snakeKeys(val)
		}
		return out
	}
	return v
}

// snakeCase turns seoTitle into seo_title
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
