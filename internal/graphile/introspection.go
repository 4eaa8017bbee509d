package graphile

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/pkg/errors"
)

const introspectionQuery = `
query IntrospectionQuery {
  __schema {
    queryType { name }
    mutationType { name }
    subscriptionType { name }
    types { ...FullType }
    directives { name description locations args { ...InputValue } }
  }
}
fragment FullType on __Type {
  kind name description
  fields(includeDeprecated: true) {
    name description
    args { ...InputValue }
    type { ...TypeRef }
    isDeprecated deprecationReason
  }
  inputFields { ...InputValue }
  interfaces { ...TypeRef }
  enumValues(includeDeprecated: true) { name description isDeprecated deprecationReason }
  possibleTypes { ...TypeRef }
}
fragment InputValue on __InputValue {
  name description
  type { ...TypeRef }
  defaultValue
}
fragment TypeRef on __Type {
  kind name
  ofType { kind name ofType { kind name ofType { kind name ofType { kind name
    ofType { kind name ofType { kind name ofType { kind name } } } } } } }
}`

// IntrospectionJSON runs the standard introspection query and returns the
// result as indented JSON, the format GraphQL tooling reads schema files in.
func (m *Middleware) IntrospectionJSON(ctx context.Context) ([]byte, error) {
	result := graphql.Do(graphql.Params{
		Schema:        m.schema,
		RequestString: introspectionQuery,
		Context:       ctx,
	})
	if result.HasErrors() {
		messages := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			messages = append(messages, e.Message)
		}
		return nil, errors.Errorf("introspection failed: %s", strings.Join(messages, "; "))
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode introspection result")
	}
	return out, nil
}
