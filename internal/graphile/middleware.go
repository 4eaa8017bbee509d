// Package graphile mounts a GraphQL endpoint and its GraphiQL explorer as an
// HTTP middleware. Requests for other paths are handed to the next handler.
package graphile

import (
	"net/http"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/graphql-go/graphql"
	gqlhandler "github.com/graphql-go/handler"
	"github.com/pkg/errors"
)

const (
	DefaultGraphQLRoute  = "/graphql"
	DefaultGraphiQLRoute = "/graphiql"
)

type Options struct {
	Schemas       []string
	GraphiQL      bool
	GraphQLRoute  string
	GraphiQLRoute string
}

type Middleware struct {
	opts     Options
	schema   graphql.Schema
	graphql  http.Handler
	graphiql http.Handler
}

func New(catalog Catalog, opts Options) (*Middleware, error) {
	if catalog == nil {
		return nil, errors.New("graphile: catalog is required")
	}
	if len(opts.Schemas) == 0 {
		return nil, errors.New("graphile: at least one schema is required")
	}
	if opts.GraphQLRoute == "" {
		opts.GraphQLRoute = DefaultGraphQLRoute
	}
	if opts.GraphiQLRoute == "" {
		opts.GraphiQLRoute = DefaultGraphiQLRoute
	}

	schema, err := newSchema(catalog, opts.Schemas)
	if err != nil {
		return nil, err
	}

	return &Middleware{
		opts:   opts,
		schema: schema,
		graphql: gqlhandler.New(&gqlhandler.Config{
			Schema: &schema,
			Pretty: true,
		}),
		graphiql: playground.Handler("GraphiQL", opts.GraphQLRoute),
	}, nil
}

// Routes lists the paths answered by the middleware itself.
func (m *Middleware) Routes() []string {
	if m.opts.GraphiQL {
		return []string{m.opts.GraphQLRoute, m.opts.GraphiQLRoute}
	}
	return []string{m.opts.GraphQLRoute}
}

// Wrap returns the middleware in front of next.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == m.opts.GraphQLRoute:
			m.serveGraphQL(w, r)
		case r.URL.Path == m.opts.GraphiQLRoute && m.opts.GraphiQL:
			m.serveGraphiQL(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (m *Middleware) serveGraphQL(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		m.graphql.ServeHTTP(w, r)
	case http.MethodOptions:
		w.Header().Set("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
	default:
		w.Header().Set("Allow", "POST, OPTIONS")
		http.Error(w, "Only `POST` requests are allowed.", http.StatusMethodNotAllowed)
	}
}

func (m *Middleware) serveGraphiQL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	m.graphiql.ServeHTTP(w, r)
}
