package graphile

import (
	"context"

	"github.com/graphql-go/graphql"
	"github.com/pkg/errors"

	"github.com/jonno85/graphile-server/internal/domain"
)

// Catalog is the read-only database view the schema resolves against.
type Catalog interface {
	ServerVersion(ctx context.Context) (string, error)
	ListTables(ctx context.Context, schemas []string) ([]domain.Table, error)
}

var tableType = graphql.NewObject(graphql.ObjectConfig{
	Name:        "Table",
	Description: "A table or view visible in one of the exposed schemas.",
	Fields: graphql.Fields{
		"schema": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
		},
		"name": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
		},
		"kind": &graphql.Field{
			Type:        graphql.NewNonNull(graphql.String),
			Description: "BASE TABLE or VIEW.",
		},
	},
})

func newSchema(catalog Catalog, schemas []string) (graphql.Schema, error) {
	exposed := make(map[string]bool, len(schemas))
	for _, s := range schemas {
		exposed[s] = true
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"databaseVersion": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.String),
				Description: "Version string reported by the database server.",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalog.ServerVersion(p.Context)
				},
			},
			"schemas": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
				Description: "Database schemas exposed through this endpoint.",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return schemas, nil
				},
			},
			"tables": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(tableType))),
				Args: graphql.FieldConfigArgument{
					"schema": &graphql.ArgumentConfig{
						Type:        graphql.String,
						Description: "Restrict the listing to one exposed schema.",
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					wanted := schemas
					if s, ok := p.Args["schema"].(string); ok {
						if !exposed[s] {
							return nil, errors.Errorf("schema '%s' is not exposed", s)
						}
						wanted = []string{s}
					}
					return catalog.ListTables(p.Context, wanted)
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: query})
	if err != nil {
		return graphql.Schema{}, errors.Wrap(err, "build graphql schema")
	}
	return schema, nil
}
