package domain

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Endpoint describes a started server and the URLs it answers on.
type Endpoint struct {
	Name        string    `json:"name"`
	Host        string    `json:"host"`
	Port        int       `json:"port"`
	GraphQLURL  string    `json:"graphql_url"`
	GraphiQLURL string    `json:"graphiql_url"`
	ServerURL   string    `json:"server_url"`
	StartedAt   time.Time `json:"started_at"`
}

func NewEndpoint(name, host string, port int, startedAt time.Time) Endpoint {
	base := fmt.Sprintf("http://%s", net.JoinHostPort(host, strconv.Itoa(port)))
	return Endpoint{
		Name:        name,
		Host:        host,
		Port:        port,
		GraphQLURL:  base + "/graphql",
		GraphiQLURL: base + "/graphiql",
		ServerURL:   base,
		StartedAt:   startedAt,
	}
}

// Table is one relation found in the database catalog.
type Table struct {
	Schema string `json:"schema" db:"table_schema"`
	Name   string `json:"name" db:"table_name"`
	Kind   string `json:"kind" db:"table_type"`
}
