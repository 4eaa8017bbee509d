package service

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/jonno85/graphile-server/internal/domain"
)

var (
	success = color.New(color.Bold, color.Underline, color.FgGreen).SprintFunc()
	label   = color.New(color.FgGreen).SprintFunc()
	gray    = color.New(color.FgHiBlack).SprintFunc()
	bold    = color.New(color.Bold, color.FgGreen).SprintFunc()
)

// PrintBanner writes the human-readable startup lines for endpoint.
func PrintBanner(out io.Writer, endpoint domain.Endpoint) {
	fmt.Fprintf(out, "%s %s %s\n", gray(endpoint.Name), label("listening on port"), bold(strconv.Itoa(endpoint.Port)))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "📡 GraphQL:\t%s\n", success(endpoint.GraphQLURL))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "🛠️ GraphiQL:\t%s\n", success(endpoint.GraphiQLURL))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "🚀 Server:\t%s\n", success(endpoint.ServerURL))
	fmt.Fprintln(out)
}
