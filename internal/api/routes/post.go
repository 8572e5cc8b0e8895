package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/graphql-go/graphql"

	"Postboard/internal/api/handlers/post"
)

// GraphQLPath is the single endpoint serving every post operation
const GraphQLPath = "/graphql"

// RegisterPostRoutes registers the GraphQL endpoint on the router.
// Query.posts and Mutation.addPost are both served here; there are no other post routes.
func RegisterPostRoutes(r chi.Router, s graphql.Schema) {
	graphqlHandler := post.NewGraphQLHandler(s)

	r.Post(GraphQLPath, graphqlHandler.HandleGraphQL)
}
