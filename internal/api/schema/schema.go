// Package schema defines the GraphQL schema for posts and binds its resolvers
// to posts.Service. The schema is built from static type definitions and checked
// once at startup.
package schema

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/graphql-go/graphql"

	"Postboard/internal/core/posts"
)

// Root operation names exposed by the schema
const (
	QueryPosts      = "posts"
	MutationAddPost = "addPost"
)

// Request is a single GraphQL operation as sent over HTTP
type Request struct {
	Variables     map[string]interface{} `json:"variables,omitempty"`
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
}

type resolvers struct {
	service posts.Service
}

// NewSchema builds the posts schema bound to service.
// Returns an error if graphql-go rejects the type definitions or the root
// operations differ from posts/addPost(title: String!, content: String!).
func NewSchema(service posts.Service) (graphql.Schema, error) {
	r := &resolvers{service: service}

	postType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Post",
		Description: "A blog post",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type:    graphql.ID,
				Resolve: postField(func(p *posts.Post) interface{} { return p.ID }),
			},
			"title": &graphql.Field{
				Type:    graphql.String,
				Resolve: postField(func(p *posts.Post) interface{} { return p.Title }),
			},
			"content": &graphql.Field{
				Type:    graphql.String,
				Resolve: postField(func(p *posts.Post) interface{} { return p.Content }),
			},
			"createdAt": &graphql.Field{
				Type:        graphql.String,
				Description: "RFC 3339 creation time",
				Resolve: postField(func(p *posts.Post) interface{} {
					if p.CreatedAt.IsZero() {
						return nil
					}
					return p.CreatedAt.UTC().Format(time.RFC3339Nano)
				}),
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			QueryPosts: &graphql.Field{
				Type:        graphql.NewList(postType),
				Description: "All posts in insertion order",
				Resolve:     r.posts,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			MutationAddPost: &graphql.Field{
				Type:        postType,
				Description: "Create a post and return it with its assigned id",
				Args: graphql.FieldConfigArgument{
					"title": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.String),
					},
					"content": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.String),
					},
				},
				Resolve: r.addPost,
			},
		},
	})

	s, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("invalid schema: %w", err)
	}

	if err := verifyOperations(s); err != nil {
		return graphql.Schema{}, err
	}

	return s, nil
}

// Execute runs req against s
func Execute(ctx context.Context, s graphql.Schema, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         s,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}

func (r *resolvers) posts(p graphql.ResolveParams) (interface{}, error) {
	result, err := r.service.ListPosts(p.Context)
	if err != nil {
		return nil, toResolverError(QueryPosts, err)
	}
	return result, nil
}

func (r *resolvers) addPost(p graphql.ResolveParams) (interface{}, error) {
	// Both arguments are String! so graphql-go has already rejected missing values
	title, _ := p.Args["title"].(string)
	content, _ := p.Args["content"].(string)

	post, err := r.service.CreatePost(p.Context, posts.CreatePostRequest{
		Title:   title,
		Content: content,
	})
	if err != nil {
		return nil, toResolverError(MutationAddPost, err)
	}
	return post, nil
}

// postField adapts a getter on *posts.Post into a field resolver
func postField(get func(*posts.Post) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		post, ok := p.Source.(*posts.Post)
		if !ok || post == nil {
			return nil, nil
		}
		return get(post), nil
	}
}

// verifyOperations checks the root types expose exactly the operations the
// resolvers implement, with the required argument types.
func verifyOperations(s graphql.Schema) error {
	if s.QueryType() == nil {
		return fmt.Errorf("schema has no query type")
	}
	if err := expectFields("Query", s.QueryType().Fields(), QueryPosts); err != nil {
		return err
	}

	if s.MutationType() == nil {
		return fmt.Errorf("schema has no mutation type")
	}
	mutations := s.MutationType().Fields()
	if err := expectFields("Mutation", mutations, MutationAddPost); err != nil {
		return err
	}

	addPost := mutations[MutationAddPost]
	if addPost.Resolve == nil {
		return fmt.Errorf("Mutation.%s has no resolver", MutationAddPost)
	}
	required := map[string]bool{"title": false, "content": false}
	for _, arg := range addPost.Args {
		if _, ok := required[arg.Name()]; !ok {
			return fmt.Errorf("Mutation.%s has unexpected argument %q", MutationAddPost, arg.Name())
		}
		if arg.Type.String() != "String!" {
			return fmt.Errorf("Mutation.%s argument %q must be String!, got %s",
				MutationAddPost, arg.Name(), arg.Type.String())
		}
		required[arg.Name()] = true
	}
	for name, seen := range required {
		if !seen {
			return fmt.Errorf("Mutation.%s is missing argument %q", MutationAddPost, name)
		}
	}

	if s.QueryType().Fields()[QueryPosts].Resolve == nil {
		return fmt.Errorf("Query.%s has no resolver", QueryPosts)
	}

	return nil
}

func expectFields(typeName string, fields graphql.FieldDefinitionMap, want ...string) error {
	got := make([]string, 0, len(fields))
	for name := range fields {
		got = append(got, name)
	}
	sort.Strings(got)
	sort.Strings(want)

	if strings.Join(got, ",") != strings.Join(want, ",") {
		return fmt.Errorf("%s fields %v do not match resolvers %v", typeName, got, want)
	}
	return nil
}
