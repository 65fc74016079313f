package graphql

import (
	"fmt"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/threadline/messaging-api/internal/api/metrics"
	"github.com/threadline/messaging-api/internal/core/domain"
	"github.com/threadline/messaging-api/internal/core/ports"
)

// NewSchema builds the executable schema:
//
//	type Query {
//	  me: User
//	  user(id: ID!): User
//	  users: [User!]!
//	  messages(cursor: String, limit: Int): MessageConnection!
//	}
//	type Mutation {
//	  signUp(username: String!, email: String!, password: String!): Token!
//	  signIn(login: String!, password: String!): Token!
//	  updateUser(username: String, email: String, password: String): User!
//	  deleteUser(id: ID!): Boolean!
//	  createMessage(text: String!): Message!
//	  deleteMessage(id: ID!): Boolean!
//	}
func NewSchema(r *Resolver) (graphql.Schema, error) {
	tokenType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Token",
		Fields: graphql.Fields{
			"token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return userSource(p.Source).ID, nil
				},
			},
			"username": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return userSource(p.Source).Username, nil
				},
			},
			"email": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return userSource(p.Source).Email, nil
				},
			},
			// role is null for ordinary users; only "ADMIN" is surfaced.
			"role": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if role := userSource(p.Source).Role; role != "" {
						return role, nil
					}
					return nil, nil
				},
			},
		},
	})

	messageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Message",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return messageSource(p.Source).ID, nil
				},
			},
			"text": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return messageSource(p.Source).Text, nil
				},
			},
			"createdAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return messageSource(p.Source).CreatedAt.Format(time.RFC3339Nano), nil
				},
			},
		},
	})

	// The User <-> Message cycle forces late field registration.
	userType.AddFieldConfig("messages", &graphql.Field{
		Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(messageType))),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return r.messages.ListByAuthor(p.Context, userSource(p.Source).ID)
		},
	})
	messageType.AddFieldConfig("user", &graphql.Field{
		Type: userType,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			user, err := r.users.FindByID(p.Context, messageSource(p.Source).UserID)
			if err != nil {
				return nil, err
			}
			if user == nil {
				return nil, nil
			}
			return user, nil
		},
	})

	pageInfoType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PageInfo",
		Fields: graphql.Fields{
			"hasNextPage": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"endCursor":   &graphql.Field{Type: graphql.String},
		},
	})

	messageConnectionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MessageConnection",
		Fields: graphql.Fields{
			"edges": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(messageType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*ports.MessageConnection).Edges, nil
				},
			},
			"pageInfo": &graphql.Field{
				Type: graphql.NewNonNull(pageInfoType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					conn := p.Source.(*ports.MessageConnection)
					info := map[string]interface{}{"hasNextPage": conn.HasNextPage}
					if conn.EndCursor != "" {
						info["endCursor"] = conn.EndCursor
					}
					return info, nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type:    userType,
				Resolve: instrument("me", r.Me),
			},
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: instrument("user", r.User),
			},
			"users": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
				Resolve: instrument("users", r.Users),
			},
			"messages": &graphql.Field{
				Type: graphql.NewNonNull(messageConnectionType),
				Args: graphql.FieldConfigArgument{
					"cursor": &graphql.ArgumentConfig{Type: graphql.String},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: instrument("messages", r.Messages),
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"signUp": &graphql.Field{
				Type: graphql.NewNonNull(tokenType),
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: instrument("signUp", r.SignUp),
			},
			"signIn": &graphql.Field{
				Type: graphql.NewNonNull(tokenType),
				Args: graphql.FieldConfigArgument{
					"login":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: instrument("signIn", r.SignIn),
			},
			"updateUser": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.String},
					"email":    &graphql.ArgumentConfig{Type: graphql.String},
					"password": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: instrument("updateUser", r.UpdateUser),
			},
			"deleteUser": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: instrument("deleteUser", r.DeleteUser),
			},
			"createMessage": &graphql.Field{
				Type: graphql.NewNonNull(messageType),
				Args: graphql.FieldConfigArgument{
					"text": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: instrument("createMessage", r.CreateMessage),
			},
			"deleteMessage": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: instrument("deleteMessage", r.DeleteMessage),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// instrument counts a top-level operation by outcome.
func instrument(name string, resolve graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		out, err := resolve(p)
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.GraphQLOperationsTotal.WithLabelValues(name, outcome).Inc()
		return out, err
	}
}

/// userSource normalises the resolver source: single-item lookups produce
// *domain.User, list resolvers produce domain.User values. Anything else is
// a wiring bug; the executor turns the panic into a field error.
func userSource(src interface{}) *domain.User {
	switch u := src.(type) {
	case *domain.User:
		return u
	case domain.User:
		return &u
	default:
		panic(fmt.Sprintf("unexpected user source %T", src))
	}
}

func messageSource(src interface{}) *domain.Message {
	switch m := src.(type) {
	case *domain.Message:
		return m
	case domain.Message:
		return &m
	default:
		panic(fmt.Sprintf("unexpected message source %T", src))
	}
}
