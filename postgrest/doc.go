// Package postgrest provides a fluent client for PostgREST-compatible
// REST APIs.
//
// PostgREST exposes a relational database as REST resources, driven by URL
// query parameters for filtering and selecting and by Prefer headers for
// return and conflict-resolution behavior. This package builds those
// requests through a small chain of builder values and parses responses
// into a uniform envelope.
//
// # Architecture
//
// The package is organized into chain stages, each a value type carrying
// its own copy of the accumulated request state:
//
//   - Client: connection settings shared across chains (base URL, schema,
//     headers, HTTP client)
//   - QueryBuilder: positioned at a table, selects the operation
//     (Select/Insert/Upsert/Update/Delete)
//   - FilterBuilder: appends column filters and result modifiers
//   - ExecuteBuilder: performs the terminal network call
//
// Every chain step returns a new builder value, so partially built chains
// can be reused and extended without aliasing surprises.
//
// # Usage
//
// Create a client and execute a query:
//
//	logger := zerolog.New(os.Stdout)
//	client, err := postgrest.NewClient(
//		"http://localhost:3000",
//		logger,
//		postgrest.WithSchema("public"),
//		postgrest.WithTokenAuth("your-jwt"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	resp, err := client.From("movies").
//		Select("id", "title").
//		Eq("year", "2024").
//		Order("title.asc").
//		Limit(10).
//		Execute(ctx, postgrest.WithCount(postgrest.CountExact))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	var movies []Movie
//	if err := resp.DecodeInto(&movies); err != nil {
//		log.Fatal(err)
//	}
//
// Mutations follow the same shape:
//
//	resp, err = client.From("movies").
//		Update(map[string]any{"watched": true}).
//		Eq("id", "5").
//		Execute(ctx)
//
// # Error Handling
//
// All failures arrive through Execute's error return:
//
//   - ErrMissingOperation: the chain never selected a table operation
//   - ErrInvalidURL: the accumulated URL cannot be parsed
//   - ErrUnknownError: the server failed but sent no structured error
//   - ServerError: a structured PostgREST error with message, details,
//     hint and code
//
// Server errors include helper methods for classification:
//
//	var serverErr *postgrest.ServerError
//	if errors.As(err, &serverErr) && serverErr.IsNotFound() {
//		// handle missing resource
//	}
package postgrest
