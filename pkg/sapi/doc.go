// Package sapi provides types, interfaces, and helpers for working with the
// ScrapeWorks platform API.
//
// # Overview
//
// The sapi package defines the domain types (e.g., Actor, Run, Dataset,
// KeyValueStore, RequestQueue) and the interfaces for resource-oriented
// clients (e.g., ActorsClient, DatasetsClient). A concrete implementation of
// these clients is provided by the swclient package, which wires
// configuration, transport, and authentication. Most consumers should import
// swclient to construct a client and then interact with the resource client
// interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/scrapeworks-io/sapi/pkg/sapi"
//	  "github.com/scrapeworks-io/sapi/pkg/swclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := swclient.NewFromEnv("https://api.scrapeworks.io")
//	  if err != nil { log.Fatal(err) }
//
//	  // List the first page of actors
//	  actors, err := cli.Actors().List(ctx, sapi.NewListOptions().WithLimit(50))
//	  if err != nil { log.Fatal(err) }
//	  _ = actors
//	}
//
// # Queries and pagination
//
// Use ListOptions to express common list options (offset, limit, desc). The
// package also provides helpers for iterating or collecting paginated
// results:
//
//	it := sapi.NewIterator(ctx, fetch, sapi.NewListOptions())
//	for it.HasNext() {
//	  actor, err := it.Next()
//	  if err != nil { break }
//	  _ = actor
//	}
//
// or fetch all results at once:
//
//	all, err := cli.Actors().ListAll(ctx, nil)
//	if err != nil { /* handle error */ }
//	_ = all
//
// Pages are fetched lazily, one at a time, as iteration demands them;
// constructing an iterator performs no requests.
//
// # Errors
//
// Every failure is classified into an APIError with a closed set of kinds
// (validation, authentication, authorization, not found, conflict, rate
// limit, timeout, and so on). Helpers such as IsNotFound, IsRateLimit, and
// IsValidation make it easy to branch on common cases without inspecting
// status codes.
//
// # Streaming
//
// Dataset exports, key-value records, and run logs can be consumed as a
// ByteStream of lazily-read chunks, bounding memory regardless of payload
// size. Each chunk wait is bounded; a stalled stream surfaces a timeout
// classified error rather than hanging.
//
// # Interceptors and caching
//
// The package includes generic building blocks such as request/response
// interceptors (for logging, headers, metrics, rate limiting, circuit
// breaking) and a simple pluggable Cache abstraction with in-memory and NATS
// JetStream KV backends. The swclient package composes these pieces for a
// sensible default client; applications with advanced needs can also use
// these primitives directly.
package sapi
