// Package swclient provides the primary entry point for constructing a
// ScrapeWorks API client that implements the sapi.Client interface.
//
// It layers configuration, HTTP transport, and token authentication on top
// of the resource interfaces and types defined in the sapi package. Most
// applications should import swclient to build a client, then use the
// returned sapi.Client to access resource-specific clients, for example
// Actors(), Datasets(), RequestQueues(), etc.
//
// Quick start
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
//
//	  // With an API token you already have:
//	  cli, err := swclient.NewWithToken("https://api.scrapeworks.io", "sw_token_...")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or from the environment (SCRAPEWORKS_API_TOKEN):
//	  cli, err = swclient.NewFromEnv("https://api.scrapeworks.io")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with full configuration:
//	  cli, err = swclient.New(&sapi.Config{
//	    APIEndpoint: "https://api.scrapeworks.io",
//	    Token:       "sw_token_...",
//	    RetryMax:    3,
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Use resource clients via the sapi.Client interface
//	  actors, err := cli.Actors().List(ctx, sapi.NewListOptions().WithLimit(10))
//	  if err != nil { log.Fatal(err) }
//	  _ = actors
//	}
//
// # Authentication
//
// The platform is token-only. A client built without a token sends
// unauthenticated requests, which only reach public resources. NewFromEnv
// resolves the token from SCRAPEWORKS_API_TOKEN, falling back to SAPI_TOKEN.
package swclient
