/*
Package ports defines the collaborator interfaces ("performers") that screens
depend on.

Evaluators only ever see these interfaces, injected at construction, so tests
can substitute deterministic stand-ins and hosts can pick an adapter (memory,
Redis) at startup.

# Key Interfaces

  - Authenticator: checks credentials for the login screen.
  - CatalogProvider: read-only product data shared by every retail screen.
*/
package ports
