// Package resource provides the core domain types for CloudConnect:
// the lifecycle state machine, the resource variants, the type
// registry, and the classified error taxonomy.
//
// # Lifecycle
//
// Every resource moves through a fixed state machine:
//
//	created -> started <-> stopped -> deleted
//
// CREATED is the initial state and DELETED is terminal. A deleted
// resource is a tombstone: it keeps its configuration and stays in the
// collection forever. Any operation outside the transition table fails
// with an INVALID_TRANSITION error and leaves the state untouched. The
// start/stop cycle is unbounded.
//
// # Variants
//
// Three variants ship with the package: AppService, StorageAccount, and
// CacheDB. Each is an explicit configuration struct whose value sets
// are enforced with validator tags. Variants are polymorphic over the
// Spec interface; adding a new type means implementing Spec and
// registering a factory, with no changes anywhere else.
//
// # Registry
//
// The Registry is an explicit value constructed at process start and
// passed to the manager. Registration is a startup call, not an import
// side effect, and there is no unregister operation.
//
// # Errors
//
// All failures are deterministic: input validation or state
// preconditions. The Error type carries a code (DUPLICATE_TYPE,
// UNKNOWN_TYPE, DUPLICATE_NAME, VALIDATION_ERROR, INVALID_TRANSITION,
// NOT_FOUND) plus per-kind context, with errors.As helpers for each
// code.
package resource
