// Package sdbmap provides a lightweight typed mapping layer over the
// AWS SDK for Go SimpleDB client.
//
// SimpleDB is a schema-less, eventually consistent key-attribute store: a
// domain holds items identified by a name, each item holds named attributes,
// and every value on the wire is a UTF-8 string of at most 1024 bytes. The
// library maps typed attribute values onto string representations whose
// lexicographic order matches the type's natural order, compiles structured
// predicates into select expressions, reassembles typed items from flat
// attribute lists, pages lazily through select results, and short-circuits
// point lookups through a local cache with correct eventual-consistency
// behavior.
//
// # Key Concepts
//
// A Domain declares the attribute schema used to encode and decode values:
//
//	domain := sdbmap.NewDomain("orders", map[string]sdbmap.Type{
//	    "total":   sdbmap.TypeInt,
//	    "placed":  sdbmap.TypeTime,
//	    "note":    sdbmap.TypeText,
//	    "tags":    sdbmap.TypeStringSet,
//	})
//
// Attributes absent from the schema are passed through as plain strings, so
// evolving schemas never lose data.
//
// # Querying
//
// Queries are built from structured parts and compiled before any network
// call:
//
//	q := &sdbmap.Select{
//	    Where: []sdbmap.Condition{
//	        sdbmap.Where("total", sdbmap.OpGreaterThan, 100),
//	    },
//	    OrderBy: []sdbmap.Order{{Attribute: "total", Descending: true}},
//	    Limit:   50,
//	}
//	cursor, err := domain.Query(client, q)
//	for {
//	    item, err := cursor.Next(ctx)
//	    if errors.Is(err, sdbmap.Done) {
//	        break
//	    }
//	    // ...
//	}
//
// The cursor follows the store's continuation tokens transparently; the token
// is round-tripped byte for byte and never inspected.
//
// # Point Lookups
//
// Domain.Get probes the configured ItemCache before going to the network.
// Passing consistent=true bypasses the cache and requests a consistent read
// from the store:
//
//	domain.Cache, _ = sdbmap.NewLRUCache(1024)
//	item, err := domain.Get(ctx, client, "order-1", false)
//
// # Consistency
//
// Reads are eventually consistent unless the consistent flag is set on a
// Select or a Get. The library never retries transport errors; retry and
// backoff policy belongs to the SDK client.
package sdbmap
