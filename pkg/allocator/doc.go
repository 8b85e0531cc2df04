// Package allocator is the public entry point to the allocator engines.
//
// Programs pick an engine by Kind and receive an alloc.Allocator; code that
// needs dynamic memory takes the interface and never names an engine.
//
// Example:
//
//	a, err := allocator.New(&allocator.Options{Kind: allocator.KindPool})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer a.Close()
//
//	p := a.Malloc(100)
//	copy(a.Bytes(p, 5), "hello")
//	a.Free(p)
package allocator
