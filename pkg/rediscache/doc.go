// Package rediscache provides namespaced Redis hash caches.
//
// Each extension stores its state in one or more named caches. A cache
// maps string keys to scalar values and is backed by a single Redis hash,
// so clearing or expiring a namespace is one operation.
package rediscache
