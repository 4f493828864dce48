// Package store provides durable SQLite storage for listings, their
// rooms, and their images, and executes the compiled filter queries.
package store
