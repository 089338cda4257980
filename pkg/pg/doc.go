// Package pg handles PostgreSQL connectivity for the booking store:
// pooled connections with startup retry and goose-driven schema
// migrations bridged onto the pgx pool.
package pg
