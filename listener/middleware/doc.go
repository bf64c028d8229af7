// Package middleware holds the HTTP middleware every listener serves through:
// request IDs, access logging, panic recovery, body limits and deadlines.
package middleware
