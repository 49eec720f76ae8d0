// Package api translates HTTP requests into application service calls:
// routing, request decoding and validation, and mapping service errors
// to sanitized HTTP responses. No business rules live here.
package api
