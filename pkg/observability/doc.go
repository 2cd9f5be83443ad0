/*
Package observability provides tools for monitoring the turing engine.

It includes Prometheus metrics and structured logging, both delivered as
engine hooks so they can be attached to any machine or runner without
changing how it executes.
*/
package observability
