// Package observability builds the structured zap logger shared by the
// service, with an optional rotating file sink.
package observability
