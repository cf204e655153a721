// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts the note and task services to JSON over
// HTTP and maps their errors to status codes without leaking internals.
package api
