// Package api implements the HTTP handlers and router for the summary
// service: patient and note management, synchronous summary generation,
// and the asynchronous submit/poll job endpoints.
package api
