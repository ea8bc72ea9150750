// Package api handles incoming HTTP requests, request validation and
// response formatting. Handlers translate HTTP concerns into calls on the
// user and task services and map service errors to safe status codes and
// messages through HandleAPIError.
package api
