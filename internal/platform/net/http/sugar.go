package http

import (
	"net/http"
)

// Route-mount sugar. These wrap JSONHandler so handlers can stay pure

// GetJSON mounts a GET route with no request body
func GetJSON(r Router, pattern string, fn func(*http.Request) (any, error)) {
	r.Get(pattern, JSONHandlerNoBody(fn))
}

// PostJSON mounts a POST route binding the body into T
func PostJSON[T any](r Router, pattern string, fn func(*http.Request, T) (any, error)) {
	r.Post(pattern, JSONHandler(fn))
}

// PutJSON mounts a PUT route binding the body into T
func PutJSON[T any](r Router, pattern string, fn func(*http.Request, T) (any, error)) {
	r.Put(pattern, JSONHandler(fn))
}

// PatchJSON mounts a PATCH route binding the body into T
func PatchJSON[T any](r Router, pattern string, fn func(*http.Request, T) (any, error)) {
	r.Patch(pattern, JSONHandler(fn))
}

// DeleteJSON mounts a DELETE route with no request body
func DeleteJSON(r Router, pattern string, fn func(*http.Request) (any, error)) {
	r.Delete(pattern, JSONHandlerNoBody(fn))
}
