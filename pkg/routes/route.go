package routes

import "net/http"

// Route binds an HTTP method and path pattern to its handler. Patterns use
// net/http ServeMux syntax, so path wildcards like {id} are available.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Get builds a GET route.
func Get(pattern string, handler http.HandlerFunc) Route {
	return Route{Method: http.MethodGet, Pattern: pattern, Handler: handler}
}

// Post builds a POST route.
func Post(pattern string, handler http.HandlerFunc) Route {
	return Route{Method: http.MethodPost, Pattern: pattern, Handler: handler}
}
