// Package web defines common components for a web application.
package web

import "net/http"

// Response holds the common response type for all APIs.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Error wraps a given err into a json friendly struct.
func Error(err error) Response {
	return Response{Error: err.Error()}
}

// ThrottleMessage is the response body returned when a request is rejected
// by the rate limiter.
type ThrottleMessage struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// Throttled returns the standard throttling response body.
func Throttled() ThrottleMessage {
	return ThrottleMessage{
		Message: "too many requests, please try again later",
		Status:  http.StatusTooManyRequests,
	}
}
