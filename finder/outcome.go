package finder

import (
	"fmt"

	"github.com/use-agent/productfinder/mcptool"
)

// Status classifies a per-query outcome.
type Status string

const (
	StatusSuccess  Status = "SUCCESS"
	StatusNotFound Status = "NOT_FOUND"
	StatusError    Status = "ERROR"
)

// Outcome is the result of searching one query. Payload is the product URL
// on success and a human-readable message otherwise.
type Outcome struct {
	Query   string
	Status  Status
	Payload string
}

// InvalidResponseMessage is reported when the server's answer is unusable.
const InvalidResponseMessage = "Failed to get a valid response from the server."

// Classify maps a remote result, or the transport error of the call, to an Outcome.
func Classify(query string, res mcptool.Result, err error) Outcome {
	if err != nil {
		return Outcome{
			Query:   query,
			Status:  StatusError,
			Payload: fmt.Sprintf("A critical error occurred while searching for '%s'.", query),
		}
	}

	switch r := res.(type) {
	case mcptool.Found:
		return Outcome{Query: query, Status: StatusSuccess, Payload: r.URL}
	case mcptool.NotFound:
		msg := r.Message
		if msg == "" {
			msg = fmt.Sprintf("Could not find '%s'.", query)
		}
		return Outcome{Query: query, Status: StatusNotFound, Payload: msg}
	default:
		return Outcome{Query: query, Status: StatusError, Payload: InvalidResponseMessage}
	}
}
