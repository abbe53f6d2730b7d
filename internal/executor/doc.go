/*
Package executor sends insertion requests to the tree service.

# Overview

A Dispatcher owns one HTTP client and posts each Submission to the endpoint
of its mode:

	POST /add-2d-range-tree   Content-Type: application/x-www-form-urlencoded
	x=3&y=4

	POST /add-red-black-tree  Content-Type: application/x-www-form-urlencoded
	k=17

# Requests

Each call to Dispatch is an independent request. There is no queue, no
retry and no cancellation of earlier requests; a second submission simply
starts a second request. Responses may therefore complete out of order.
Every result carries the submission's sequence number so callers can tell
them apart.

# Error Handling

Transport failures (connection refused, timeouts, unreadable bodies) are
reported inside the RequestResult's Error field rather than as a Go error,
so the caller can classify every result the same way. Dispatch only fails
with a Go error when the request itself cannot be built.

# TLS Configuration

TLS support includes:
  - Custom CA certificates
  - Client certificates (mTLS)
  - InsecureSkipVerify for development

# Example Usage

	d, err := executor.NewDispatcher("http://localhost:8080", nil, 30*time.Second)
	if err != nil {
		return err
	}

	result, err := d.Dispatch(ctx, submission)
	if err != nil {
		return err
	}

	fmt.Printf("Status: %d\n", result.Status)

# Thread Safety

Dispatch is safe to call concurrently.
*/
package executor
