// Package httputil provides retry helpers for HTTP API clients.
//
// [Retry] runs an operation until it succeeds, fails with an error that is
// not a [RetryableError], or runs out of attempts. The delay doubles after
// each failed attempt:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// Wrap transport errors and 5xx responses as retryable; 4xx responses are
// final.
package httputil
