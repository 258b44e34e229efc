// Package httputil provides the HTTP plumbing for remote collaborators such
// as the vision service.
//
//   - [Retry]: retry with exponential backoff for transient failures
//   - [DoJSON]: JSON request/response with status classification
//
// [DoJSON] marks network errors, 429 and 5xx responses as retryable, so
// wrapping it in [Retry] retries exactly the failures worth retrying:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return httputil.DoJSON(ctx, client, http.MethodPost, url, req, &resp)
//	})
package httputil
