// Package integrations provides HTTP clients for transit data APIs.
//
// The [Client] type carries what every API client needs: a shared
// [net/http.Client] with a timeout, default headers, retries for transient
// failures and response caching through [cache.Cache]. API-specific clients
// embed it:
//
//	type Client struct {
//	    *integrations.Client
//	    baseURL string
//	}
//
// The only API supported today is the MBTA v3 API in the [mbta] subpackage.
//
// # Errors
//
// 404 responses return [ErrNotFound]. Transport failures and 5xx responses
// return [ErrNetwork] wrapped in [httputil.RetryableError], so [Client.Cached]
// retries them. 429 responses carry the RATE_LIMITED code from
// [apperr].
//
// [mbta]: github.com/matzehuels/transitroute/pkg/integrations/mbta
// [cache.Cache]: github.com/matzehuels/transitroute/pkg/cache.Cache
// [httputil.RetryableError]: github.com/matzehuels/transitroute/pkg/httputil.RetryableError
// [apperr]: github.com/matzehuels/transitroute/pkg/errors
package integrations
