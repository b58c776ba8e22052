/*
Package client maintains the resilient request channel to one appliance.

A Channel wraps the HTTPS management API of a single appliance: it derives the
base URL from the target host, disables certificate validation (appliance
certificates are self-signed in this deployment context), and stamps every
request with the ExtraHop apikey authorization header.

# Failure Taxonomy

Two error types leave this package:

  - TransportError: the request never completed (connection reset, broken
    pipe, timeout). The channel reconnects exactly once and retries the same
    request exactly once before returning this; a single dropped connection
    mid-run therefore never aborts the remaining work for an appliance.
  - APIError: the appliance answered with a 4xx/5xx status. These are never
    retried. AuthFailure() marks 401/403 so callers can stop hammering an
    appliance that rejected the key.

The retry policy lives here and only here. Call sites issue requests through
Do and inherit uniform reconnect semantics, which also makes the policy
testable against a local server without real sockets.

A Channel is created per appliance and accessed strictly sequentially; it is
never shared across appliances.
*/
package client
