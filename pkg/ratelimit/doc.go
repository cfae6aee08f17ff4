// Package ratelimit bounds the rate of outbound HTTP requests.
//
// The ingestor calls Wait before every page, HEAD and body request so a
// page referencing many images cannot drive an unbounded request rate
// against its host. The TokenBucket refills to capacity once per period;
// Unlimited is a no-op limiter for tests and for disabling throttling.
package ratelimit
