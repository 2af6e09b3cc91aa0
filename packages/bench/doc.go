// Package bench repeatedly fires one request through the curl client at
// a fixed rate and reports latency percentiles. Spawning a process per
// request is expensive, so the numbers measure the whole curl invocation
// rather than the bare network round trip.
package bench
