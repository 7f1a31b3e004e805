// Package task manages background job queuing, processing, and lifecycle.
// It provides mechanisms for asynchronous execution of long-running
// operations like AI task enrichment, ensuring they don't block HTTP
// request handling. The runner keeps at most one job in flight per board
// entity so repeated enrichment requests cannot race each other.
package task
