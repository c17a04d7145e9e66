// Package job manages background job queuing, processing, and lifecycle.
// It implements the asynchronous contact-creation pipeline: jobs are
// persisted for durability, delivered at-least-once through an in-memory
// channel to a worker pool, retried with bounded backoff on transient
// failures, and dead-lettered on permanent failures or retry exhaustion.
package job
