// Package stream drives an agent handle step by step, converting each
// think/act cycle into ProgressEvent values emitted on a channel. The driver
// owns the handle's lifecycle for the duration of a run: it seeds the message
// log, advances the step counter and stops on completion, budget exhaustion
// or error. Every sequence terminates with exactly one complete or run-level
// error event, after which the channel is closed.
package stream
