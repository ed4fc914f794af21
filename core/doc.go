// Package core defines the shared contracts of the OpenManus tool adapter:
// the Agent handle interface through which an external autonomous agent is
// driven, the role-based message log it exposes, and the ProgressEvent
// records emitted while a run is streamed.
//
// The package has no knowledge of any concrete agent implementation. Agents
// are injected via a Factory so callers (and tests) control planning,
// failures and budget exhaustion deterministically.
package core
