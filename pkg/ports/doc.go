// Package ports declares the interfaces between the simulation core
// and its infrastructure adapters (state persistence, locking).
// Adapters depend on ports; the core never depends on adapters.
package ports
