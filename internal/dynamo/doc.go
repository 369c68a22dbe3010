// Package dynamo provides the numerical primitives shared by the tracer.
//
//   - [State]: vector of integrated quantities
//   - [System]: interface for ODE systems (dX/dλ = f(X, λ))
//   - [Integrator]: fixed-step numerical integrator interface
//   - [Metric] and [Observer]: per-step hooks used by the tracer
//
// # Thread Safety
//
// Integrators keep scratch buffers and are NOT safe for concurrent use.
// Give every goroutine its own integrator; systems and states are never
// shared between concurrent traces.
package dynamo
