// Package phi evaluates the universal wide-band spectral function phi(x, Z)
// that every lead self-energy is built from.
//
// The function depends on a dimensionless argument x (energy over
// temperature) and a bandwidth-to-temperature ratio Z. Its mid-range values
// come from a precomputed quadrature table sampled on a nonuniform lattice
// and rescaled from a reference ratio Z0; outside the table an asymptotic
// expansion takes over, and negative arguments pick up an extra closed-form
// logarithm. A uniform imaginary part -i*(pi/2)*n(x) encodes the Fermi
// occupation of the reservoir.
//
// Building the table is expensive (one adaptive-grade integral per lattice
// point), so a [Cache] can be persisted as a text snapshot and reloaded;
// see [LoadOrBuild]. A built Cache is immutable and safe for concurrent use.
package phi
