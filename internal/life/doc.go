// Package life implements a particle-life simulation on a periodic 2D area.
//
// Particles belong to classes ([particle.Species]) with a color, mass and
// restitution. Each step:
//
//   - rotates every heading by a small brownian perturbation,
//   - advances positions and wraps them around the area,
//   - resolves overlapping pairs with restitution-weighted impulses,
//   - steers nearby pairs toward (attraction) or away from (repulsion) each other
//     according to the class [particle.Relationships].
//
// Neighbor queries use a uniform grid whose cell size equals the query distance.
package life
