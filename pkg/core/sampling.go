package core

import "math"

// UniformHemispherePDF is the probability density of SampleHemisphere,
// constant over the hemisphere.
const UniformHemispherePDF = 1.0 / (2.0 * math.Pi)

// SampleHemisphere draws a direction uniformly distributed over the
// hemisphere above the shading normal N, returning the direction and its
// (constant) pdf. Per the material-sampling spec: draw z ~ U[0,1),
// phi ~ U[0, 2*pi); r = sqrt(1 - z^2); build an orthonormal frame (B, C, N)
// and return normalize(local.x*B + local.y*C + local.z*N).
func SampleHemisphere(normal Vec3, rng *RNG) (direction Vec3, pdf float64) {
	z := rng.Float64()
	phi := 2 * math.Pi * rng.Float64()
	r := math.Sqrt(math.Max(0, 1-z*z))
	local := NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)

	b, c := orthonormalBasis(normal)
	world := b.Multiply(local.X).Add(c.Multiply(local.Y)).Add(normal.Multiply(local.Z))
	return world.Normalize(), UniformHemispherePDF
}

// orthonormalBasis builds (B, C) such that (B, C, N) is a right-handed
// orthonormal frame, following the source's branch-on-largest-component
// construction to avoid the degenerate case where N is near a coordinate
// axis.
func orthonormalBasis(n Vec3) (b, c Vec3) {
	if math.Abs(n.X) > math.Abs(n.Y) {
		c = NewVec3(n.Z, 0, -n.X).Normalize()
	} else {
		c = NewVec3(0, n.Z, -n.Y).Normalize()
	}
	b = c.Cross(n)
	return b, c
}

// SampleTriangleArea returns a uniformly distributed point on the
// triangle A,B,C using u = sqrt(U1), v = U2, per the BVH primitive
// sampling spec: (1-u)*A + u*(1-v)*B + u*v*C.
func SampleTriangleArea(a, b, c Vec3, rng *RNG) Vec3 {
	u1 := rng.Float64()
	u2 := rng.Float64()
	u := math.Sqrt(u1)
	v := u2
	return a.Multiply(1 - u).Add(b.Multiply(u * (1 - v))).Add(c.Multiply(u * v))
}
