package material

import (
	"github.com/amberhive/beeant-tracer/pkg/core"
)

// Emissive is a light-emitting material. It never reflects incoming
// light; it only radiates its own emission.
type Emissive struct {
	Radiance core.Vec3
}

// NewEmissive creates an Emissive material with the given radiance.
func NewEmissive(radiance core.Vec3) *Emissive {
	return &Emissive{Radiance: radiance}
}

// IsEmissive implements core.Material.
func (e *Emissive) IsEmissive() bool { return true }

// Emission implements core.Material.
func (e *Emissive) Emission() core.Vec3 { return e.Radiance }

// BRDF implements core.Material; lights don't reflect.
func (e *Emissive) BRDF(wi, wo, normal core.Vec3) core.Vec3 {
	return core.Vec3{}
}
