// Package integrator implements the recursive path-tracing kernel: given
// a camera ray and a built scene, it produces a Path — an ordered,
// camera-first sequence of PathNodes combining next-event estimation and
// Russian-roulette continuation.
package integrator

import (
	"github.com/amberhive/beeant-tracer/pkg/core"
)

// FromLight is the direct-lighting branch's record, populated whether or
// not the sampled light turned out to be visible.
type FromLight struct {
	LiLight  core.Vec3
	WiLight  core.Direction
	HitLight core.Intersection
}

// FromObj is the indirect (Russian-roulette) branch's record, populated
// whether or not the branch survived roulette or the bounce ray hit
// anything useful.
type FromObj struct {
	RR     float64
	LiObj  core.Vec3
	WiObj  core.Direction
	HitObj core.Intersection
}

// PathNode is one segment of a camera-originated path.
type PathNode struct {
	Lo        core.Vec3
	Wo        core.Direction
	PosOut    core.Vec3
	Hit       core.Intersection
	FromLight FromLight
	FromObj   FromObj
}

// Path is an ordered sequence of PathNodes, camera-nearest first.
type Path []PathNode
