package scene

import (
	"github.com/amberhive/beeant-tracer/pkg/core"
	"github.com/amberhive/beeant-tracer/pkg/geometry"
	"github.com/amberhive/beeant-tracer/pkg/material"
)

// quadMesh splits the quad with one corner at corner and edges u, v into
// two triangles sharing mat: (corner, corner+u, corner+u+v) and
// (corner, corner+u+v, corner+v).
func quadMesh(corner, u, v core.Vec3, mat core.Material) *geometry.Mesh {
	a := corner
	b := corner.Add(u)
	c := corner.Add(u).Add(v)
	d := corner.Add(v)
	vertices := []core.Vec3{a, b, c, d}
	faces := []int{0, 1, 2, 0, 2, 3}
	return geometry.NewMesh(vertices, faces, mat)
}

// NewCornellBoxScene builds the classic 555-unit Cornell box — white
// floor, ceiling and back wall, red left wall, green right wall, and a
// bright ceiling-mounted emissive panel — as triangle meshes, one per
// wall and one for the light, viewed by a camera placed just outside the
// open face looking in.
func NewCornellBoxScene(screenWidth, screenHeight int) *Scene {
	const boxSize = 555.0

	white := material.NewDiffuse(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewDiffuse(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewDiffuse(core.NewVec3(0.12, 0.45, 0.15))
	light := material.NewEmissive(core.NewVec3(15, 15, 15))

	camera := NewCamera(
		core.NewVec3(278, 278, -800),
		core.NewVec3(0, 0, 1),
		40,
		screenWidth, screenHeight,
	)
	s := NewScene(camera)

	addWall := func(corner, u, v core.Vec3, mat core.Material) {
		s.AddObject(quadMesh(corner, u, v, mat), mat)
	}

	// floor
	addWall(core.NewVec3(0, 0, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white)
	// ceiling
	addWall(core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white)
	// back wall
	addWall(core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), white)
	// left wall (red)
	addWall(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), red)
	// right wall (green)
	addWall(core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize), green)

	// ceiling light panel, inset and just below the ceiling
	const lightSize = 130.0
	offset := (boxSize - lightSize) / 2.0
	addWall(
		core.NewVec3(offset, boxSize-1, offset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		light,
	)

	s.Build()
	return s
}
