package meshio

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeBinaryPLY writes a minimal binary_little_endian PLY: a unit
// square of 4 vertices (with an unused per-vertex normal, to exercise
// property skipping) split into 2 triangles.
func writeBinaryPLY(t *testing.T, path string) {
	var buf bytes.Buffer
	buf.WriteString("ply\n")
	buf.WriteString("format binary_little_endian 1.0\n")
	buf.WriteString("element vertex 4\n")
	buf.WriteString("property float x\n")
	buf.WriteString("property float y\n")
	buf.WriteString("property float z\n")
	buf.WriteString("property float nx\n")
	buf.WriteString("property float ny\n")
	buf.WriteString("property float nz\n")
	buf.WriteString("element face 2\n")
	buf.WriteString("property list uchar int vertex_indices\n")
	buf.WriteString("end_header\n")

	verts := [][6]float32{
		{0, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 1},
		{1, 1, 0, 0, 0, 1},
		{0, 1, 0, 0, 0, 1},
	}
	for _, v := range verts {
		for _, c := range v {
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, c))
		}
	}

	writeFace := func(count uint8, idx [3]int32) {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, count))
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, idx))
	}
	writeFace(3, [3]int32{0, 1, 2})
	writeFace(3, [3]int32{0, 2, 3})

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestLoadPLY_Binary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.ply")
	writeBinaryPLY(t, path)

	mesh, err := LoadPLY(path)
	require.NoError(t, err)

	assert.Len(t, mesh.Vertices, 4)
	assert.Equal(t, []int{0, 1, 2, 0, 2, 3}, mesh.Faces)
	assert.InDelta(t, 1.0, mesh.Vertices[2].X, 1e-9)
	assert.InDelta(t, 1.0, mesh.Vertices[2].Y, 1e-9)
}

func TestPLYImporterImplementsImporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.ply")
	writeBinaryPLY(t, path)

	var importer Importer = PLYImporter{}
	mesh, err := importer.Import(path)
	require.NoError(t, err)
	assert.Len(t, mesh.Vertices, 4)
}

func TestLoadPLY_ASCII(t *testing.T) {
	content := "ply\n" +
		"format ascii 1.0\n" +
		"element vertex 3\n" +
		"property float x\n" +
		"property float y\n" +
		"property float z\n" +
		"element face 1\n" +
		"property list uchar int vertex_indices\n" +
		"end_header\n" +
		"0 0 0\n" +
		"1 0 0\n" +
		"0 1 0\n" +
		"3 0 1 2\n"

	path := filepath.Join(t.TempDir(), "tri.ply")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	mesh, err := LoadPLY(path)
	require.NoError(t, err)

	require.Len(t, mesh.Vertices, 3)
	assert.Equal(t, []int{0, 1, 2}, mesh.Faces)
	assert.Equal(t, 1.0, mesh.Vertices[1].X)
}

func TestLoadPLY_RejectsNonTriangularFaces(t *testing.T) {
	content := "ply\n" +
		"format ascii 1.0\n" +
		"element vertex 4\n" +
		"property float x\n" +
		"property float y\n" +
		"property float z\n" +
		"element face 1\n" +
		"property list uchar int vertex_indices\n" +
		"end_header\n" +
		"0 0 0\n1 0 0\n1 1 0\n0 1 0\n" +
		"4 0 1 2 3\n"

	path := filepath.Join(t.TempDir(), "quad.ply")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadPLY(path)
	require.Error(t, err)
}

func TestLoadPLY_MissingFile(t *testing.T) {
	_, err := LoadPLY(filepath.Join(t.TempDir(), "does-not-exist.ply"))
	require.Error(t, err)
}
