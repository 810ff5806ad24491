// Package meshio imports triangle meshes from PLY files. It reads vertex
// positions and triangular faces only — per-vertex normals, colors, and
// texture coordinates are accepted in the header (so real-world PLY
// exports parse) but skipped, since the scene's shading normal is always
// the triangle's derived face normal and material is assigned explicitly
// by the caller, never read from the file.
package meshio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/amberhive/beeant-tracer/pkg/core"
)

// Mesh is the raw result of a PLY load: a flat vertex list and a
// flattened triangle index list (three indices per triangle).
type Mesh struct {
	Vertices []core.Vec3
	Faces    []int
}

// scalarType is one of PLY's fixed binary scalar types: its size in
// bytes, and whether it is IEEE float or an integer.
type scalarType struct {
	size    int
	isFloat bool
}

func lookupType(name string) (scalarType, error) {
	switch name {
	case "char", "int8":
		return scalarType{1, false}, nil
	case "uchar", "uint8":
		return scalarType{1, false}, nil
	case "short", "int16":
		return scalarType{2, false}, nil
	case "ushort", "uint16":
		return scalarType{2, false}, nil
	case "int", "int32", "uint", "uint32":
		return scalarType{4, false}, nil
	case "float", "float32":
		return scalarType{4, true}, nil
	case "double", "float64":
		return scalarType{8, true}, nil
	default:
		return scalarType{}, fmt.Errorf("unrecognized scalar type %q", name)
	}
}

type property struct {
	name string

	// scalar property
	scalar scalarType

	// list property (scalar is unused)
	isList    bool
	countType scalarType
	elemType  scalarType
}

type header struct {
	format      string // "ascii", "binary_little_endian", or "binary_big_endian"
	vertexCount int
	faceCount   int
	vertexProps []property
	faceProps   []property
}

// Importer loads a triangle mesh from a file path. PLYImporter is the
// only implementation; the interface exists so a scene loader can take
// an Importer rather than hard-coding the PLY format.
type Importer interface {
	Import(path string) (*Mesh, error)
}

// PLYImporter implements Importer for ASCII and binary_little_endian PLY
// files.
type PLYImporter struct{}

// Import implements Importer.
func (PLYImporter) Import(path string) (*Mesh, error) {
	return LoadPLY(path)
}

// LoadPLY reads vertex positions and triangular faces from path.
func LoadPLY(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("meshio: open %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	hdr, err := parseHeader(r)
	if err != nil {
		return nil, fmt.Errorf("meshio: parse header of %s: %w", path, err)
	}

	switch hdr.format {
	case "ascii":
		return readASCII(r, hdr)
	case "binary_little_endian":
		return readBinary(r, hdr, binary.LittleEndian)
	case "binary_big_endian":
		return nil, fmt.Errorf("meshio: %s: binary_big_endian not supported", path)
	default:
		return nil, fmt.Errorf("meshio: %s: unrecognized format %q", path, hdr.format)
	}
}

func parseHeader(r *bufio.Reader) (*header, error) {
	hdr := &header{}
	var currentElement string

	magic, err := r.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("missing ply magic number")
	}

	for {
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return nil, fmt.Errorf("unexpected EOF before end_header")
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "end_header":
			return hdr, nil
		case "comment", "obj_info":
			continue
		case "format":
			if len(fields) < 2 {
				return nil, fmt.Errorf("malformed format line")
			}
			hdr.format = fields[1]
		case "element":
			if len(fields) < 3 {
				return nil, fmt.Errorf("malformed element line")
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("bad element count: %w", err)
			}
			currentElement = fields[1]
			switch currentElement {
			case "vertex":
				hdr.vertexCount = count
			case "face":
				hdr.faceCount = count
			}
		case "property":
			prop, err := parseProperty(fields[1:])
			if err != nil {
				return nil, err
			}
			switch currentElement {
			case "vertex":
				hdr.vertexProps = append(hdr.vertexProps, prop)
			case "face":
				hdr.faceProps = append(hdr.faceProps, prop)
			}
		}
	}
}

func parseProperty(fields []string) (property, error) {
	if len(fields) == 0 {
		return property{}, fmt.Errorf("empty property line")
	}
	if fields[0] == "list" {
		if len(fields) != 4 {
			return property{}, fmt.Errorf("malformed list property")
		}
		countType, err := lookupType(fields[1])
		if err != nil {
			return property{}, err
		}
		elemType, err := lookupType(fields[2])
		if err != nil {
			return property{}, err
		}
		return property{name: fields[3], isList: true, countType: countType, elemType: elemType}, nil
	}
	if len(fields) != 2 {
		return property{}, fmt.Errorf("malformed scalar property")
	}
	scalar, err := lookupType(fields[0])
	if err != nil {
		return property{}, err
	}
	return property{name: fields[1], scalar: scalar}, nil
}

func vertexPositionIndices(props []property) (xi, yi, zi int, err error) {
	xi, yi, zi = -1, -1, -1
	for i, p := range props {
		switch p.name {
		case "x":
			xi = i
		case "y":
			yi = i
		case "z":
			zi = i
		}
	}
	if xi < 0 || yi < 0 || zi < 0 {
		return 0, 0, 0, fmt.Errorf("vertex element missing x/y/z property")
	}
	return xi, yi, zi, nil
}

func readASCII(r *bufio.Reader, hdr *header) (*Mesh, error) {
	xi, yi, zi, err := vertexPositionIndices(hdr.vertexProps)
	if err != nil {
		return nil, err
	}

	vertices := make([]core.Vec3, 0, hdr.vertexCount)
	for i := 0; i < hdr.vertexCount; i++ {
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return nil, fmt.Errorf("EOF reading vertex %d", i)
		}
		fields := strings.Fields(line)
		if len(fields) < len(hdr.vertexProps) {
			return nil, fmt.Errorf("vertex %d has %d fields, want %d", i, len(fields), len(hdr.vertexProps))
		}
		x, errX := strconv.ParseFloat(fields[xi], 64)
		y, errY := strconv.ParseFloat(fields[yi], 64)
		z, errZ := strconv.ParseFloat(fields[zi], 64)
		if errX != nil || errY != nil || errZ != nil {
			return nil, fmt.Errorf("vertex %d: malformed coordinate", i)
		}
		vertices = append(vertices, core.NewVec3(x, y, z))
	}

	faces := make([]int, 0, hdr.faceCount*3)
	for i := 0; i < hdr.faceCount; i++ {
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return nil, fmt.Errorf("EOF reading face %d", i)
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return nil, fmt.Errorf("face %d is empty", i)
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("face %d: bad vertex count: %w", i, err)
		}
		if n != 3 {
			return nil, fmt.Errorf("face %d: only triangles supported, got %d vertices", i, n)
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("face %d: missing indices", i)
		}
		for j := 0; j < 3; j++ {
			idx, err := strconv.Atoi(fields[1+j])
			if err != nil {
				return nil, fmt.Errorf("face %d: bad index: %w", i, err)
			}
			faces = append(faces, idx)
		}
	}

	return &Mesh{Vertices: vertices, Faces: faces}, nil
}

func readBinary(r *bufio.Reader, hdr *header, order binary.ByteOrder) (*Mesh, error) {
	xi, yi, zi, err := vertexPositionIndices(hdr.vertexProps)
	if err != nil {
		return nil, err
	}

	vertices := make([]core.Vec3, 0, hdr.vertexCount)
	for i := 0; i < hdr.vertexCount; i++ {
		var coords [3]float64
		for propIdx, p := range hdr.vertexProps {
			v, err := readScalar(r, p.scalar, order)
			if err != nil {
				return nil, fmt.Errorf("vertex %d, property %s: %w", i, p.name, err)
			}
			switch propIdx {
			case xi:
				coords[0] = v
			case yi:
				coords[1] = v
			case zi:
				coords[2] = v
			}
		}
		vertices = append(vertices, core.NewVec3(coords[0], coords[1], coords[2]))
	}

	faces := make([]int, 0, hdr.faceCount*3)
	for i := 0; i < hdr.faceCount; i++ {
		for _, p := range hdr.faceProps {
			if !p.isList {
				if err := skipScalar(r, p.scalar); err != nil {
					return nil, fmt.Errorf("face %d, property %s: %w", i, p.name, err)
				}
				continue
			}
			if p.name != "vertex_indices" && p.name != "vertex_index" {
				count, err := readScalar(r, p.countType, order)
				if err != nil {
					return nil, fmt.Errorf("face %d: list count of %s: %w", i, p.name, err)
				}
				for j := 0; j < int(count); j++ {
					if err := skipScalar(r, p.elemType); err != nil {
						return nil, fmt.Errorf("face %d: skipping %s: %w", i, p.name, err)
					}
				}
				continue
			}

			count, err := readScalar(r, p.countType, order)
			if err != nil {
				return nil, fmt.Errorf("face %d: list count: %w", i, err)
			}
			if int(count) != 3 {
				return nil, fmt.Errorf("face %d: only triangles supported, got %d vertices", i, int(count))
			}
			for j := 0; j < 3; j++ {
				idx, err := readScalar(r, p.elemType, order)
				if err != nil {
					return nil, fmt.Errorf("face %d: index %d: %w", i, j, err)
				}
				faces = append(faces, int(idx))
			}
		}
	}

	return &Mesh{Vertices: vertices, Faces: faces}, nil
}

// readScalar reads one binary scalar of type t and widens it to float64.
func readScalar(r io.Reader, t scalarType, order binary.ByteOrder) (float64, error) {
	buf := make([]byte, t.size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, err
	}
	switch t.size {
	case 1:
		return float64(buf[0]), nil
	case 2:
		return float64(order.Uint16(buf)), nil
	case 4:
		bits := order.Uint32(buf)
		if t.isFloat {
			return float64(math.Float32frombits(bits)), nil
		}
		return float64(bits), nil
	case 8:
		bits := order.Uint64(buf)
		if t.isFloat {
			return math.Float64frombits(bits), nil
		}
		return float64(bits), nil
	default:
		return 0, fmt.Errorf("unsupported scalar size %d", t.size)
	}
}

func skipScalar(r io.Reader, t scalarType) error {
	_, err := io.CopyN(io.Discard, r, int64(t.size))
	return err
}
