// Package stl reads STL files in ASCII and binary form.
package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/philipparndt/mesh2step/internal/geometry"
	"github.com/philipparndt/mesh2step/internal/mesh"
)

// Reader parses STL files into meshes
type Reader struct{}

// NewReader creates a new STL reader
func NewReader() *Reader {
	return &Reader{}
}

// Read reads an STL file and returns the mesh data
func (r *Reader) Read(filename string) (*mesh.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open file: %w", err)
	}
	defer file.Close()

	// Read first few bytes to detect format. Tiny ASCII files can be
	// shorter than the binary header.
	header := make([]byte, 80)
	n, err := io.ReadFull(file, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("error reading header: %w", err)
	}
	header = header[:n]

	// Reset file position
	if _, err := file.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("error seeking: %w", err)
	}

	// Check if it's ASCII (starts with "solid")
	if strings.HasPrefix(string(header), "solid") {
		return r.readASCII(file)
	}
	return r.readBinary(file)
}

// readASCII parses an ASCII STL file
func (r *Reader) readASCII(reader io.Reader) (*mesh.Mesh, error) {
	scanner := bufio.NewScanner(reader)
	m := mesh.New()

	var facet [3]geometry.Vector3
	var vertexCount int

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)

		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "facet":
			vertexCount = 0
		case "vertex":
			if len(fields) >= 4 && vertexCount < 3 {
				var v geometry.Vector3
				fmt.Sscanf(strings.Join(fields[1:], " "), "%f %f %f", &v.X, &v.Y, &v.Z)
				facet[vertexCount] = v
				vertexCount++
			}
		case "endfacet":
			if vertexCount == 3 {
				m.AddFacet(facet[0], facet[1], facet[2])
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return m, nil
}

// readBinary parses a binary STL file
func (r *Reader) readBinary(reader io.Reader) (*mesh.Mesh, error) {
	// Read 80-byte header
	header := make([]byte, 80)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}

	// Read triangle count
	var triangleCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &triangleCount); err != nil {
		return nil, fmt.Errorf("error reading triangle count: %w", err)
	}

	m := mesh.New()
	var record struct {
		Normal     [3]float32
		V1, V2, V3 [3]float32
		Attribute  uint16
	}
	for i := uint32(0); i < triangleCount; i++ {
		if err := binary.Read(reader, binary.LittleEndian, &record); err != nil {
			return nil, fmt.Errorf("error reading triangle %d: %w", i, err)
		}
		m.AddFacet(toVector(record.V1), toVector(record.V2), toVector(record.V3))
	}

	return m, nil
}

func toVector(v [3]float32) geometry.Vector3 {
	return geometry.Vector3{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}
