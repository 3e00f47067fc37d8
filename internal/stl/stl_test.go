package stl

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

const asciiTriangle = `solid test
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex 1 0 0
      vertex 1 1 0
      vertex 0 1 0
    endloop
  endfacet
endsolid test
`

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadASCII(t *testing.T) {
	path := writeTempFile(t, "test.stl", []byte(asciiTriangle))

	m, err := NewReader().Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := m.CountFacets(); got != 2 {
		t.Errorf("CountFacets = %d, want 2", got)
	}
	// Facet soup: three points per facet, no welding at load time.
	if got := m.CountPoints(); got != 6 {
		t.Errorf("CountPoints = %d, want 6", got)
	}
	a, b, c := m.Vertices(0)
	if a.X != 0 || b.X != 1 || c.Y != 1 {
		t.Errorf("unexpected vertices: %v %v %v", a, b, c)
	}
}

func TestReadASCIIShorterThanBinaryHeader(t *testing.T) {
	short := "solid s\nfacet\nvertex 0 0 0\nvertex 1 0 0\nvertex 0 1 0\nendfacet\n"
	if len(short) >= 80 {
		t.Fatal("fixture must stay below the binary header size")
	}
	path := writeTempFile(t, "short.stl", []byte(short))

	m, err := NewReader().Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := m.CountFacets(); got != 1 {
		t.Errorf("CountFacets = %d, want 1", got)
	}
}

func TestReadBinary(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	binary.Write(&buf, binary.LittleEndian, uint32(1))
	record := struct {
		Normal     [3]float32
		V1, V2, V3 [3]float32
		Attribute  uint16
	}{
		Normal: [3]float32{0, 0, 1},
		V1:     [3]float32{0, 0, 0},
		V2:     [3]float32{2.5, 0, 0},
		V3:     [3]float32{0, 2.5, 0},
	}
	binary.Write(&buf, binary.LittleEndian, record)

	path := writeTempFile(t, "test_binary.stl", buf.Bytes())
	m, err := NewReader().Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := m.CountFacets(); got != 1 {
		t.Errorf("CountFacets = %d, want 1", got)
	}
	_, b, _ := m.Vertices(0)
	if math.Abs(b.X-2.5) > 1e-9 {
		t.Errorf("vertex X = %v, want 2.5", b.X)
	}
}

func TestReadBinaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	binary.Write(&buf, binary.LittleEndian, uint32(0))

	path := writeTempFile(t, "empty.stl", buf.Bytes())
	m, err := NewReader().Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := m.CountFacets(); got != 0 {
		t.Errorf("CountFacets = %d, want 0", got)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := NewReader().Read("/nonexistent/file.stl"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
