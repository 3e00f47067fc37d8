// Package threemf loads 3MF archives and resolves their scene graph into a
// flat list of meshes, one per build instance.
package threemf

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/philipparndt/mesh2step/internal/mesh"
	"github.com/philipparndt/mesh2step/internal/stl"
)

const modelPath = "3D/3dmodel.model"

// Loader reads 3MF files
type Loader struct {
	stl *stl.Reader
	log *zap.Logger
}

// NewLoader creates a new 3MF loader
func NewLoader(log *zap.Logger) *Loader {
	return &Loader{
		stl: stl.NewReader(),
		log: log,
	}
}

// Load returns the meshes of a 3MF archive. Archives carrying embedded STL
// payloads bypass the scene resolver: each payload becomes one mesh.
func (l *Loader) Load(filename string) ([]*mesh.Mesh, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening ZIP: %w", err)
	}
	defer zr.Close()

	if meshes, ok, err := l.loadEmbeddedSTL(&zr.Reader); ok {
		return meshes, err
	}

	var modelFile *zip.File
	for _, f := range zr.File {
		if f.Name == modelPath {
			modelFile = f
			break
		}
	}
	if modelFile == nil {
		return nil, fmt.Errorf("%s not found in archive", modelPath)
	}

	model, err := l.parseModel(modelFile)
	if err != nil {
		// A document-level parse error yields an empty mesh list; the
		// caller treats an empty list as a load failure.
		l.log.Warn("model XML parse failed", zap.Error(err))
		return nil, err
	}

	meshes := ResolveScene(model, l.log)
	if len(meshes) == 0 {
		return nil, fmt.Errorf("no mesh data found in 3MF model")
	}
	l.log.Info("resolved 3MF scene", zap.Int("meshes", len(meshes)))
	return meshes, nil
}

// loadEmbeddedSTL extracts STL payloads into a scoped temp directory and
// loads each one. The directory is removed on every exit path.
func (l *Loader) loadEmbeddedSTL(zr *zip.Reader) ([]*mesh.Mesh, bool, error) {
	var stlFiles []*zip.File
	for _, f := range zr.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".stl") {
			stlFiles = append(stlFiles, f)
		}
	}
	if len(stlFiles) == 0 {
		return nil, false, nil
	}

	tempDir, err := os.MkdirTemp("", "3mf_extract_")
	if err != nil {
		return nil, true, fmt.Errorf("error creating temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	l.log.Info("loading embedded STL payloads",
		zap.Int("count", len(stlFiles)), zap.String("dir", tempDir))

	var meshes []*mesh.Mesh
	for i, f := range stlFiles {
		path := filepath.Join(tempDir, fmt.Sprintf("payload_%d.stl", i))
		if err := extractFile(f, path); err != nil {
			return nil, true, err
		}
		m, err := l.stl.Read(path)
		if err != nil {
			return nil, true, fmt.Errorf("error reading embedded STL %s: %w", f.Name, err)
		}
		meshes = append(meshes, m)
	}
	return meshes, true, nil
}

func extractFile(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("error opening ZIP entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("error extracting %s: %w", f.Name, err)
	}
	return nil
}

func (l *Loader) parseModel(file *zip.File) (*Model, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening model file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("error reading model file: %w", err)
	}

	var model Model
	if err := xml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("error parsing XML: %w", err)
	}
	return &model, nil
}
