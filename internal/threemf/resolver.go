package threemf

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/philipparndt/mesh2step/internal/geometry"
	"github.com/philipparndt/mesh2step/internal/mesh"
)

// sceneObject is one entry of the resolved object table: either mesh
// geometry or a single reference to another object. Components never carry
// geometry directly.
type sceneObject struct {
	isComponent bool
	ref         string
	points      []geometry.Vector3
	triangles   [][3]int
}

// ResolveScene flattens a model document into one mesh per build instance.
// Components are dereferenced exactly once; a component whose reference is
// missing or is itself a component drops that instance. Without a build
// section every mesh object is returned in document order.
func ResolveScene(model *Model, log *zap.Logger) []*mesh.Mesh {
	objects := make(map[string]*sceneObject)
	var meshOrder []string

	// First pass: collect every object into a table keyed by id.
	for i := range model.Resources.Objects {
		obj := &model.Resources.Objects[i]

		if obj.Components != nil && len(obj.Components.Component) > 0 {
			objects[obj.ID] = &sceneObject{
				isComponent: true,
				ref:         obj.Components.Component[0].ObjectID,
			}
			continue
		}

		if obj.Mesh == nil {
			log.Debug("object has no mesh element", zap.String("id", obj.ID))
			continue
		}

		points := parseVertices(obj.Mesh)
		triangles := parseTriangles(obj.Mesh)
		if len(points) == 0 || len(triangles) == 0 {
			log.Debug("object has empty mesh data", zap.String("id", obj.ID))
			continue
		}

		objects[obj.ID] = &sceneObject{points: points, triangles: triangles}
		meshOrder = append(meshOrder, obj.ID)
	}

	// Second pass: walk the build instances. Lookup misses skip the
	// instance without aborting the parse.
	var meshes []*mesh.Mesh
	if model.Build != nil && len(model.Build.Items) > 0 {
		for _, item := range model.Build.Items {
			entry, ok := objects[item.ObjectID]
			if !ok {
				log.Warn("build item references unknown object", zap.String("id", item.ObjectID))
				continue
			}
			if entry.isComponent {
				resolved, ok := objects[entry.ref]
				if !ok {
					log.Warn("component references unknown object",
						zap.String("id", item.ObjectID), zap.String("ref", entry.ref))
					continue
				}
				if resolved.isComponent {
					// Chained components are not followed.
					log.Warn("component references another component",
						zap.String("id", item.ObjectID), zap.String("ref", entry.ref))
					continue
				}
				entry = resolved
			}
			meshes = append(meshes, mesh.NewIndexed(entry.points, entry.triangles))
		}
		return meshes
	}

	// Fallback: no build section, use every mesh object in document order.
	log.Debug("model has no build section, using all mesh objects")
	for _, id := range meshOrder {
		entry := objects[id]
		meshes = append(meshes, mesh.NewIndexed(entry.points, entry.triangles))
	}
	return meshes
}

// parseVertices extracts vertex coordinates from the raw inner XML
func parseVertices(data *MeshData) []geometry.Vector3 {
	if data.Vertices == nil {
		return nil
	}

	var points []geometry.Vector3
	for _, line := range strings.Split(data.Vertices.Content, "<vertex") {
		if !strings.Contains(line, "x=") {
			continue
		}
		var x, y, z float64
		if _, err := fmt.Sscanf(line, ` x="%f" y="%f" z="%f"`, &x, &y, &z); err != nil {
			if _, err := fmt.Sscanf(line, ` x=%f y=%f z=%f`, &x, &y, &z); err != nil {
				continue
			}
		}
		points = append(points, geometry.Vector3{X: x, Y: y, Z: z})
	}
	return points
}

// parseTriangles extracts triangle indices from the raw inner XML
func parseTriangles(data *MeshData) [][3]int {
	if data.Triangles == nil {
		return nil
	}

	var triangles [][3]int
	for _, line := range strings.Split(data.Triangles.Content, "<triangle") {
		if !strings.Contains(line, "v1=") {
			continue
		}
		var v1, v2, v3 int
		if _, err := fmt.Sscanf(line, ` v1="%d" v2="%d" v3="%d"`, &v1, &v2, &v3); err != nil {
			if _, err := fmt.Sscanf(line, ` v1=%d v2=%d v3=%d`, &v1, &v2, &v3); err != nil {
				continue
			}
		}
		triangles = append(triangles, [3]int{v1, v2, v3})
	}
	return triangles
}
