package facet

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/philipparndt/mesh2step/internal/geometry"
	"github.com/philipparndt/mesh2step/internal/kernel"
)

// stepWriter emits ISO 10303-21 entities with sequential ids
type stepWriter struct {
	w    *bufio.Writer
	next int
	err  error
}

func (sw *stepWriter) entity(format string, args ...any) int {
	id := sw.next
	sw.next++
	if sw.err == nil {
		_, sw.err = fmt.Fprintf(sw.w, "#%d = %s;\n", id, fmt.Sprintf(format, args...))
	}
	return id
}

// ExportSTEP writes the shapes to a STEP AP214 file as faceted boundary
// representations. Solids become FACETED_BREP entities, open shells
// become SHELL_BASED_SURFACE_MODEL entities.
func (k *Kernel) ExportSTEP(shapes []kernel.Shape, path string) error {
	if len(shapes) == 0 {
		return fmt.Errorf("no shapes to export")
	}
	var leaves []*Shape
	for _, s := range shapes {
		sh, err := asShape(s)
		if err != nil {
			return err
		}
		leaves = append(leaves, flatten(sh)...)
	}
	if len(leaves) == 0 {
		return fmt.Errorf("no shapes to export")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating STEP file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	name := filepath.Base(path)
	stamp := time.Now().UTC().Format("2006-01-02T15:04:05")
	fmt.Fprintf(w, "ISO-10303-21;\nHEADER;\nFILE_DESCRIPTION(('faceted brep model'),'2;1');\n")
	fmt.Fprintf(w, "FILE_NAME('%s','%s',(''),(''),'mesh2step','mesh2step','');\n", name, stamp)
	fmt.Fprintf(w, "FILE_SCHEMA(('AUTOMOTIVE_DESIGN { 1 0 10303 214 1 1 1 1 }'));\nENDSEC;\nDATA;\n")

	sw := &stepWriter{w: w, next: 1}
	writeProduct(sw, leaves)

	fmt.Fprintf(w, "ENDSEC;\nEND-ISO-10303-21;\n")
	if sw.err != nil {
		return fmt.Errorf("error writing STEP data: %w", sw.err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("error writing STEP file: %w", err)
	}
	k.log.Debug("wrote STEP file", zap.String("path", path), zap.Int("shapes", len(leaves)))
	return nil
}

func flatten(s *Shape) []*Shape {
	if len(s.children) == 0 {
		return []*Shape{s}
	}
	var out []*Shape
	for _, c := range s.children {
		out = append(out, flatten(c)...)
	}
	return out
}

func writeProduct(sw *stepWriter, shapes []*Shape) {
	app := sw.entity("APPLICATION_CONTEXT('automotive design')")
	sw.entity("APPLICATION_PROTOCOL_DEFINITION('international standard','automotive_design',2010,#%d)", app)
	prodCtx := sw.entity("PRODUCT_CONTEXT('',#%d,'mechanical')", app)
	product := sw.entity("PRODUCT('converted','converted','',(#%d))", prodCtx)
	formation := sw.entity("PRODUCT_DEFINITION_FORMATION('','',#%d)", product)
	defCtx := sw.entity("PRODUCT_DEFINITION_CONTEXT('part definition',#%d,'design')", app)
	definition := sw.entity("PRODUCT_DEFINITION('design','',#%d,#%d)", formation, defCtx)
	defShape := sw.entity("PRODUCT_DEFINITION_SHAPE('','',#%d)", definition)

	length := sw.entity("( LENGTH_UNIT() NAMED_UNIT(*) SI_UNIT(.MILLI.,.METRE.) )")
	angle := sw.entity("( NAMED_UNIT(*) PLANE_ANGLE_UNIT() SI_UNIT($,.RADIAN.) )")
	solidAngle := sw.entity("( NAMED_UNIT(*) SI_UNIT($,.STERADIAN.) SOLID_ANGLE_UNIT() )")
	uncertainty := sw.entity("UNCERTAINTY_MEASURE_WITH_UNIT(LENGTH_MEASURE(1.E-07),#%d,'distance_accuracy_value','confusion accuracy')", length)
	geomCtx := sw.entity("( GEOMETRIC_REPRESENTATION_CONTEXT(3) GLOBAL_UNCERTAINTY_ASSIGNED_CONTEXT((#%d)) GLOBAL_UNIT_ASSIGNED_CONTEXT((#%d,#%d,#%d)) REPRESENTATION_CONTEXT('Context #1','3D Context') )",
		uncertainty, length, angle, solidAngle)

	var items []int
	for _, sh := range shapes {
		items = append(items, writeShape(sw, sh))
	}
	repr := sw.entity("SHAPE_REPRESENTATION('converted',(%s),#%d)", refList(items), geomCtx)
	sw.entity("SHAPE_DEFINITION_REPRESENTATION(#%d,#%d)", defShape, repr)
}

func writeShape(sw *stepWriter, sh *Shape) int {
	points := make([]int, len(sh.points))
	used := make([]bool, len(sh.points))
	for _, f := range sh.faces {
		for _, p := range f.loop {
			used[p] = true
		}
	}
	for i, p := range sh.points {
		if used[i] {
			points[i] = sw.entity("CARTESIAN_POINT('',(%s,%s,%s))", stepFloat(p.X), stepFloat(p.Y), stepFloat(p.Z))
		}
	}

	var faces []int
	for _, f := range sh.faces {
		refs := make([]int, len(f.loop))
		for i, p := range f.loop {
			refs[i] = points[p]
		}
		loop := sw.entity("POLY_LOOP('',(%s))", refList(refs))
		bound := sw.entity("FACE_OUTER_BOUND('',#%d,.T.)", loop)
		origin := sh.points[f.loop[0]]
		axisPoint := sw.entity("CARTESIAN_POINT('',(%s,%s,%s))", stepFloat(origin.X), stepFloat(origin.Y), stepFloat(origin.Z))
		dir := sw.entity("DIRECTION('',(%s,%s,%s))", stepFloat(f.normal.X), stepFloat(f.normal.Y), stepFloat(f.normal.Z))
		ref := refDirection(f.normal)
		refDir := sw.entity("DIRECTION('',(%s,%s,%s))", stepFloat(ref.X), stepFloat(ref.Y), stepFloat(ref.Z))
		placement := sw.entity("AXIS2_PLACEMENT_3D('',#%d,#%d,#%d)", axisPoint, dir, refDir)
		plane := sw.entity("PLANE('',#%d)", placement)
		faces = append(faces, sw.entity("FACE_SURFACE('',(#%d),#%d,.T.)", bound, plane))
	}

	if sh.solid {
		shell := sw.entity("CLOSED_SHELL('',(%s))", refList(faces))
		return sw.entity("FACETED_BREP('',#%d)", shell)
	}
	shell := sw.entity("OPEN_SHELL('',(%s))", refList(faces))
	return sw.entity("SHELL_BASED_SURFACE_MODEL('',(#%d))", shell)
}

// refDirection picks a direction in the face plane for the placement axes
func refDirection(normal geometry.Vector3) geometry.Vector3 {
	probe := geometry.Vector3{X: 1}
	if normal.Cross(probe).Length() < 1e-6 {
		probe = geometry.Vector3{Y: 1}
	}
	return normal.Cross(probe).Normalize()
}

func refList(ids []int) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("#%d", id)
	}
	return out
}

// stepFloat formats a REAL value. STEP requires a decimal point even for
// integral values.
func stepFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', 10, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += "."
	}
	return s
}
