package geometry

import (
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const floatTolerance = 1e-9

func TestBuildRoomMesh_Counts(t *testing.T) {
	mesh := BuildRoomMesh(3.5, 5.0, 0.4)

	require.Len(t, mesh.BoxVertices, 8, "room volume must have 8 corners")
	require.Len(t, mesh.BoxFaces, 12, "room volume must triangulate into 12 faces")
	require.Len(t, mesh.WindowVertices, 4, "glazing quad must have 4 corners")
	require.Len(t, mesh.WindowFaces, 2, "glazing quad must split into 2 triangles")
}

func TestBuildRoomMesh_EveryBoxVertexReferenced(t *testing.T) {
	mesh := BuildRoomMesh(2.0, 4.0, 0.3)

	referenced := make(map[int]bool)
	for _, f := range mesh.BoxFaces {
		require.GreaterOrEqual(t, f.I, 0)
		require.Less(t, f.I, len(mesh.BoxVertices))
		require.GreaterOrEqual(t, f.J, 0)
		require.Less(t, f.J, len(mesh.BoxVertices))
		require.GreaterOrEqual(t, f.K, 0)
		require.Less(t, f.K, len(mesh.BoxVertices))
		referenced[f.I] = true
		referenced[f.J] = true
		referenced[f.K] = true
	}

	for i := range mesh.BoxVertices {
		assert.True(t, referenced[i], "vertex %d is not referenced by any face", i)
	}
}

// TestBuildRoomMesh_ClosedSurface verifies the triangulation is a closed
// manifold: every undirected edge is shared by exactly two triangles, and no
// triangle is degenerate.
func TestBuildRoomMesh_ClosedSurface(t *testing.T) {
	mesh := BuildRoomMesh(3.5, 5.0, 0.4)

	type edge struct{ a, b int }
	normalize := func(a, b int) edge {
		if a > b {
			a, b = b, a
		}
		return edge{a, b}
	}

	edgeUse := make(map[edge]int)
	for _, f := range mesh.BoxFaces {
		require.NotEqual(t, f.I, f.J, "degenerate face %+v", f)
		require.NotEqual(t, f.J, f.K, "degenerate face %+v", f)
		require.NotEqual(t, f.I, f.K, "degenerate face %+v", f)

		edgeUse[normalize(f.I, f.J)]++
		edgeUse[normalize(f.J, f.K)]++
		edgeUse[normalize(f.I, f.K)]++
	}

	assert.Len(t, edgeUse, 18, "a closed box triangulation has 18 distinct edges")
	for e, count := range edgeUse {
		assert.Equal(t, 2, count, "edge %v must be shared by exactly 2 faces", e)
	}
}

// TestWindowDimensions_AreaIdentity verifies the sqrt scaling preserves the
// window-to-wall ratio as a rendered area fraction across the full parameter
// space: winW * winH == wwr * wallWidth * height.
func TestWindowDimensions_AreaIdentity(t *testing.T) {
	for wallWidth := 0.5; wallWidth <= 5.0; wallWidth += 0.5 {
		for wwr := 0.1; wwr <= 0.9; wwr += 0.1 {
			winW, winH := WindowDimensions(wallWidth, 3.0, wwr)

			wantArea := wwr * wallWidth * 3.0
			gotArea := winW * winH
			assert.InDelta(t, wantArea, gotArea, 1e-9,
				"wallWidth=%.1f wwr=%.1f", wallWidth, wwr)
		}
	}
}

func TestBuildRoomMesh_WindowInsideWall(t *testing.T) {
	mesh := BuildRoomMesh(3.5, 5.0, 0.4)

	for _, v := range mesh.WindowVertices {
		assert.Equal(t, 0.0, v.Y, "glazing must lie on the front face")
		assert.GreaterOrEqual(t, v.X, 0.0)
		assert.LessOrEqual(t, v.X, 3.5)
		assert.GreaterOrEqual(t, v.Z, 0.0)
		assert.LessOrEqual(t, v.Z, 3.0)
	}
}

func TestBuildRoomMesh_ReferenceExample(t *testing.T) {
	// Dashboard defaults: wall 3.5 m, depth 5.0 m, wwr 0.4.
	mesh := BuildRoomMesh(3.5, 5.0, 0.4)

	assert.InDelta(t, 2.2136, mesh.WindowWidthM, 1e-4)
	assert.InDelta(t, 1.8974, mesh.WindowHeightM, 1e-4)

	// Far corner of the volume.
	assert.Equal(t, Vertex{3.5, 5.0, 3.0}, mesh.BoxVertices[6])

	// Glazing centered on the wall.
	offX := (3.5 - mesh.WindowWidthM) / 2
	assert.InDelta(t, offX, mesh.WindowVertices[0].X, floatTolerance)
	assert.InDelta(t, offX+mesh.WindowWidthM, mesh.WindowVertices[2].X, floatTolerance)
}

func TestBuildRoomMesh_Deterministic(t *testing.T) {
	a := BuildRoomMesh(1.25, 7.75, 0.62)
	b := BuildRoomMesh(1.25, 7.75, 0.62)

	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs must produce identical meshes")
	}
}

func TestBuildRoomMeshWithHeight_CustomHeight(t *testing.T) {
	mesh := BuildRoomMeshWithHeight(2.0, 3.0, 0.25, 4.0)

	assert.Equal(t, 4.0, mesh.BoxVertices[4].Z)
	assert.InDelta(t, 2.0*math.Sqrt(0.25), mesh.WindowWidthM, floatTolerance)
	assert.InDelta(t, 4.0*math.Sqrt(0.25), mesh.WindowHeightM, floatTolerance)
}
