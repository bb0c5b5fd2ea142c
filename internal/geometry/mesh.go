// Package geometry builds the 3D room preview rendered by the dashboard: a
// closed box volume for the room and an inset quad for the glazing area. The
// output is deterministic and regenerated on every parameter change; nothing
// here holds state.
package geometry

import (
	"math"

	"comfortsense/internal/types"
)

// Vertex is a point in room-local coordinates (meters). X spans the glazed
// wall, Y runs into the room, Z is vertical.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Triangle references three vertices of a surface by index.
type Triangle struct {
	I int `json:"i"`
	J int `json:"j"`
	K int `json:"k"`
}

// RoomMesh is the renderable preview geometry: the 8-vertex room box
// triangulated into 12 faces, plus the glazing quad on the front (y=0) face.
type RoomMesh struct {
	BoxVertices    []Vertex   `json:"box_vertices"`
	BoxFaces       []Triangle `json:"box_faces"`
	WindowVertices []Vertex   `json:"window_vertices"`
	WindowFaces    []Triangle `json:"window_faces"`

	// Glazing dimensions, exposed so the UI can annotate the preview.
	WindowWidthM  float64 `json:"window_width_m"`
	WindowHeightM float64 `json:"window_height_m"`
}

// boxFaces is the fixed triangulation of the 8 box corners. The adjacency
// must not change: this exact index table yields a closed, non-self-
// intersecting surface for the corner layout produced by BuildRoomMesh.
var boxFaces = []Triangle{
	{7, 3, 0}, {0, 4, 7},
	{0, 1, 2}, {0, 2, 3},
	{4, 5, 6}, {4, 6, 7},
	{6, 5, 1}, {6, 2, 1},
	{4, 0, 5}, {0, 1, 5},
	{3, 6, 7}, {2, 3, 6},
}

// windowFaces splits the glazing quad into two triangles.
var windowFaces = []Triangle{
	{0, 1, 2}, {0, 2, 3},
}

// WindowDimensions returns the glazing quad size for a wall of the given
// width and height. Both sides scale by sqrt(wwr), which keeps the rendered
// glazing area equal to exactly wwr of the wall face:
//
//	winW * winH == wwr * wallWidth * height
func WindowDimensions(wallWidth, height, wwr float64) (winWidth, winHeight float64) {
	scale := math.Sqrt(wwr)
	return wallWidth * scale, height * scale
}

// BuildRoomMesh constructs the preview mesh for a room of the given footprint
// and window-to-wall ratio, using the fixed room height.
func BuildRoomMesh(wallWidth, roomDepth, wwr float64) RoomMesh {
	return BuildRoomMeshWithHeight(wallWidth, roomDepth, wwr, types.RoomHeightM)
}

// BuildRoomMeshWithHeight is BuildRoomMesh with an explicit room height.
// Inputs are assumed validated; the function is pure and total for any
// positive dimensions.
func BuildRoomMeshWithHeight(wallWidth, roomDepth, wwr, height float64) RoomMesh {
	// Box corners: indexes 0-3 are the floor loop, 4-7 the ceiling loop,
	// with each ceiling corner directly above floor corner i-4.
	boxVertices := []Vertex{
		{0, 0, 0},
		{0, roomDepth, 0},
		{wallWidth, roomDepth, 0},
		{wallWidth, 0, 0},
		{0, 0, height},
		{0, roomDepth, height},
		{wallWidth, roomDepth, height},
		{wallWidth, 0, height},
	}

	winWidth, winHeight := WindowDimensions(wallWidth, height, wwr)

	// Center the glazing on the front face.
	offX := (wallWidth - winWidth) / 2
	offZ := (height - winHeight) / 2

	windowVertices := []Vertex{
		{offX, 0, offZ},
		{offX, 0, offZ + winHeight},
		{offX + winWidth, 0, offZ + winHeight},
		{offX + winWidth, 0, offZ},
	}

	return RoomMesh{
		BoxVertices:    boxVertices,
		BoxFaces:       boxFaces,
		WindowVertices: windowVertices,
		WindowFaces:    windowFaces,
		WindowWidthM:   winWidth,
		WindowHeightM:  winHeight,
	}
}
