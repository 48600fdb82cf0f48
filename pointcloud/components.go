package pointcloud

// Point is a sample position in the noise domain.
type Point struct {
	X, Y, Z float64
}

// Density is the noise attribute evaluated at a point.
type Density struct {
	Value     float64
	Evaluated bool
}

// Cell is the integer noise cell a point falls in.
type Cell struct {
	X, Y, Z int32
}

// Box is an axis-aligned scatter volume.
type Box struct {
	Min, Max Point
}

// Size returns the box extent on each axis.
func (b Box) Size() Point {
	return Point{b.Max.X - b.Min.X, b.Max.Y - b.Min.Y, b.Max.Z - b.Min.Z}
}

// PointRecord is a flat row for CSV export.
type PointRecord struct {
	ID      int     `csv:"id"`
	X       float64 `csv:"x"`
	Y       float64 `csv:"y"`
	Z       float64 `csv:"z"`
	CellX   int32   `csv:"cell_x"`
	CellY   int32   `csv:"cell_y"`
	CellZ   int32   `csv:"cell_z"`
	Density float64 `csv:"density"`
}
