package data

// PointCloud is an ordered collection of match locations.
//
// Multi-match template search reports every pixel offset above the
// threshold, so one icon on screen shows up as a small blob of nearby
// points. Cluster collapses each blob to one representative.
type PointCloud struct {
	Points []Point
}

// NewPointCloud creates a point cloud holding pts.
func NewPointCloud(pts ...Point) *PointCloud {
	return &PointCloud{Points: append([]Point(nil), pts...)}
}

// Cluster groups points around seeds taken in input order.
//
// A point joins the current seed's group when it is strictly closer than
// radius on both axes. Each group becomes its integer centroid; groups of a
// single point are treated as noise and dropped. Points already absorbed
// into a group never seed or join another one.
func (pc *PointCloud) Cluster(radius int) []Point {
	used := make([]bool, len(pc.Points))
	var result []Point

	for i, seed := range pc.Points {
		if used[i] {
			continue
		}
		used[i] = true
		sumX, sumY, n := seed.X, seed.Y, 1

		for j := i + 1; j < len(pc.Points); j++ {
			if used[j] {
				continue
			}
			p := pc.Points[j]
			if absInt(p.X-seed.X) < radius && absInt(p.Y-seed.Y) < radius {
				used[j] = true
				sumX += p.X
				sumY += p.Y
				n++
			}
		}

		if n > 1 {
			result = append(result, Point{X: sumX / n, Y: sumY / n})
		}
	}

	return result
}
