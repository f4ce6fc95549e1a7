// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package geom

// Barycentric returns the weights (u, v, w) such that
// p == u*a + v*b + w*c for p coplanar with triangle (a,b,c). Used by the
// ray service to interpolate vertex normals and by phong smoothing to
// locate a luxel sample within its owning triangle fan.
func Barycentric(p, a, b, c *Vec3) (u, v, w float64) {
	v0, v1, v2 := &Vec3{}, &Vec3{}, &Vec3{}
	v0.Sub(b, a)
	v1.Sub(c, a)
	v2.Sub(p, a)
	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)
	denom := d00*d11 - d01*d01
	if AeqZ(denom) {
		return 1, 0, 0
	}
	v = (d11*d20 - d01*d21) / denom
	w = (d00*d21 - d01*d20) / denom
	u = 1 - v - w
	return u, v, w
}

// RayTriangle intersects a ray (origin + t*dir) with triangle (a,b,c) using
// the Möller-Trumbore algorithm. hit is false for a parallel ray, a miss
// outside the triangle, or an intersection behind the origin / past tMax.
func RayTriangle(origin, dir, a, b, c *Vec3, tMax float64) (t float64, hit bool) {
	edge1, edge2, h, s, q := &Vec3{}, &Vec3{}, &Vec3{}, &Vec3{}, &Vec3{}
	edge1.Sub(b, a)
	edge2.Sub(c, a)
	h.Cross(dir, edge2)
	det := edge1.Dot(h)
	if AeqZ(det) {
		return 0, false
	}
	inv := 1 / det
	s.Sub(origin, a)
	u := inv * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q.Cross(s, edge1)
	v := inv * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = inv * edge2.Dot(q)
	if t <= Epsilon || t > tMax {
		return 0, false
	}
	return t, true
}
