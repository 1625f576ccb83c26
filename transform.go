package leaffall

import "math"

// Mat4 is a 4x4 transform stored column-major, the layout GPU instance
// buffers expect:
//
//	| m[0]  m[4]  m[8]   m[12] |
//	| m[1]  m[5]  m[9]   m[13] |
//	| m[2]  m[6]  m[10]  m[14] |
//	| m[3]  m[7]  m[11]  m[15] |
type Mat4 [16]float64

// Identity is the identity transform.
var Identity = Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// Translation returns a pure translation matrix.
func Translation(v Vec3) Mat4 {
	m := Identity
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// ComposeTRS builds Translate(pos) * Rotate(rot) * Scale(scale). rot holds
// Euler angles in radians applied in XYZ order.
func ComposeTRS(pos, rot, scale Vec3) Mat4 {
	sa, ca := math.Sincos(rot.X)
	sb, cb := math.Sincos(rot.Y)
	sc, cc := math.Sincos(rot.Z)

	ae, af := ca*cc, ca*sc
	be, bf := sa*cc, sa*sc

	return Mat4{
		cb * cc * scale.X, (af + be*sb) * scale.X, (bf - ae*sb) * scale.X, 0,
		-cb * sc * scale.Y, (ae - bf*sb) * scale.Y, (be + af*sb) * scale.Y, 0,
		sb * scale.Z, -sa * cb * scale.Z, ca * cb * scale.Z, 0,
		pos.X, pos.Y, pos.Z, 1,
	}
}

// composeZ is ComposeTRS for the common case of a Z-only rotation and a
// uniform scale, used on every instance every frame.
func composeZ(pos Vec3, rotZ, scale float64) Mat4 {
	s, c := math.Sincos(rotZ)
	return Mat4{
		c * scale, s * scale, 0, 0,
		-s * scale, c * scale, 0, 0,
		0, 0, scale, 0,
		pos.X, pos.Y, pos.Z, 1,
	}
}

// Mul returns a * b (b is applied first).
func (a Mat4) Mul(b Mat4) Mat4 {
	var r Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			r[col*4+row] = a[row]*b[col*4] +
				a[4+row]*b[col*4+1] +
				a[8+row]*b[col*4+2] +
				a[12+row]*b[col*4+3]
		}
	}
	return r
}

// Position returns the translation column.
func (a Mat4) Position() Vec3 {
	return Vec3{a[12], a[13], a[14]}
}

// TransformPoint applies the matrix to p with perspective division.
func (a Mat4) TransformPoint(p Vec3) Vec3 {
	x := a[0]*p.X + a[4]*p.Y + a[8]*p.Z + a[12]
	y := a[1]*p.X + a[5]*p.Y + a[9]*p.Z + a[13]
	z := a[2]*p.X + a[6]*p.Y + a[10]*p.Z + a[14]
	w := a[3]*p.X + a[7]*p.Y + a[11]*p.Z + a[15]
	if w != 0 && w != 1 {
		inv := 1 / w
		return Vec3{x * inv, y * inv, z * inv}
	}
	return Vec3{x, y, z}
}

// Invert computes the inverse of a. Returns Identity if the matrix is
// singular (determinant ≈ 0).
func (a Mat4) Invert() Mat4 {
	var inv Mat4
	inv[0] = a[5]*a[10]*a[15] - a[5]*a[11]*a[14] - a[9]*a[6]*a[15] + a[9]*a[7]*a[14] + a[13]*a[6]*a[11] - a[13]*a[7]*a[10]
	inv[4] = -a[4]*a[10]*a[15] + a[4]*a[11]*a[14] + a[8]*a[6]*a[15] - a[8]*a[7]*a[14] - a[12]*a[6]*a[11] + a[12]*a[7]*a[10]
	inv[8] = a[4]*a[9]*a[15] - a[4]*a[11]*a[13] - a[8]*a[5]*a[15] + a[8]*a[7]*a[13] + a[12]*a[5]*a[11] - a[12]*a[7]*a[9]
	inv[12] = -a[4]*a[9]*a[14] + a[4]*a[10]*a[13] + a[8]*a[5]*a[14] - a[8]*a[6]*a[13] - a[12]*a[5]*a[10] + a[12]*a[6]*a[9]
	inv[1] = -a[1]*a[10]*a[15] + a[1]*a[11]*a[14] + a[9]*a[2]*a[15] - a[9]*a[3]*a[14] - a[13]*a[2]*a[11] + a[13]*a[3]*a[10]
	inv[5] = a[0]*a[10]*a[15] - a[0]*a[11]*a[14] - a[8]*a[2]*a[15] + a[8]*a[3]*a[14] + a[12]*a[2]*a[11] - a[12]*a[3]*a[10]
	inv[9] = -a[0]*a[9]*a[15] + a[0]*a[11]*a[13] + a[8]*a[1]*a[15] - a[8]*a[3]*a[13] - a[12]*a[1]*a[11] + a[12]*a[3]*a[9]
	inv[13] = a[0]*a[9]*a[14] - a[0]*a[10]*a[13] - a[8]*a[1]*a[14] + a[8]*a[2]*a[13] + a[12]*a[1]*a[10] - a[12]*a[2]*a[9]
	inv[2] = a[1]*a[6]*a[15] - a[1]*a[7]*a[14] - a[5]*a[2]*a[15] + a[5]*a[3]*a[14] + a[13]*a[2]*a[7] - a[13]*a[3]*a[6]
	inv[6] = -a[0]*a[6]*a[15] + a[0]*a[7]*a[14] + a[4]*a[2]*a[15] - a[4]*a[3]*a[14] - a[12]*a[2]*a[7] + a[12]*a[3]*a[6]
	inv[10] = a[0]*a[5]*a[15] - a[0]*a[7]*a[13] - a[4]*a[1]*a[15] + a[4]*a[3]*a[13] + a[12]*a[1]*a[7] - a[12]*a[3]*a[5]
	inv[14] = -a[0]*a[5]*a[14] + a[0]*a[6]*a[13] + a[4]*a[1]*a[14] - a[4]*a[2]*a[13] - a[12]*a[1]*a[6] + a[12]*a[2]*a[5]
	inv[3] = -a[1]*a[6]*a[11] + a[1]*a[7]*a[10] + a[5]*a[2]*a[11] - a[5]*a[3]*a[10] - a[9]*a[2]*a[7] + a[9]*a[3]*a[6]
	inv[7] = a[0]*a[6]*a[11] - a[0]*a[7]*a[10] - a[4]*a[2]*a[11] + a[4]*a[3]*a[10] + a[8]*a[2]*a[7] - a[8]*a[3]*a[6]
	inv[11] = -a[0]*a[5]*a[11] + a[0]*a[7]*a[9] + a[4]*a[1]*a[11] - a[4]*a[3]*a[9] - a[8]*a[1]*a[7] + a[8]*a[3]*a[5]
	inv[15] = a[0]*a[5]*a[10] - a[0]*a[6]*a[9] - a[4]*a[1]*a[10] + a[4]*a[2]*a[9] + a[8]*a[1]*a[6] - a[8]*a[2]*a[5]

	det := a[0]*inv[0] + a[1]*inv[4] + a[2]*inv[8] + a[3]*inv[12]
	if det > -1e-12 && det < 1e-12 {
		return Identity
	}
	invDet := 1 / det
	for i := range inv {
		inv[i] *= invDet
	}
	return inv
}

// perspective builds an OpenGL-style projection: camera looks down -Z and
// NDC depth spans [-1, 1].
func perspective(fovYDeg, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovYDeg*math.Pi/360)
	nf := 1 / (near - far)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// lookAt builds a view matrix placing eye at the origin looking at target.
func lookAt(eye, target, up Vec3) Mat4 {
	z := eye.Sub(target).Normalize()
	if z.Len() == 0 {
		z = Vec3{0, 0, 1}
	}
	x := up.Cross(z).Normalize()
	if x.Len() == 0 {
		x = Vec3{1, 0, 0}
	}
	y := z.Cross(x)
	return Mat4{
		x.X, y.X, z.X, 0,
		x.Y, y.Y, z.Y, 0,
		x.Z, y.Z, z.Z, 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
}
