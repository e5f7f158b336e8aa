package registry

var curves = map[CurveID]CurveSpec{
	CurveX25519:  {ID: CurveX25519, ScalarSizeBits: 256, PointSizeBits: 256},
	CurveEd25519: {ID: CurveEd25519, ScalarSizeBits: 256, PointSizeBits: 256},
	CurveP256:    {ID: CurveP256, ScalarSizeBits: 256, PointSizeBits: 520},
	CurveP384:    {ID: CurveP384, ScalarSizeBits: 384, PointSizeBits: 776},
	CurveP521:    {ID: CurveP521, ScalarSizeBits: 521, PointSizeBits: 1050},
	// Brainpool curves appear nowhere in the retrieval pack's dependency
	// surface (no x/crypto, circl, or other example repo implements them);
	// catalogued per spec.md §1 but rejected at construction time. See
	// DESIGN.md.
	CurveBrainpoolP256: {
		ID: CurveBrainpoolP256, Unavailable: true,
		UnavailableReason: "no Brainpool implementation available in the dependency pack",
	},
}

func Curve(id CurveID) (CurveSpec, bool) {
	c, ok := curves[id]
	return c, ok
}
