package acquisition

// Electrode is a scalp sensor position on a unit sphere.
type Electrode struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

// UltracortexMarkIV is the 10-20/10-10 layout of the Ultracortex Mark IV headset.
var UltracortexMarkIV = []Electrode{
	// frontal pole
	{ID: "Fp1", X: -0.308, Y: 0.951},
	{ID: "Fpz", Y: 1.0},
	{ID: "Fp2", X: 0.308, Y: 0.951},

	{ID: "AF3", X: -0.588, Y: 0.809},
	{ID: "AF4", X: 0.588, Y: 0.809},

	{ID: "F7", X: -0.951, Y: 0.309},
	{ID: "F5", X: -0.809, Y: 0.588},
	{ID: "F3", X: -0.588, Y: 0.809},
	{ID: "F1", X: -0.309, Y: 0.951},
	{ID: "Fz", Y: 1.0},
	{ID: "F2", X: 0.309, Y: 0.951},
	{ID: "F4", X: 0.588, Y: 0.809},
	{ID: "F6", X: 0.809, Y: 0.588},
	{ID: "F8", X: 0.951, Y: 0.309},

	// temporal and central
	{ID: "T9", X: -1.0},
	{ID: "T7", X: -0.951, Z: 0.309},
	{ID: "C5", X: -0.809, Z: 0.588},
	{ID: "C3", X: -0.588, Z: 0.809},
	{ID: "C1", X: -0.309, Z: 0.951},
	{ID: "Cz", Z: 1.0},
	{ID: "C2", X: 0.309, Z: 0.951},
	{ID: "C4", X: 0.588, Z: 0.809},
	{ID: "C6", X: 0.809, Z: 0.588},
	{ID: "T8", X: 0.951, Z: 0.309},
	{ID: "T10", X: 1.0},

	{ID: "P7", X: -0.951, Y: -0.309},
	{ID: "P5", X: -0.809, Y: -0.588},
	{ID: "P3", X: -0.588, Y: -0.809},
	{ID: "P1", X: -0.309, Y: -0.951},
	{ID: "Pz", Y: -1.0},
	{ID: "P2", X: 0.309, Y: -0.951},
	{ID: "P4", X: 0.588, Y: -0.809},
	{ID: "P6", X: 0.809, Y: -0.588},
	{ID: "P8", X: 0.951, Y: -0.309},

	{ID: "O1", X: -0.588, Y: -0.809},
	{ID: "Oz", Y: -1.0},
	{ID: "O2", X: 0.588, Y: -0.809},
}
