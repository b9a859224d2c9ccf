package style

// DefaultCatalog returns the system default tier: the bottom of the cascade
// and the only tier that defines every catalog entry. Each call returns a
// fresh copy.
func DefaultCatalog() Catalog {
	return Catalog{
		GlobalDefault: FontStyle{
			Family:      Ptr("SimSun"),
			Size:        Ptr(12.0),
			LineSpacing: Ptr(1.5),
			Color:       Ptr("000000"),
			Align:       Ptr(AlignJustify),
		},
		Heading1: FontStyle{
			Family:      Ptr("SimHei"),
			Size:        Ptr(16.0),
			Bold:        Ptr(true),
			Align:       Ptr(AlignCenter),
			LineSpacing: Ptr(1.5),
		},
		Heading2: FontStyle{
			Family:      Ptr("SimHei"),
			Size:        Ptr(14.0),
			Bold:        Ptr(true),
			Align:       Ptr(AlignLeft),
			LineSpacing: Ptr(1.5),
		},
		Heading3: FontStyle{
			Family:      Ptr("SimHei"),
			Size:        Ptr(12.0),
			Bold:        Ptr(true),
			Align:       Ptr(AlignLeft),
			LineSpacing: Ptr(1.5),
		},
		BodyText: FontStyle{
			Family:      Ptr("SimSun"),
			Size:        Ptr(12.0),
			LineSpacing: Ptr(1.5),
			Align:       Ptr(AlignJustify),
		},
		Caption: FontStyle{
			Family:      Ptr("SimSun"),
			Size:        Ptr(10.5),
			Align:       Ptr(AlignCenter),
			LineSpacing: Ptr(1.0),
		},
	}
}
