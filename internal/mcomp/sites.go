package mcomp

// Site is one diamond search candidate: an MV offset and the matching
// offset into a reference buffer of the configured stride.
type Site struct {
	MV     MV
	Offset int
}

// SearchSiteConfig is the immutable candidate table of the diamond search
// for one reference stride. Sites[0] is the origin; scale i occupies
// Sites[1+i*PerStep : 1+(i+1)*PerStep], coarsest first.
type SearchSiteConfig struct {
	Stride  int
	Sites   []Site
	PerStep int
}

// NewDiamondSites builds the 4-point (up, down, left, right) table.
func NewDiamondSites(stride int) *SearchSiteConfig {
	cfg := &SearchSiteConfig{Stride: stride, PerStep: 4}
	cfg.Sites = append(cfg.Sites, Site{})
	for l := MaxFirstStep; l > 0; l /= 2 {
		for _, mv := range [4]MV{{Row: -l}, {Row: l}, {Col: -l}, {Col: l}} {
			cfg.Sites = append(cfg.Sites, Site{MV: mv, Offset: mv.Row*stride + mv.Col})
		}
	}
	return cfg
}

// NewThreeStepSites builds the 8-point table that adds the diagonals.
func NewThreeStepSites(stride int) *SearchSiteConfig {
	cfg := &SearchSiteConfig{Stride: stride, PerStep: 8}
	cfg.Sites = append(cfg.Sites, Site{})
	for l := MaxFirstStep; l > 0; l /= 2 {
		for _, mv := range [8]MV{
			{Row: -l}, {Row: l}, {Col: -l}, {Col: l},
			{Row: -l, Col: -l}, {Row: -l, Col: l}, {Row: l, Col: -l}, {Row: l, Col: l},
		} {
			cfg.Sites = append(cfg.Sites, Site{MV: mv, Offset: mv.Row*stride + mv.Col})
		}
	}
	return cfg
}

// Count returns the number of sites including the origin.
func (c *SearchSiteConfig) Count() int { return len(c.Sites) }

// Steps returns the number of scales.
func (c *SearchSiteConfig) Steps() int { return len(c.Sites) / c.PerStep }
