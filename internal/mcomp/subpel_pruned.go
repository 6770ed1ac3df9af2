package mcomp

// SubpelTreePruned is the level-based refinement that, given a valid cost
// list, skips the half-pel checks on the side the integer costs rule out.
func SubpelTreePruned(b *Block, best, ref MV, p *SubpelParams) SubpelResult {
	s := newSubpelSearch(b, best, ref, p)
	tr, tc := s.br, s.bc
	if c := p.Costs; c.Valid() {
		h := s.hstep
		s.whichdir = 0
		if c[1] >= c[3] {
			s.whichdir++
		}
		if c[2] >= c[4] {
			s.whichdir += 2
		}
		switch s.whichdir {
		case 0:
			s.check(tr, tc-h)
			s.check(tr+h, tc)
			s.check(tr+h, tc-h)
		case 1:
			s.check(tr, tc+h)
			s.check(tr+h, tc)
			s.check(tr+h, tc+h)
		case 2:
			s.check(tr, tc-h)
			s.check(tr-h, tc)
			s.check(tr-h, tc-h)
		case 3:
			s.check(tr, tc+h)
			s.check(tr-h, tc)
			s.check(tr-h, tc+h)
		}
	} else {
		s.firstLevel(tr, tc)
		if s.iters > 1 {
			s.secondLevel(tr, tc)
		}
	}
	s.finerLevels(p, ref)
	return s.result()
}

// SubpelTreePrunedMore replaces the half-pel level with a single check at
// the minimum of the paraboloid through a well behaved cost list.
func SubpelTreePrunedMore(b *Block, best, ref MV, p *SubpelParams) SubpelResult {
	s := newSubpelSearch(b, best, ref, p)
	if c := p.Costs; c.Valid() && c.WellBehaved() {
		ir, ic := c.SurfaceMin(1)
		if ir != 0 || ic != 0 {
			s.check(s.br+ir*s.hstep, s.bc+ic*s.hstep)
		}
	} else {
		s.level()
	}
	s.finerLevels(p, ref)
	return s.result()
}

// SubpelTreePrunedEvenMore jumps straight to the quarter-pel minimum of a
// well behaved cost list, leaving only the 1/8-pel level to search.
func SubpelTreePrunedEvenMore(b *Block, best, ref MV, p *SubpelParams) SubpelResult {
	s := newSubpelSearch(b, best, ref, p)
	if c := p.Costs; c.Valid() && c.WellBehaved() {
		if p.ForcedStop == 2 {
			ir, ic := c.SurfaceMin(1)
			if ir != 0 || ic != 0 {
				s.check(s.br+ir*s.hstep, s.bc+ic*s.hstep)
			}
			return s.result()
		}
		ir, ic := c.SurfaceMin(2)
		if ir != 0 || ic != 0 {
			s.check(s.br+2*ir, s.bc+2*ic)
		}
		s.hstep = 2
	} else {
		s.level()
		if p.ForcedStop != 2 {
			s.hstep >>= 1
			s.level()
		}
	}
	if p.useHP(ref) && p.ForcedStop == 0 {
		s.hstep >>= 1
		s.level()
	}
	return s.result()
}

// finerLevels runs the quarter and eighth pel levels allowed by p after
// the half-pel level.
func (s *subpelSearch) finerLevels(p *SubpelParams, ref MV) {
	if p.ForcedStop != 2 {
		s.hstep >>= 1
		s.level()
	}
	if p.useHP(ref) && p.ForcedStop == 0 {
		s.hstep >>= 1
		s.level()
	}
}
