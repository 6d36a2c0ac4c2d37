package hevcdec

// MVD carries the decoded horizontal and vertical motion-vector-difference
// components in quarter-pel units (spec.md §4.5).
type MVD struct {
	X, Y int
}

// DecodeMVD decodes mvd_coding() (spec.md §4.5). The two components
// interleave rather than decode sequentially: both abs_mvd_greater0_flags
// come first, then both abs_mvd_greater1_flags (each only if its greater0
// was set), and only then the EG1 remainder and sign bit for X followed by
// Y, grounded on original_source/libavcodec/hevc_cabac.c's
// ff_hevc_hls_mvd_coding.
func (s *SliceState) DecodeMVD() (MVD, error) {
	greater0X, err := s.decodeFlag(seAbsMvdGreater0Flag, 0)
	if err != nil {
		return MVD{}, err
	}
	greater0Y, err := s.decodeFlag(seAbsMvdGreater0Flag, 0)
	if err != nil {
		return MVD{}, err
	}

	greater1X := false
	if greater0X {
		greater1X, err = s.decodeFlag(seAbsMvdGreater1Flag, 0)
		if err != nil {
			return MVD{}, err
		}
	}
	greater1Y := false
	if greater0Y {
		greater1Y, err = s.decodeFlag(seAbsMvdGreater1Flag, 0)
		if err != nil {
			return MVD{}, err
		}
	}

	x, err := s.decodeMvdComponent(greater0X, greater1X)
	if err != nil {
		return MVD{}, err
	}
	y, err := s.decodeMvdComponent(greater0Y, greater1Y)
	if err != nil {
		return MVD{}, err
	}
	return MVD{X: x, Y: y}, nil
}

// decodeMvdComponent decodes the remainder and sign for one component given
// its already-decoded greater0/greater1 flags.
func (s *SliceState) decodeMvdComponent(greater0, greater1 bool) (int, error) {
	if !greater0 {
		return 0, nil
	}

	abs := 1
	if greater1 {
		remaining, err := s.decodeEGk(1)
		if err != nil {
			return 0, err
		}
		abs = 2 + remaining
	}

	neg, err := s.decodeBypassFlag()
	if err != nil {
		return 0, err
	}
	if neg {
		return -abs, nil
	}
	return abs, nil
}
