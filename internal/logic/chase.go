package logic

// Chase describes the LED strip animation: position i is lit when
// i mod Spacing equals the cursor.
type Chase struct {
	Length  int
	Spacing int
	On      Color
}

// Frame returns the frame for cursor k.
func (c Chase) Frame(k int) []Color {
	frame := make([]Color, c.Length)
	c.FrameInto(frame, k)
	return frame
}

// FrameInto fills dst (of any length) with the frame for cursor k.
func (c Chase) FrameInto(dst []Color, k int) {
	for i := range dst {
		if c.Spacing > 0 && i%c.Spacing == k {
			dst[i] = c.On
		} else {
			dst[i] = Off
		}
	}
}

// Sweep yields the chase cursor as a triangle wave: 0..S-1 forward, then
// S-1..0 backward, so one cycle is 2S steps and both ends repeat at the
// turn-around.
type Sweep struct {
	spacing int
	pos     int // 0..2*spacing-1
}

// NewSweep creates a sweep over 0..spacing-1. A spacing below 1 is treated as 1.
func NewSweep(spacing int) *Sweep {
	if spacing < 1 {
		spacing = 1
	}
	return &Sweep{spacing: spacing}
}

// Next returns the current cursor and advances.
func (s *Sweep) Next() int {
	k := s.pos
	if s.pos >= s.spacing {
		k = 2*s.spacing - 1 - s.pos
	}
	s.pos = (s.pos + 1) % (2 * s.spacing)
	return k
}

// Forward reports whether the next cursor is on the forward leg.
func (s *Sweep) Forward() bool { return s.pos < s.spacing }

// CycleLen is the number of steps before the sweep repeats.
func (s *Sweep) CycleLen() int { return 2 * s.spacing }
