package asrc

import "fmt"

// Released is a converter whose filter and delay lines have been freed.
// It is the only handle through which the sample rates of a stream can be
// changed: SetFsRatio builds the replacement converter.
type Released struct {
	cfg  Config
	done bool
}

// Release frees the converter's filter table and delay lines. Every later
// call on c fails with ErrInitFailed; the returned handle reconfigures the
// stream with new rates.
func (c *Converter) Release() *Released {
	if c.live() != nil {
		return nil
	}
	c.released = true
	c.table = nil
	c.ir = nil
	c.lines16 = nil
	c.lines32 = nil
	return &Released{cfg: c.cfg}
}

// Config returns the configuration of the released converter.
func (r *Released) Config() Config { return r.cfg }

// SetFsRatio creates a converter with the released configuration and the
// new rates. Time values start at zero and the delay lines are empty. On
// error r stays usable for another attempt; after success it is spent.
func (r *Released) SetFsRatio(fsPrim, fsSec int) (*Converter, error) {
	if r == nil {
		return nil, ErrInvalidPointer
	}
	if r.done {
		return nil, fmt.Errorf("%w: released handle already reconfigured", ErrInitFailed)
	}

	cfg := r.cfg
	cfg.FsPrim, cfg.FsSec = fsPrim, fsSec
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	r.done = true
	return c, nil
}
