package farrow

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tphakala/go-asrc/internal/filter"
)

// ErrNoTable reports a conversion no table is designed for.
var ErrNoTable = errors.New("farrow: no filter table for conversion")

// Design names a conversion class and the filter that serves it.
type Design struct {
	Name   string
	Params filter.FarrowParams
}

func design(name string, n, m int, beta, cutoff float64, in, out int) Design {
	scale := 1.0
	if out < in {
		scale = float64(out) / float64(in)
	}
	return Design{
		Name: name,
		Params: filter.FarrowParams{
			NumFilters:   n,
			FilterLength: m,
			Beta:         beta,
			Cutoff:       cutoff,
			Scale:        scale,
		},
	}
}

// Conversion classes. Every upsampling conversion shares one table; the
// cutoff is relative to the lower rate, which is then the input rate.
var (
	designUp      = design("upsample", 7, 64, 7.8, 0.459, 44100, 48000)
	design48to48  = design("48000-48000", 7, 48, 7.15, 0.458, 48000, 48000)
	designsFrom48 = map[int]Design{
		44100: design("48000-44100", 7, 64, 8.15, 0.456, 48000, 44100),
		32000: design("48000-32000", 6, 80, 8.0, 0.452, 48000, 32000),
		24000: design("48000-24000", 5, 80, 7.5, 0.440, 48000, 24000),
		22050: design("48000-22050", 5, 80, 6.9, 0.440, 48000, 22050),
		16000: design("48000-16000", 5, 96, 5.7, 0.443, 48000, 16000),
		12000: design("48000-12000", 4, 96, 5.7, 0.424, 48000, 12000),
		11025: design("48000-11025", 4, 96, 5.7, 0.417, 48000, 11025),
		8000:  design("48000-08000", 4, 128, 5.6, 0.4155, 48000, 8000),
	}
	designsFrom24 = map[int]Design{
		16000: design("24000-16000", 6, 80, 6.8, 0.460, 24000, 16000),
		8000:  design("24000-08000", 4, 128, 6.2, 0.454, 24000, 8000),
	}
)

// Select returns the design for converting fsIn to fsOut.
func Select(fsIn, fsOut int) (Design, error) {
	switch {
	case fsIn == 48000 && fsOut >= 48000:
		return design48to48, nil
	case fsIn <= fsOut:
		return designUp, nil
	case fsIn == 48000:
		if d, ok := designsFrom48[fsOut]; ok {
			return d, nil
		}
	case fsIn == 24000:
		if d, ok := designsFrom24[fsOut]; ok {
			return d, nil
		}
	}
	return Design{}, fmt.Errorf("%w: %d Hz to %d Hz", ErrNoTable, fsIn, fsOut)
}

// Designs returns every conversion class, upsampling first.
func Designs() []Design {
	out := []Design{designUp, design48to48}
	for _, rate := range []int{44100, 32000, 24000, 22050, 16000, 12000, 11025, 8000} {
		out = append(out, designsFrom48[rate])
	}
	return append(out, designsFrom24[16000], designsFrom24[8000])
}

var cache = struct {
	sync.Mutex
	tables map[string]*Table
}{tables: make(map[string]*Table)}

// Load designs and quantises the table for d on first use and returns the
// shared immutable table afterwards.
func Load(d Design) (*Table, error) {
	cache.Lock()
	defer cache.Unlock()

	if t, ok := cache.tables[d.Name]; ok {
		return t, nil
	}

	bank, err := filter.DesignFarrow(d.Params)
	if err != nil {
		return nil, fmt.Errorf("design %s: %w", d.Name, err)
	}
	t, err := Quantize(bank)
	if err != nil {
		return nil, fmt.Errorf("quantize %s: %w", d.Name, err)
	}
	cache.tables[d.Name] = t
	return t, nil
}

// LoadFor selects and loads the table for converting fsIn to fsOut.
func LoadFor(fsIn, fsOut int) (*Table, error) {
	d, err := Select(fsIn, fsOut)
	if err != nil {
		return nil, err
	}
	return Load(d)
}
