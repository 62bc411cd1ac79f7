// Package thermal classifies die temperatures into the discrete
// severity bands the cooling hat policy is keyed on.
package thermal

// Band is one of seven ordered temperature severity classes. The
// ordering follows rising temperature, so bands compare meaningfully
// with < and >.
type Band int

const (
	Below40 Band = iota
	Range40to45
	Range45to47
	Range47to49
	Range49to51
	Range51to53
	Above53
)

// BandCount is the number of defined bands.
const BandCount = 7

// Classify maps a temperature in degrees Celsius to its band. Boundary
// values belong to the upper band: Classify(45.0) is Range45to47.
func Classify(celsius float64) Band {
	switch {
	case celsius < 40:
		return Below40
	case celsius < 45:
		return Range40to45
	case celsius < 47:
		return Range45to47
	case celsius < 49:
		return Range47to49
	case celsius < 51:
		return Range49to51
	case celsius < 53:
		return Range51to53
	default:
		return Above53
	}
}

// Bands returns all bands in ascending temperature order.
func Bands() []Band {
	return []Band{
		Below40,
		Range40to45,
		Range45to47,
		Range47to49,
		Range49to51,
		Range51to53,
		Above53,
	}
}

func (b Band) String() string {
	switch b {
	case Below40:
		return "below40"
	case Range40to45:
		return "40-45"
	case Range45to47:
		return "45-47"
	case Range47to49:
		return "47-49"
	case Range49to51:
		return "49-51"
	case Range51to53:
		return "51-53"
	case Above53:
		return "above53"
	default:
		return "unknown"
	}
}
