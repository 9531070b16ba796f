// Package spatial resolves wireless coverage: power-based range estimation
// and nearest-access-node association for mobile stations.
package spatial

import "math"

// PropagationModel selects the path-loss formula used to turn a
// transmission power into an estimated coverage radius. The models and
// their default parameters mirror what the emulation runtime itself uses,
// so canvas coverage circles and simulated reception agree.
type PropagationModel string

const (
	ModelLogDistance   PropagationModel = "logDistance"
	ModelFriis         PropagationModel = "friis"
	ModelTwoRayGround  PropagationModel = "twoRayGround"
)

// Default radio parameters.
const (
	DefaultNoiseThreshold   = -91.0 // dBm
	DefaultFrequencyGHz     = 2.4
	DefaultAntennaGain      = 5.0 // dBi
	DefaultSystemLoss       = 1.0
	DefaultPathLossExponent = 3.0

	speedOfLight = 299792458.0
)

// RadioParams parameterizes a range estimate. Zero values select defaults.
type RadioParams struct {
	FrequencyGHz     float64
	AntennaGain      float64
	NoiseThreshold   float64
	SystemLoss       float64
	PathLossExponent float64
	Model            PropagationModel
}

func (p RadioParams) withDefaults() RadioParams {
	if p.FrequencyGHz == 0 {
		p.FrequencyGHz = DefaultFrequencyGHz
	}
	if p.AntennaGain == 0 {
		p.AntennaGain = DefaultAntennaGain
	}
	if p.NoiseThreshold == 0 {
		p.NoiseThreshold = DefaultNoiseThreshold
	}
	if p.SystemLoss == 0 {
		p.SystemLoss = DefaultSystemLoss
	}
	if p.PathLossExponent == 0 {
		p.PathLossExponent = DefaultPathLossExponent
	}
	if p.Model == "" {
		p.Model = ModelLogDistance
	}
	return p
}

// RangeFromPower estimates the coverage radius in meters for a transmitter
// at txPower dBm. The result is clamped to a 0.1m floor so degenerate
// parameters never produce a zero or negative radius.
func RangeFromPower(txPower float64, params RadioParams) float64 {
	p := params.withDefaults()
	switch p.Model {
	case ModelFriis:
		return friisRange(txPower, p)
	case ModelTwoRayGround:
		// Simplified: log-distance with a steeper exponent.
		p.PathLossExponent = 3.5
		return logDistanceRange(txPower, p)
	default:
		return logDistanceRange(txPower, p)
	}
}

func friisRange(txPower float64, p RadioParams) float64 {
	fHz := p.FrequencyGHz * 1e9
	totalGain := txPower + p.AntennaGain*2
	wavelength := speedOfLight / fHz

	numerator := wavelength * wavelength
	denominator := math.Pow(4*math.Pi, 2) * p.SystemLoss

	r := math.Sqrt(math.Pow(10, (totalGain-p.NoiseThreshold)/10) * numerator / denominator)
	return math.Max(0.1, r)
}

func logDistanceRange(txPower float64, p RadioParams) float64 {
	fHz := p.FrequencyGHz * 1e9
	totalGain := txPower + p.AntennaGain*2
	wavelength := speedOfLight / fHz

	// Path loss at the 1m reference distance, via Friis.
	const refD = 1.0
	plRef := 10 * math.Log10(math.Pow(4*math.Pi*refD, 2)*p.SystemLoss/(wavelength*wavelength))

	r := math.Pow(10, (totalGain-p.NoiseThreshold-plRef)/(10*p.PathLossExponent)) * refD
	return math.Max(0.1, r)
}

// FrequencyForChannel maps a WiFi channel number to its band in GHz.
// Channels 36 and above sit in the 5GHz band.
func FrequencyForChannel(channel int) float64 {
	if channel >= 36 {
		return 5.0
	}
	return 2.4
}
