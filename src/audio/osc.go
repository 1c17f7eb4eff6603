package audio

import (
	"math"
)

// ----- FM OSC ----- //

// osc is an FM pair: a sine carrier whose instantaneous frequency is
// deflected by a sine modulator. Phases are fractions of a cycle in [0,1);
// radians appear only at the point of evaluating the waveform.
type osc struct {
	sampleRate     float64
	carrierPhase   float64
	modulatorPhase float64
	params         FMParams
}

func newOsc(sampleRate float64, params FMParams) *osc {
	return &osc{
		sampleRate: sampleRate,
		params:     params,
	}
}

func (o *osc) setParams(params FMParams) {
	o.params = params
}

// nextSample returns the carrier sampled at its pre-update phase, then
// advances both phases. The modulator deflects the carrier's phase increment
// (frequency modulation), never the phase itself.
func (o *osc) nextSample() float64 {
	modulator := math.Sin(2 * math.Pi * o.modulatorPhase)
	modulatedFreq := o.params.CarrierFreq * (1 + o.params.ModIndex*modulator)
	carrier := math.Sin(2 * math.Pi * o.carrierPhase)
	o.carrierPhase = wrapPhase(o.carrierPhase + modulatedFreq/o.sampleRate)
	o.modulatorPhase = wrapPhase(o.modulatorPhase + o.params.ModulatorFreq/o.sampleRate)
	return carrier * o.params.Amplitude
}

// wrapPhase keeps a phase in [0,1) with a single subtraction; per-sample
// increments never reach a full cycle at audio rates. The mirrored branch
// covers the negative dips of the carrier increment when modIndex > 1.
func wrapPhase(phase float64) float64 {
	if phase >= 1.0 {
		phase -= 1.0
	}
	if phase < 0.0 {
		phase += 1.0
	}
	return phase
}
