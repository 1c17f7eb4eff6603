package audio

// ----- Voice ----- //

// Voice is one note-producing channel: a single FM oscillator shaped by a
// single ADSR envelope. A Voice is owned by its render context; note and
// parameter changes from other contexts must go through the engine's event
// queue, never call into a Voice concurrently.
type Voice struct {
	osc  *osc
	adsr *adsr
}

// NewVoice creates a voice at a fixed sample rate. The rate never changes
// for the lifetime of the voice.
func NewVoice(sampleRate float64, params FMParams) *Voice {
	return &Voice{
		osc:  newOsc(sampleRate, params),
		adsr: newADSR(sampleRate),
	}
}

// NextSample advances the oscillator and the envelope by exactly one sample
// each and returns their product.
func (v *Voice) NextSample() float64 {
	return v.osc.nextSample() * v.adsr.process()
}

func (v *Voice) NoteOn() {
	v.adsr.trigger()
}

func (v *Voice) NoteOff() {
	v.adsr.release()
}

// SetParams replaces the oscillator parameters. The envelope shape is not
// part of FMParams and is configured separately.
func (v *Voice) SetParams(params FMParams) {
	v.osc.setParams(params)
}

func (v *Voice) setADSR(p *adsrParams) {
	v.adsr.setParams(p)
}
