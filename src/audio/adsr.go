package audio

import (
	"math"
)

// ----- Stage ----- //

const (
	stageIdle = iota
	stageAttack
	stageDecay
	stageSustain
	stageRelease
)

// ----- ADSR ----- //

/*
  1 +    x
    |   / \
  s +  /   x------x
    | /            \
  0 +-+---+--------+--+
    |a |d |        |r |
*/
type adsr struct {
	attack     float64 // sec
	decay      float64 // sec
	sustain    float64 // 0-1
	releaseSec float64 // named apart from the release() transition

	sampleRate     float64
	stage          int
	pos            int // samples since entering the current stage
	attackSamples  int
	decaySamples   int
	releaseSamples int
	level          float64
}

func newADSR(sampleRate float64) *adsr {
	a := &adsr{sampleRate: sampleRate}
	p := defaultADSRParams()
	a.setParams(&p)
	return a
}

// setParams takes durations in seconds and fixes the stage lengths in whole
// samples, so stage boundaries do not drift with accumulated float error.
func (a *adsr) setParams(p *adsrParams) {
	a.attack = p.attack
	a.decay = p.decay
	a.sustain = p.sustain
	a.releaseSec = p.release
	a.attackSamples = int(math.Ceil(p.attack * a.sampleRate))
	a.decaySamples = int(math.Ceil(p.decay * a.sampleRate))
	a.releaseSamples = int(math.Ceil(p.release * a.sampleRate))
}

// trigger restarts the attack ramp from t=0 whatever the current stage.
// Re-triggering mid-note jumps the level; no smoothing exists to hide it.
func (a *adsr) trigger() {
	a.stage = stageAttack
	a.pos = 0
}

// release is a no-op while idle.
func (a *adsr) release() {
	if a.stage == stageIdle {
		return
	}
	a.stage = stageRelease
	a.pos = 0
}

// process advances the stage clock by one sample and returns the level.
// Call it exactly once per rendered sample to keep the time base correct.
func (a *adsr) process() float64 {
	switch a.stage {
	case stageIdle:
		a.level = 0
	case stageAttack:
		a.pos++
		t := float64(a.pos) / a.sampleRate
		a.level = t / a.attack
		if a.pos >= a.attackSamples {
			a.stage = stageDecay
			a.pos = 0
		}
	case stageDecay:
		a.pos++
		t := float64(a.pos) / a.sampleRate
		a.level = 1 - (1-a.sustain)*(t/a.decay)
		if a.pos >= a.decaySamples {
			a.stage = stageSustain
			a.pos = 0
		}
	case stageSustain:
		a.level = a.sustain
	case stageRelease:
		// the ramp starts from the sustain level even when the note was
		// released mid-attack or mid-decay
		a.pos++
		t := float64(a.pos) / a.sampleRate
		a.level = a.sustain * (1 - t/a.releaseSec)
		if a.pos >= a.releaseSamples {
			a.stage = stageIdle
			a.pos = 0
			a.level = 0
		}
	}
	return a.level
}
