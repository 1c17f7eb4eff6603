package audio

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
)

// ----- FM Params ----- //

// FMParams is one immutable snapshot of the oscillator parameters. It is
// replaced wholesale; the render path never observes a partial update.
type FMParams struct {
	CarrierFreq   float64 // Hz, > 0
	ModulatorFreq float64 // Hz, >= 0
	ModIndex      float64 // modulation depth, >= 0
	Amplitude     float64 // 0-1
}

func defaultFMParams() FMParams {
	return FMParams{
		CarrierFreq:   440.0,
		ModulatorFreq: 220.0,
		ModIndex:      2.0,
		Amplitude:     0.3,
	}
}

type fmParamsJSON struct {
	CarrierFreq   float64 `json:"carrierFreq"`
	ModulatorFreq float64 `json:"modulatorFreq"`
	ModIndex      float64 `json:"modIndex"`
	Amplitude     float64 `json:"amplitude"`
}

func (p *FMParams) applyJSON(data json.RawMessage) {
	var j fmParamsJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to FMParams")
		return
	}
	p.CarrierFreq = j.CarrierFreq
	p.ModulatorFreq = j.ModulatorFreq
	p.ModIndex = j.ModIndex
	p.Amplitude = j.Amplitude
}
func (p *FMParams) toJSON() json.RawMessage {
	return toRawMessage(&fmParamsJSON{
		CarrierFreq:   p.CarrierFreq,
		ModulatorFreq: p.ModulatorFreq,
		ModIndex:      p.ModIndex,
		Amplitude:     p.Amplitude,
	})
}
func (p *FMParams) set(key string, value string) error {
	switch key {
	case "carrier_freq":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.CarrierFreq = value
	case "modulator_freq":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.ModulatorFreq = value
	case "modulation_index":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.ModIndex = value
	case "amplitude":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.Amplitude = value
	default:
		return fmt.Errorf("unknown fm param %v", key)
	}
	return nil
}

// validate belongs to the configuration boundary; the render path assumes
// these invariants and never re-checks them.
func (p *FMParams) validate() error {
	if p.CarrierFreq <= 0 {
		return fmt.Errorf("carrier_freq must be > 0, got %v", p.CarrierFreq)
	}
	if p.ModulatorFreq < 0 {
		return fmt.Errorf("modulator_freq must be >= 0, got %v", p.ModulatorFreq)
	}
	if p.ModIndex < 0 {
		return fmt.Errorf("modulation_index must be >= 0, got %v", p.ModIndex)
	}
	if p.Amplitude < 0 || p.Amplitude > 1 {
		return fmt.Errorf("amplitude must be in [0,1], got %v", p.Amplitude)
	}
	return nil
}

// ----- ADSR Params ----- //

type adsrParams struct {
	attack  float64 // sec
	decay   float64 // sec
	sustain float64 // 0-1
	release float64 // sec
}

func defaultADSRParams() adsrParams {
	return adsrParams{
		attack:  0.01,
		decay:   0.1,
		sustain: 0.7,
		release: 0.5,
	}
}

type adsrJSON struct {
	Attack  float64 `json:"attack"`
	Decay   float64 `json:"decay"`
	Sustain float64 `json:"sustain"`
	Release float64 `json:"release"`
}

func (a *adsrParams) applyJSON(data json.RawMessage) {
	var j adsrJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to adsrParams")
		return
	}
	a.attack = j.Attack
	a.decay = j.Decay
	a.sustain = j.Sustain
	a.release = j.Release
}
func (a *adsrParams) toJSON() json.RawMessage {
	return toRawMessage(&adsrJSON{
		Attack:  a.attack,
		Decay:   a.decay,
		Sustain: a.sustain,
		Release: a.release,
	})
}
func (a *adsrParams) set(key string, value string) error {
	switch key {
	case "attack":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		a.attack = value
	case "decay":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		a.decay = value
	case "sustain":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		a.sustain = value
	case "release":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		a.release = value
	default:
		return fmt.Errorf("unknown adsr param %v", key)
	}
	return nil
}
func (a *adsrParams) validate() error {
	if a.attack <= 0 {
		return fmt.Errorf("attack must be > 0, got %v", a.attack)
	}
	if a.decay <= 0 {
		return fmt.Errorf("decay must be > 0, got %v", a.decay)
	}
	if a.sustain < 0 || a.sustain > 1 {
		return fmt.Errorf("sustain must be in [0,1], got %v", a.sustain)
	}
	if a.release <= 0 {
		return fmt.Errorf("release must be > 0, got %v", a.release)
	}
	return nil
}
