package audio

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestPhaseStaysWrapped(t *testing.T) {
	o := newOsc(sampleRate, defaultFMParams())
	for i := 0; i < 1000000; i++ {
		o.nextSample()
		if o.carrierPhase < 0 || o.carrierPhase >= 1 {
			t.Fatalf("carrier phase out of range at sample %d: %v", i, o.carrierPhase)
		}
		if o.modulatorPhase < 0 || o.modulatorPhase >= 1 {
			t.Fatalf("modulator phase out of range at sample %d: %v", i, o.modulatorPhase)
		}
	}
}

func TestOutputBounded(t *testing.T) {
	paramsList := []FMParams{
		{CarrierFreq: 440, ModulatorFreq: 220, ModIndex: 2.0, Amplitude: 0.3},
		{CarrierFreq: 110, ModulatorFreq: 443, ModIndex: 10.0, Amplitude: 1.0},
		{CarrierFreq: 8000, ModulatorFreq: 8000, ModIndex: 0.5, Amplitude: 0.8},
		{CarrierFreq: 27.5, ModulatorFreq: 1, ModIndex: 20.0, Amplitude: 0.5},
	}
	for _, params := range paramsList {
		o := newOsc(sampleRate, params)
		for i := 0; i < 100000; i++ {
			v := o.nextSample()
			if math.Abs(v) > params.Amplitude {
				t.Fatalf("|output| exceeded amplitude %v at sample %d: %v", params.Amplitude, i, v)
			}
		}
	}
}

func TestZeroIndexIsPureSine(t *testing.T) {
	params := FMParams{CarrierFreq: 440, ModulatorFreq: 220, ModIndex: 0, Amplitude: 0.3}
	o := newOsc(sampleRate, params)
	got := make([]float64, 4800)
	for i := range got {
		got[i] = o.nextSample()
	}
	want := make([]float64, 4800)
	for i := range want {
		want[i] = params.Amplitude * math.Sin(2*math.Pi*params.CarrierFreq*float64(i)/sampleRate)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("output is not a pure sine (-want +got):\n%s", diff)
	}
}

func TestSetParamsKeepsPhase(t *testing.T) {
	o := newOsc(sampleRate, defaultFMParams())
	for i := 0; i < 1000; i++ {
		o.nextSample()
	}
	phase := o.carrierPhase
	o.setParams(FMParams{CarrierFreq: 880, ModulatorFreq: 440, ModIndex: 1.0, Amplitude: 0.5})
	if o.carrierPhase != phase {
		t.Fatalf("setParams changed the carrier phase: %v -> %v", phase, o.carrierPhase)
	}
}
