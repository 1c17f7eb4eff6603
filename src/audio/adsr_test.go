package audio

import (
	"math"
	"testing"
)

func TestAttackReachesDecay(t *testing.T) {
	a := newADSR(sampleRate)
	a.setParams(&adsrParams{attack: 0.023, decay: 0.05, sustain: 0.6, release: 0.1})
	a.trigger()
	attackSamples := int(math.Ceil(0.023 * sampleRate))
	prev := 0.0
	for i := 0; i < attackSamples; i++ {
		level := a.process()
		if level < prev {
			t.Fatalf("attack is not monotone at sample %d: %v < %v", i, level, prev)
		}
		prev = level
	}
	if a.stage != stageDecay {
		t.Fatalf("expected stage %v, got %v", stageDecay, a.stage)
	}
	for i := 0; i < 10; i++ {
		level := a.process()
		if level > prev {
			t.Fatalf("decay is not monotone at sample %d: %v > %v", i, level, prev)
		}
		prev = level
	}
}

func TestFullCycleTiming(t *testing.T) {
	a := newADSR(sampleRate)
	a.trigger()
	for i := 0; i < 480; i++ {
		a.process()
	}
	if a.stage != stageDecay {
		t.Fatalf("expected stage %v after attack, got %v", stageDecay, a.stage)
	}
	for i := 0; i < 4800; i++ {
		a.process()
	}
	if a.stage != stageSustain {
		t.Fatalf("expected stage %v after decay, got %v", stageSustain, a.stage)
	}
	if a.process() != 0.7 {
		t.Fatalf("expected sustain level 0.7, got %v", a.level)
	}
	a.release()
	for i := 0; i < 24000; i++ {
		a.process()
	}
	if a.stage != stageIdle {
		t.Fatalf("expected stage %v after release, got %v", stageIdle, a.stage)
	}
	if a.process() != 0 {
		t.Fatalf("expected level 0 when idle, got %v", a.level)
	}
}

func TestReleaseWhileIdleIsNoop(t *testing.T) {
	a := newADSR(sampleRate)
	a.release()
	if a.stage != stageIdle {
		t.Fatalf("release from idle changed the stage to %v", a.stage)
	}
	if a.process() != 0 {
		t.Fatalf("release from idle produced a non-zero level: %v", a.level)
	}
}

func TestRetriggerRestartsAttack(t *testing.T) {
	a := newADSR(sampleRate)
	a.trigger()
	for i := 0; i < 5000; i++ {
		a.process()
	}
	a.trigger()
	if a.stage != stageAttack {
		t.Fatalf("expected stage %v after re-trigger, got %v", stageAttack, a.stage)
	}
	level := a.process()
	want := 1.0 / (0.01 * sampleRate)
	if math.Abs(level-want) > 1e-12 {
		t.Fatalf("expected level %v after re-trigger, got %v", want, level)
	}
}

func TestRetriggerFromRelease(t *testing.T) {
	a := newADSR(sampleRate)
	a.trigger()
	for i := 0; i < 480+4800; i++ {
		a.process()
	}
	a.release()
	for i := 0; i < 100; i++ {
		a.process()
	}
	a.trigger()
	if a.stage != stageAttack {
		t.Fatalf("expected stage %v after re-trigger from release, got %v", stageAttack, a.stage)
	}
}

func TestReleaseUsesConfiguredDuration(t *testing.T) {
	a := newADSR(sampleRate)
	a.setParams(&adsrParams{attack: 0.01, decay: 0.05, sustain: 0.8, release: 0.25})
	a.trigger()
	for i := 0; i < 480+2400; i++ {
		a.process()
	}
	a.release()
	level := a.process()
	want := 0.8 * (1 - (1.0/sampleRate)/0.25)
	if math.Abs(level-want) > 1e-12 {
		t.Fatalf("release ramp ignores the configured duration: want %v, got %v", want, level)
	}
	releaseSamples := int(math.Ceil(0.25 * sampleRate))
	for i := 1; i < releaseSamples; i++ {
		a.process()
	}
	if a.stage != stageIdle {
		t.Fatalf("expected stage %v after %d release samples, got %v", stageIdle, releaseSamples, a.stage)
	}
}

func TestReleaseFromAttackRampsFromSustain(t *testing.T) {
	a := newADSR(sampleRate)
	a.trigger()
	for i := 0; i < 100; i++ {
		a.process()
	}
	a.release()
	level := a.process()
	want := 0.7 * (1 - (1.0/sampleRate)/0.5)
	if math.Abs(level-want) > 1e-12 {
		t.Fatalf("expected release to ramp from the sustain level: want %v, got %v", want, level)
	}
}
