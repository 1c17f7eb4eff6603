package audio

import (
	"fmt"
	"os"
)

// ----- Presets ----- //

type preset struct {
	name   string
	params FMParams
}

var factoryPresets = []preset{
	{"Bell", FMParams{CarrierFreq: 440.0, ModulatorFreq: 440.0, ModIndex: 7.0, Amplitude: 0.3}},
	{"Bass", FMParams{CarrierFreq: 110.0, ModulatorFreq: 110.0, ModIndex: 1.5, Amplitude: 0.5}},
	{"Electric Piano", FMParams{CarrierFreq: 440.0, ModulatorFreq: 880.0, ModIndex: 3.0, Amplitude: 0.4}},
	{"Brass", FMParams{CarrierFreq: 440.0, ModulatorFreq: 440.0, ModIndex: 2.5, Amplitude: 0.4}},
}

func findFactoryPreset(name string) (FMParams, bool) {
	for _, p := range factoryPresets {
		if p.name == name {
			return p.params, true
		}
	}
	return FMParams{}, false
}

type presetManager struct {
	dir string
}

func newPresetManager(dir string) *presetManager {
	return &presetManager{
		dir: dir,
	}
}

// applyToParams loads a named preset into target. Factory presets win;
// otherwise <dir>/<name>.json is read in the FMParams JSON format.
func (pm *presetManager) applyToParams(name string, target *FMParams) error {
	if p, ok := findFactoryPreset(name); ok {
		*target = p
		return nil
	}
	if pm.dir == "" {
		return fmt.Errorf("unknown preset: %v", name)
	}
	path := pm.dir + "/" + name + ".json"
	bytes, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	target.applyJSON(bytes)
	return target.validate()
}
