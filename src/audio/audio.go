package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/hajimehoshi/oto"
)

const (
	sampleRate      = 48000
	channelNum      = 2
	bitDepthInBytes = 2
	samplesPerCycle = 1024
	eventQueueSize  = 256
)
const bytesPerSample = bitDepthInBytes * channelNum
const bufferSizeInBytes = samplesPerCycle * bytesPerSample // should be >= 4096
const secPerSample = 1.0 / sampleRate

// ----- Utility ----- //

func now() float64 {
	return float64(time.Now().UnixNano()) / 1000 / 1000 / 1000
}
func toRawMessage(v interface{}) json.RawMessage {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return json.RawMessage(bytes)
}

// ----- Voice Event ----- //

// Voice events carry control-side requests into the render context. They are
// applied at block start only, so every sample of one block sees a single
// consistent parameter snapshot.

type noteOnEvent struct{}
type noteOffEvent struct{}
type setParamsEvent struct {
	params FMParams
}
type setADSREvent struct {
	params adsrParams
}

// ----- Audio ----- //

// Audio renders one Voice into an oto player. The voice is owned by the
// render path (Read); the control path publishes events through a buffered
// queue and never touches the voice directly.
type Audio struct {
	ctx        context.Context
	otoContext *oto.Context
	CommandCh  chan []string

	mu      sync.Mutex // control side only; Read never takes it
	params  FMParams
	adsr    adsrParams
	presets *presetManager

	events chan interface{}
	voice  *Voice
	out    []float64 // length: samplesPerCycle
}

var _ io.Reader = (*Audio)(nil)

type audioJSON struct {
	Params json.RawMessage `json:"params"`
	Adsr   json.RawMessage `json:"adsr"`
}

// NewAudio ...
func NewAudio() *Audio {
	commandCh := make(chan []string, 256)
	audio := &Audio{
		ctx:       context.Background(),
		CommandCh: commandCh,
		params:    defaultFMParams(),
		adsr:      defaultADSRParams(),
		presets:   newPresetManager(""),
		events:    make(chan interface{}, eventQueueSize),
		voice:     NewVoice(sampleRate, defaultFMParams()),
		out:       make([]float64, samplesPerCycle),
	}
	go processCommands(audio, commandCh)
	return audio
}

// SetPresetDir ...
func (a *Audio) SetPresetDir(dir string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.presets = newPresetManager(dir)
}

// ApplyJSON ...
func (a *Audio) ApplyJSON(data []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var j audioJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to Audio", err)
		return
	}
	params := a.params
	params.applyJSON(j.Params)
	if err := params.validate(); err != nil {
		log.Printf("failed to apply JSON to Audio: %v\n", err)
		return
	}
	adsr := a.adsr
	adsr.applyJSON(j.Adsr)
	if err := adsr.validate(); err != nil {
		log.Printf("failed to apply JSON to Audio: %v\n", err)
		return
	}
	a.params = params
	a.adsr = adsr
	a.pushEvent(&setParamsEvent{params: params})
	a.pushEvent(&setADSREvent{params: adsr})
}

// ToJSON ...
func (a *Audio) ToJSON() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	bytes, err := json.Marshal(&audioJSON{
		Params: a.params.toJSON(),
		Adsr:   a.adsr.toJSON(),
	})
	if err != nil {
		panic(err)
	}
	return bytes
}

func (a *Audio) Read(buf []byte) (int, error) {
	select {
	case <-a.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
	}
	a.drainEvents()
	bufSamples := len(buf) / bytesPerSample
	if bufSamples > len(a.out) {
		bufSamples = len(a.out)
	}
	out := a.out[:bufSamples]
	for i := 0; i < len(out); i++ {
		out[i] = a.voice.NextSample()
	}
	writeBuffer(out, buf, 0)
	writeBuffer(out, buf, 1)
	return bufSamples * bytesPerSample, nil
}

// drainEvents applies queued control events before a block is rendered.
// Non-blocking: the render path never waits on the control side.
func (a *Audio) drainEvents() {
	for {
		select {
		case e := <-a.events:
			switch data := e.(type) {
			case *noteOnEvent:
				a.voice.NoteOn()
			case *noteOffEvent:
				a.voice.NoteOff()
			case *setParamsEvent:
				a.voice.SetParams(data.params)
			case *setADSREvent:
				a.voice.setADSR(&data.params)
			}
		default:
			return
		}
	}
}

func (a *Audio) pushEvent(e interface{}) {
	select {
	case a.events <- e:
	default:
		log.Println("[WARN] event queue is full, dropping event")
	}
}

func writeBuffer(out []float64, buf []byte, ch int) {
	sampleLength := len(out)
	for i := 0; i < sampleLength; i++ {
		value := out[i]
		switch bitDepthInBytes {
		case 1:
			const max = 127
			b := int(value * max)
			buf[bytesPerSample*i+ch] = byte(b + 128)
		case 2:
			const max = 32767
			b := int16(value * max)
			buf[bytesPerSample*i+2*ch] = byte(b)
			buf[bytesPerSample*i+2*ch+1] = byte(b >> 8)
		}
	}
}

func processCommands(audio *Audio, commandCh <-chan []string) {
	for command := range commandCh {
		if err := audio.update(command); err != nil {
			log.Printf("command error: %v\n", err)
		}
	}
	log.Println("processCommands() ended.")
}

func (a *Audio) update(command []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch command[0] {
	case "set":
		command = command[1:]
		if len(command) == 0 {
			return fmt.Errorf("empty set command")
		}
		if command[0] == "adsr" {
			command = command[1:]
			if len(command) != 2 {
				return fmt.Errorf("invalid key-value pair %v", command)
			}
			adsr := a.adsr
			if err := adsr.set(command[0], command[1]); err != nil {
				return err
			}
			if err := adsr.validate(); err != nil {
				return err
			}
			a.adsr = adsr
			a.pushEvent(&setADSREvent{params: adsr})
			return nil
		}
		if len(command) != 2 {
			return fmt.Errorf("invalid key-value pair %v", command)
		}
		params := a.params
		if err := params.set(command[0], command[1]); err != nil {
			return err
		}
		if err := params.validate(); err != nil {
			return err
		}
		a.params = params
		a.pushEvent(&setParamsEvent{params: params})
	case "preset":
		if len(command) != 2 {
			return fmt.Errorf("preset command needs a name, got %v", command)
		}
		params := a.params
		if err := a.presets.applyToParams(command[1], &params); err != nil {
			return err
		}
		a.params = params
		a.pushEvent(&setParamsEvent{params: params})
	case "note_on":
		a.pushEvent(&noteOnEvent{})
	case "note_off":
		a.pushEvent(&noteOffEvent{})
	default:
		return fmt.Errorf("unknown command %v", command[0])
	}
	return nil
}

// Close ...
func (a *Audio) Close() error {
	log.Println("Closing Audio...")
	close(a.CommandCh)
	if a.otoContext != nil {
		return a.otoContext.Close()
	}
	return nil
}

// Start opens the audio device and blocks until ctx is canceled. The oto
// context is created here, not in NewAudio, so the engine can render without
// a device (tests, headless boxes).
func (a *Audio) Start(ctx context.Context) error {
	otoContext, err := oto.NewContext(sampleRate, channelNum, bitDepthInBytes, bufferSizeInBytes)
	if err != nil {
		return err
	}
	a.otoContext = otoContext
	p := otoContext.NewPlayer()
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	a.ctx = ctx

	// block until cancel() called
	if _, err := io.CopyBuffer(p, a, make([]byte, bufferSizeInBytes)); err != nil {
		return err
	}
	log.Println("Start() ended.")
	return nil
}
