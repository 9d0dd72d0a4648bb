// fingerprint-record is a developer utility: it captures a few seconds of
// audio from the default input device and writes it to a WAV file so it
// can be run through fingerprint-query without needing a real phone-call
// recording on hand.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gordonklaus/portaudio"
)

const sampleRate = 44100

func main() {
	seconds := flag.Int("seconds", 5, "capture length in seconds")
	out := flag.String("out", "capture.wav", "output WAV path")
	flag.Parse()

	if err := run(*seconds, *out); err != nil {
		log.Fatalf("record failed: %v", err)
	}
}

func run(seconds int, outPath string) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}
	defer portaudio.Terminate()

	buf := make([]float32, sampleRate*seconds)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), len(buf), buf)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}
	defer stream.Close()

	fmt.Printf("recording %d seconds from the default input device...\n", seconds)
	if err := stream.Start(); err != nil {
		return fmt.Errorf("start stream: %w", err)
	}
	if err := stream.Read(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	if err := stream.Stop(); err != nil {
		return fmt.Errorf("stop stream: %w", err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	defer enc.Close()

	intBuf := &audio.IntBuffer{
		Format: &audio.Format{SampleRate: sampleRate, NumChannels: 1},
		Data:   make([]int, len(buf)),
	}
	for i, v := range buf {
		intBuf.Data[i] = int(v * 32767)
	}

	if err := enc.Write(intBuf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}

	fmt.Printf("saved to %s\n", outPath)
	return nil
}
