package main

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/mwalton/gonostalgic/apu"
)

// audioSink drains mixed APU samples to the host's default output
// device through PortAudio, buffering internally since the emulation
// goroutine produces samples faster and less regularly than
// PortAudio's fixed-size callback consumes them.
type audioSink struct {
	stream *portaudio.Stream

	mu  sync.Mutex
	buf []float32
}

func newAudioSink() (*audioSink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audio: initializing PortAudio: %w", err)
	}

	s := &audioSink{}
	stream, err := portaudio.OpenDefaultStream(0, 1, apu.DefaultSampleRate, 0, s.callback)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("audio: opening output stream: %w", err)
	}
	s.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("audio: starting output stream: %w", err)
	}
	return s, nil
}

// callback is invoked by PortAudio on its own real-time thread; it
// must never block, so it only copies out of the buffer accumulated
// by Write and pads with silence if the emulator has fallen behind.
func (s *audioSink) callback(out []float32) {
	s.mu.Lock()
	n := copy(out, s.buf)
	s.buf = s.buf[n:]
	s.mu.Unlock()
	for i := n; i < len(out); i++ {
		out[i] = 0
	}
}

// Write appends newly produced samples for the callback to drain.
// Called from the emulation goroutine, not the PortAudio thread.
func (s *audioSink) Write(samples []float32) {
	const maxBuffered = 44100 // 1 second ceiling against unbounded growth if output stalls
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf, samples...)
	if len(s.buf) > maxBuffered {
		s.buf = s.buf[len(s.buf)-maxBuffered:]
	}
}

func (s *audioSink) Close() error {
	if s.stream == nil {
		return nil
	}
	s.stream.Stop()
	err := s.stream.Close()
	portaudio.Terminate()
	return err
}
