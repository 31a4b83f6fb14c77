// Package audio adapts the player's mono float32 sample stream to ebiten's
// audio subsystem through a bounded queue the caller owns, mirroring the
// reference player's SDL_QueueAudio backpressure check.
package audio

import (
	"io"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const bytesPerFrame = 4 // 16-bit stereo PCM, ebiten's stable streaming format

// Sink streams samples to the sound card. Push is called from the
// synthesis thread; ebiten drains the queue from its own audio callback
// thread via the io.Reader below, so the two never share a buffer without
// the mutex.
type Sink struct {
	ctx    *audio.Context
	player *audio.Player

	mu       sync.Mutex
	queue    []byte
	maxBytes int
	volume   float32
}

// NewSink opens an ebiten audio player at sampleRate, bounded to maxSamples
// of queued backlog. Push silently drops samples once the queue is full
// (the caller decides what to do about that; the sink has no opinion).
func NewSink(sampleRate, maxSamples int) (*Sink, error) {
	ctx := audio.NewContext(sampleRate)
	s := &Sink{ctx: ctx, maxBytes: maxSamples * bytesPerFrame, volume: 1.0}

	player, err := ctx.NewPlayer(&streamReader{sink: s})
	if err != nil {
		return nil, err
	}
	player.Play()
	s.player = player
	return s, nil
}

// SetVolume scales every sample pushed after this call; values are clamped
// to [0, 1].
func (s *Sink) SetVolume(v float32) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.mu.Lock()
	s.volume = v
	s.mu.Unlock()
}

// Push encodes samples (nominally in [-1, +1]) as 16-bit stereo PCM and
// appends them to the queue, dropping the tail that doesn't fit.
func (s *Sink) Push(samples []float32) (accepted int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.maxBytes - len(s.queue)
	if room <= 0 {
		return 0
	}
	maxSamples := room / bytesPerFrame
	if maxSamples < len(samples) {
		samples = samples[:maxSamples]
	}

	for _, v := range samples {
		v *= s.volume
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		i16 := int16(v * 32767)
		lo, hi := byte(i16), byte(i16>>8)
		// Duplicate mono into both stereo channels.
		s.queue = append(s.queue, lo, hi, lo, hi)
	}
	return len(samples)
}

// QueuedSamples reports the number of samples still waiting to be drained.
func (s *Sink) QueuedSamples() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue) / bytesPerFrame
}

// Close stops playback and releases the underlying player.
func (s *Sink) Close() error {
	return s.player.Close()
}

// streamReader adapts Sink's queue to the io.Reader ebiten's player pulls
// from; an underfull queue yields silence rather than blocking the caller.
type streamReader struct {
	sink *Sink
}

func (r *streamReader) Read(p []byte) (int, error) {
	r.sink.mu.Lock()
	defer r.sink.mu.Unlock()

	n := copy(p, r.sink.queue)
	r.sink.queue = r.sink.queue[n:]
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

var _ io.Reader = (*streamReader)(nil)
