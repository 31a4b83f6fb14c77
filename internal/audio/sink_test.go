package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSink(maxSamples int) *Sink {
	return &Sink{maxBytes: maxSamples * bytesPerFrame, volume: 1.0}
}

func TestPushAcceptsWithinCapacity(t *testing.T) {
	s := newTestSink(10)

	n := s.Push([]float32{0.1, 0.2, 0.3})

	assert.Equal(t, 3, n)
	assert.Equal(t, 3, s.QueuedSamples())
}

func TestPushDropsTailBeyondCapacity(t *testing.T) {
	s := newTestSink(4)

	n := s.Push([]float32{0, 0, 0, 0, 0, 0})

	assert.Equal(t, 4, n)
	assert.Equal(t, 4, s.QueuedSamples())
}

func TestPushReturnsZeroOnceQueueIsFull(t *testing.T) {
	s := newTestSink(2)

	require.Equal(t, 2, s.Push([]float32{1, 1}))
	assert.Equal(t, 0, s.Push([]float32{1}))
	assert.Equal(t, 2, s.QueuedSamples())
}

func TestStreamReaderDrainsQueueAndPadsWithSilence(t *testing.T) {
	s := newTestSink(10)
	s.Push([]float32{1, -1})

	r := &streamReader{sink: s}
	buf := make([]byte, bytesPerFrame*4) // room for 4 stereo frames
	n, err := r.Read(buf)

	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, 0, s.QueuedSamples(), "drained samples are removed from the queue")

	// The trailing two frames (beyond the two pushed samples) must be
	// silence, not garbage.
	tail := buf[bytesPerFrame*2:]
	for _, b := range tail {
		assert.Equal(t, byte(0), b)
	}
}

func TestSetVolumeClampsToUnitRange(t *testing.T) {
	s := newTestSink(10)

	s.SetVolume(5)
	assert.Equal(t, float32(1), s.volume)

	s.SetVolume(-1)
	assert.Equal(t, float32(0), s.volume)
}
