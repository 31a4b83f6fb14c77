// Package wavefile writes a RIFF/WAVE container of 32-bit IEEE-float mono
// samples, with the size fields patched in once the writer knows the final
// length.
package wavefile

import (
	"encoding/binary"
	"fmt"
	"os"
)

// fmtIEEEFloat is the WAVE format code for 32-bit IEEE-float PCM.
const fmtIEEEFloat = 3

// header mirrors the on-disk RIFF/WAVE layout byte-for-byte: four required
// four-byte magics, a 16-byte fmt subchunk, then the data subchunk header.
type header struct {
	RIFFMagic     [4]byte
	FileSize      uint32
	WAVEMagic     [4]byte
	FmtMagic      [4]byte
	FmtChunkSize  uint32
	Format        uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitDepth      uint16
	DataMagic     [4]byte
	DataChunkSize uint32
}

// Writer accumulates written sample bytes and patches the header's size
// fields when Close is called.
type Writer struct {
	f       *os.File
	hdr     header
	written uint32
}

// Create opens path for writing and writes a placeholder header (patched
// in full by Close). Samples are mono, 32-bit IEEE float, at sampleRate.
func Create(path string, sampleRate int) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("wavefile: create %s: %w", path, err)
	}

	const bitDepth = 32
	const numChannels = 1
	blockAlign := uint16(bitDepth / 8 * numChannels)

	w := &Writer{
		f: f,
		hdr: header{
			FmtChunkSize: 16,
			Format:       fmtIEEEFloat,
			NumChannels:  numChannels,
			SampleRate:   uint32(sampleRate),
			ByteRate:     uint32(sampleRate) * uint32(blockAlign),
			BlockAlign:   blockAlign,
			BitDepth:     bitDepth,
		},
	}

	if err := binary.Write(f, binary.LittleEndian, w.hdr); err != nil {
		f.Close()
		return nil, fmt.Errorf("wavefile: write placeholder header: %w", err)
	}
	return w, nil
}

// WriteSamples appends samples to the data subchunk.
func (w *Writer) WriteSamples(samples []float32) error {
	if err := binary.Write(w.f, binary.LittleEndian, samples); err != nil {
		return fmt.Errorf("wavefile: write samples: %w", err)
	}
	w.written += uint32(len(samples)) * 4
	return nil
}

// Close patches the RIFF file-size and data-chunk-size fields with the
// final written length, then closes the underlying file.
func (w *Writer) Close() error {
	w.hdr.RIFFMagic = [4]byte{'R', 'I', 'F', 'F'}
	w.hdr.FileSize = w.written + 36
	w.hdr.WAVEMagic = [4]byte{'W', 'A', 'V', 'E'}
	w.hdr.FmtMagic = [4]byte{'f', 'm', 't', ' '}
	w.hdr.DataMagic = [4]byte{'d', 'a', 't', 'a'}
	w.hdr.DataChunkSize = w.written

	if _, err := w.f.Seek(0, 0); err != nil {
		w.f.Close()
		return fmt.Errorf("wavefile: seek to patch header: %w", err)
	}
	if err := binary.Write(w.f, binary.LittleEndian, w.hdr); err != nil {
		w.f.Close()
		return fmt.Errorf("wavefile: patch header: %w", err)
	}
	return w.f.Close()
}
