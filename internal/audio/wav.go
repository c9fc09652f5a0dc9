package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Format describes decoded PCM audio.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// WAV decoding errors.
var (
	ErrNotWAV              = errors.New("data is not a RIFF/WAVE container")
	ErrUnsupportedEncoding = errors.New("unsupported WAV encoding")
	ErrNoAudioData         = errors.New("WAV container has no data chunk")
)

const pcmEncoding = 1

// DecodeWAV parses a WAV container and returns its format and raw PCM
// payload. Only uncompressed PCM is supported, which is what the
// synthesis service produces.
func DecodeWAV(data []byte) (Format, []byte, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Format{}, nil, ErrNotWAV
	}

	var format Format
	var pcm []byte
	haveFmt := false

	// Walk the chunk list. Chunks other than fmt and data (LIST, fact,
	// cue) are skipped.
	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if size < 0 || body+size > len(data) {
			return Format{}, nil, fmt.Errorf("%w: truncated %q chunk", ErrNotWAV, id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return Format{}, nil, fmt.Errorf("%w: short fmt chunk", ErrNotWAV)
			}
			encoding := binary.LittleEndian.Uint16(data[body : body+2])
			if encoding != pcmEncoding {
				return Format{}, nil, fmt.Errorf("%w: encoding %d", ErrUnsupportedEncoding, encoding)
			}
			format.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			format.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			format.BitDepth = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			pcm = data[body : body+size]
		}

		// Chunk bodies are word-aligned.
		offset = body + size
		if size%2 == 1 {
			offset++
		}
	}

	if !haveFmt {
		return Format{}, nil, fmt.Errorf("%w: missing fmt chunk", ErrNotWAV)
	}
	if pcm == nil {
		return Format{}, nil, ErrNoAudioData
	}
	return format, pcm, nil
}
