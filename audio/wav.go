package audio

import "encoding/base64"

// EncodeWav packs mono float32 samples into a 16-bit PCM WAV file.
func EncodeWav(samples []float32, sampleRate int) []byte {
	dataSize := len(samples) * 2
	data := make([]byte, 44+dataSize)
	writeWavHeader(data, dataSize, sampleRate)

	// Sample data, little-endian.
	for i, s := range samples {
		var v int16
		switch {
		case s >= 1:
			v = 32767
		case s <= -1:
			v = -32768
		default:
			v = int16(s * 32767)
		}
		data[44+i*2] = byte(v)
		data[44+i*2+1] = byte(v >> 8)
	}
	return data
}

// EncodeWavDataURL encodes a rendered voice as a data URL that the
// browser's decodeAudioData can consume.
func EncodeWavDataURL(samples []float32, sampleRate int) string {
	return "data:audio/wav;base64," + base64.StdEncoding.EncodeToString(EncodeWav(samples, sampleRate))
}

// writeWavHeader writes a mono 16-bit WAV file header to the buffer.
func writeWavHeader(data []byte, dataSize, sampleRate int) {
	// RIFF header
	data[0] = 'R'
	data[1] = 'I'
	data[2] = 'F'
	data[3] = 'F'
	writeUint32LE(data, 4, uint32(dataSize+36))
	data[8] = 'W'
	data[9] = 'A'
	data[10] = 'V'
	data[11] = 'E'

	// fmt sub-chunk
	data[12] = 'f'
	data[13] = 'm'
	data[14] = 't'
	data[15] = ' '
	writeUint32LE(data, 16, 16)                   // Sub-chunk size
	writeUint16LE(data, 20, 1)                    // Audio format (PCM)
	writeUint16LE(data, 22, 1)                    // Channels (mono)
	writeUint32LE(data, 24, uint32(sampleRate))   // Sample rate
	writeUint32LE(data, 28, uint32(sampleRate*2)) // Byte rate
	writeUint16LE(data, 32, 2)                    // Block align
	writeUint16LE(data, 34, 16)                   // Bits per sample

	// data sub-chunk
	data[36] = 'd'
	data[37] = 'a'
	data[38] = 't'
	data[39] = 'a'
	writeUint32LE(data, 40, uint32(dataSize))
}

func writeUint16LE(data []byte, offset int, value uint16) {
	data[offset] = byte(value)
	data[offset+1] = byte(value >> 8)
}

func writeUint32LE(data []byte, offset int, value uint32) {
	data[offset] = byte(value)
	data[offset+1] = byte(value >> 8)
	data[offset+2] = byte(value >> 16)
	data[offset+3] = byte(value >> 24)
}
