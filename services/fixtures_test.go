package services

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

type mp3Tags struct {
	title  string
	artist string
	album  string
	genre  string
	art    []byte
}

// writeTaggedMP3 writes an ID3v2.4 tag followed by silence-like padding
func writeTaggedMP3(t *testing.T, dir, name string, tags mp3Tags) string {
	t.Helper()

	tag := id3v2.NewEmptyTag()
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if tags.title != "" {
		tag.SetTitle(tags.title)
	}
	if tags.artist != "" {
		tag.SetArtist(tags.artist)
	}
	if tags.album != "" {
		tag.SetAlbum(tags.album)
	}
	if tags.genre != "" {
		tag.SetGenre(tags.genre)
	}
	if tags.art != nil {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/png",
			PictureType: id3v2.PTFrontCover,
			Description: "Front cover",
			Picture:     tags.art,
		})
	}

	var buf bytes.Buffer
	_, err := tag.WriteTo(&buf)
	require.NoError(t, err)
	buf.Write(make([]byte, 512))

	return writeFile(t, dir, name, buf.Bytes())
}

// writeUntaggedFile writes bytes no tag reader or prober recognizes
func writeUntaggedFile(t *testing.T, dir, name string) string {
	t.Helper()
	return writeFile(t, dir, name, make([]byte, 256))
}

// writeFLAC writes a metadata-only FLAC stream with one STREAMINFO block
func writeFLAC(t *testing.T, dir, name string, sampleRate uint32, totalSamples uint64) string {
	t.Helper()

	info := make([]byte, 34)
	binary.BigEndian.PutUint16(info[0:], 4096)
	binary.BigEndian.PutUint16(info[2:], 4096)
	// 2 channels, 16 bits per sample
	info[10] = byte(sampleRate >> 12)
	info[11] = byte(sampleRate >> 4)
	info[12] = byte(sampleRate<<4) | 1<<1
	info[13] = 0xF0 | byte(totalSamples>>32)&0x0F
	binary.BigEndian.PutUint32(info[14:], uint32(totalSamples))

	var buf bytes.Buffer
	buf.WriteString("fLaC")
	buf.Write([]byte{0x80, 0x00, 0x00, byte(len(info))})
	buf.Write(info)

	return writeFile(t, dir, name, buf.Bytes())
}

// writeWAV writes an 8-bit mono PCM file of the given length
func writeWAV(t *testing.T, dir, name string, sampleRate uint32, seconds int) string {
	t.Helper()

	data := bytes.Repeat([]byte{0x80}, int(sampleRate)*seconds)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, sampleRate)
	binary.Write(&buf, binary.LittleEndian, sampleRate) // byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // block align
	binary.Write(&buf, binary.LittleEndian, uint16(8))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)

	return writeFile(t, dir, name, buf.Bytes())
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func strPtr(s string) *string {
	return &s
}

func u64Ptr(v uint64) *uint64 {
	return &v
}

func mustOpenCatalog(t *testing.T, path string) *Catalog {
	t.Helper()
	catalog, err := OpenCatalog(path)
	require.NoError(t, err)
	return catalog
}

func mustOpenLibrary(t *testing.T, catalogPath, musicDir string, useFFprobe bool, events EventPublisher) *Library {
	t.Helper()
	lib, err := OpenLibrary(catalogPath, musicDir, useFFprobe, events)
	require.NoError(t, err)
	return lib
}

// MPEG-1 Layer III, 128 kbit/s, 44.1 kHz, no CRC, no padding
var mp3FrameHeader = []byte{0xFF, 0xFB, 0x90, 0x64}

const (
	mp3FrameSize    = 417
	mp3FrameSamples = 1152
)

// writeMP3Frames writes an optional ID3v2 tag followed by n silent frames
func writeMP3Frames(t *testing.T, dir, name string, tags *mp3Tags, n int) string {
	t.Helper()

	var buf bytes.Buffer
	if tags != nil {
		tag := id3v2.NewEmptyTag()
		tag.SetDefaultEncoding(id3v2.EncodingUTF8)
		tag.SetTitle(tags.title)
		tag.SetArtist(tags.artist)
		_, err := tag.WriteTo(&buf)
		require.NoError(t, err)
	}

	frame := make([]byte, mp3FrameSize)
	copy(frame, mp3FrameHeader)
	for j := 0; j < n; j++ {
		buf.Write(frame)
	}

	return writeFile(t, dir, name, buf.Bytes())
}
