package als

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// liveSetDoc builds a synthetic Live set document with the given fields.
// The shape mirrors what the decoder sees after inflating a real set.
type liveSetDoc struct {
	creator      string
	tempo        float64
	hasTempo     bool
	numerator    int
	denominator  int
	audioTracks  int
	midiTracks   int
	returnTracks int
	endBeats     float64
	hasEnd       bool
	plugins      []string
	samples      []string
	scales       [][2]int // root index, scale index
}

func (d liveSetDoc) render() string {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	if d.creator != "" {
		fmt.Fprintf(&b, `<Ableton MajorVersion="5" Creator="%s" Revision="abc123">`+"\n", d.creator)
	} else {
		b.WriteString("<Ableton MajorVersion=\"5\">\n")
	}
	b.WriteString("<LiveSet>\n<Tracks>\n")

	for i := 0; i < d.audioTracks; i++ {
		fmt.Fprintf(&b, "<AudioTrack Id=\"%d\"><DeviceChain>\n", i)
		for _, p := range d.plugins {
			fmt.Fprintf(&b, `<PluginDevice><PlugName Value="%s" /></PluginDevice>`+"\n", p)
		}
		for _, s := range d.samples {
			fmt.Fprintf(&b, `<SampleRef><FileRef><Name Value="%s" /></FileRef></SampleRef>`+"\n", s)
		}
		b.WriteString("</DeviceChain></AudioTrack>\n")
	}
	for i := 0; i < d.midiTracks; i++ {
		fmt.Fprintf(&b, "<MidiTrack Id=\"%d\">\n", 100+i)
		for _, sc := range d.scales {
			fmt.Fprintf(&b,
				`<ScaleInformation><RootNote Value="%d" /><ScaleName Value="%d" /></ScaleInformation>`+"\n",
				sc[0], sc[1])
		}
		b.WriteString("</MidiTrack>\n")
	}
	for i := 0; i < d.returnTracks; i++ {
		fmt.Fprintf(&b, "<ReturnTrack Id=\"%d\"></ReturnTrack>\n", 200+i)
	}
	b.WriteString("</Tracks>\n<MainTrack>\n")

	if d.hasTempo {
		fmt.Fprintf(&b, `<Tempo><Manual Value="%g" /><AutomationTarget Id="8" /></Tempo>`+"\n", d.tempo)
	}
	if d.numerator > 0 {
		fmt.Fprintf(&b, `<TimeSignatureNumerator Value="%d" />`+"\n", d.numerator)
	}
	if d.denominator > 0 {
		fmt.Fprintf(&b, `<TimeSignatureDenominator Value="%d" />`+"\n", d.denominator)
	}
	if d.hasEnd {
		fmt.Fprintf(&b, `<Transport><CurrentEnd Value="%g" /></Transport>`+"\n", d.endBeats)
	}

	b.WriteString("</MainTrack>\n</LiveSet>\n</Ableton>\n")
	return b.String()
}

// gzipDoc compresses text the way Live writes set files.
func gzipDoc(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// gzipDocWithHeader compresses text with the optional header fields set,
// exercising the FNAME/FCOMMENT/FEXTRA walk in the decoder.
func gzipDocWithHeader(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	w.Name = "project.xml"
	w.Comment = "exported set"
	w.Extra = []byte{0x01, 0x02, 0x03, 0x04}
	_, err := w.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}
