package models

import (
	"strconv"
	"strings"
)

// AudioInstrument is the instrument name reserved for audio tracks.
const AudioInstrument = "Audio"

// Part is one instrument part of the catalog.
type Part struct {
	Instrument    string `json:"instrument" yaml:"instrument"`
	PartNumber    *int   `json:"partNumber,omitempty" yaml:"partNumber,omitempty"`
	Optional      bool   `json:"optional" yaml:"optional"`
	Abbreviations string `json:"abbreviations,omitempty" yaml:"abbreviations,omitempty"`
}

// NewPart builds a numbered part. A number of zero leaves the part unnumbered.
func NewPart(instrument string, number int, optional bool, abbreviations ...string) Part {
	p := Part{Instrument: instrument, Optional: optional, Abbreviations: strings.Join(abbreviations, ",")}
	if number != 0 {
		p.PartNumber = &number
	}
	return p
}

// DisplayName is the instrument, suffixed with the part number when positive.
//
// It names the output directory and is the highest priority match term.
func (p Part) DisplayName() string {
	if p.PartNumber == nil || *p.PartNumber <= 0 {
		return p.Instrument
	}
	return p.Instrument + " " + strconv.Itoa(*p.PartNumber)
}

// IsAudio reports whether the part stands for an audio track rather than sheet music.
func (p Part) IsAudio() bool {
	return p.Instrument == AudioInstrument && p.PartNumber == nil
}

// AbbreviationList splits the comma separated abbreviations, dropping blanks.
func (p Part) AbbreviationList() []string {
	if strings.TrimSpace(p.Abbreviations) == "" {
		return nil
	}

	var out []string
	for _, a := range strings.Split(p.Abbreviations, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Terms returns the match terms in priority order: display name, instrument, abbreviations.
func (p Part) Terms() []string {
	terms := []string{p.DisplayName(), p.Instrument}
	return append(terms, p.AbbreviationList()...)
}

// Song is a catalog entry whose Title names its folder under the songs root.
type Song struct {
	IndexNumber string `json:"indexNumber" yaml:"indexNumber"`
	Title       string `json:"title" yaml:"title"`
}

// FileName is the output file name of part p for this song.
func (s Song) FileName(p Part) string {
	return s.IndexNumber + " - " + s.Title + " - " + p.DisplayName() + ".pdf"
}

// String implements [fmt.Stringer].
func (s Song) String() string {
	if s.IndexNumber == "" {
		return s.Title
	}
	return s.IndexNumber + " - " + s.Title
}

// Catalog is the parsed index file: ordered parts and songs.
type Catalog struct {
	Parts []Part `json:"parts" yaml:"parts"`
	Songs []Song `json:"songs" yaml:"songs"`
}

// PartDirectory maps a part to its output directory.
type PartDirectory struct {
	Part Part
	Dir  string
}

// Key identifies the entry by the part's display name.
func (d PartDirectory) Key() string {
	return d.Part.DisplayName()
}
