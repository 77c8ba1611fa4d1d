package adapters

import (
	"github.com/VoxDroid/themr/internal/samples"
)

// EmbeddedSamples serves the samples compiled into the binary.
type EmbeddedSamples struct{}

var _ SampleProvider = EmbeddedSamples{}

func (EmbeddedSamples) List() []SampleInfo {
	all := samples.All()
	out := make([]SampleInfo, len(all))
	for i, s := range all {
		out[i] = SampleInfo{Name: s.Name, Language: s.Language, File: s.File, Lexer: s.Lexer}
	}
	return out
}

func (EmbeddedSamples) Source(name string) (string, error) {
	s, err := samples.Get(name)
	if err != nil {
		return "", err
	}
	return s.Source()
}
