package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Swatch is a named color in a palette.
type Swatch struct {
	Name string
	Hex  string
}

// Blend describes how two swatches combine.
type Blend int

const (
	Average Blend = iota
	Multiply
	Screen
)

func (b Blend) String() string {
	switch b {
	case Average:
		return "average"
	case Multiply:
		return "multiply"
	case Screen:
		return "screen"
	default:
		return fmt.Sprintf("blend(%d)", int(b))
	}
}

// Palette stores swatches keyed by name. Safe for concurrent readers.
type Palette struct {
	mu       sync.RWMutex
	swatches map[string]Swatch
}

// NewPalette returns an empty palette.
func NewPalette() *Palette {
	return &Palette{swatches: make(map[string]Swatch)}
}

// Add registers a swatch. Hex values must look like #RRGGBB.
func (p *Palette) Add(s Swatch) error {
	if len(s.Hex) != 7 || !strings.HasPrefix(s.Hex, "#") {
		return fmt.Errorf("swatch %q: bad hex %q", s.Name, s.Hex)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, dup := p.swatches[s.Name]; dup {
		return errors.New("duplicate swatch " + s.Name)
	}
	p.swatches[s.Name] = s
	return nil
}

// Names returns the swatch names in sorted order.
func (p *Palette) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.swatches))
	for name := range p.swatches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// channel returns one 0-255 component of a #RRGGBB value.
func channel(hex string, i int) int {
	var v int
	fmt.Sscanf(hex[1+2*i:3+2*i], "%02x", &v)
	return v
}

// Mix combines two hex colors with the given blend mode.
func Mix(a, b string, mode Blend) string {
	out := [3]int{}
	for i := range out {
		ca, cb := channel(a, i), channel(b, i)
		switch mode {
		case Multiply:
			out[i] = ca * cb / 255
		case Screen:
			out[i] = 255 - (255-ca)*(255-cb)/255
		default:
			out[i] = (ca + cb) / 2
		}
	}
	return fmt.Sprintf("#%02x%02x%02x", out[0], out[1], out[2])
}

func main() {
	palette := NewPalette()
	base := []Swatch{
		{Name: "ink", Hex: "#101018"},
		{Name: "mist", Hex: "#d8d8e8"},
		{Name: "orchid", Hex: "#c792ea"},
	}
	for _, s := range base {
		if err := palette.Add(s); err != nil {
			fmt.Println("skipped:", err)
			continue
		}
	}

	results := make(chan string, len(base))
	var wg sync.WaitGroup
	for _, name := range palette.Names() {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			p := palette
			p.mu.RLock()
			s := p.swatches[n]
			p.mu.RUnlock()
			results <- fmt.Sprintf("%s -> %s", n, Mix(s.Hex, "#1e1e2e", Screen))
		}(name)
	}
	wg.Wait()
	close(results)

	for line := range results {
		fmt.Println(line)
	}
	fmt.Printf("modes: %v, %v, %v\n", Average, Multiply, Screen)
}
