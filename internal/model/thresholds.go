package model

import (
	"strconv"
	"strings"
)

// Default rule thresholds.
const (
	DefaultTitleMinLength    = 30
	DefaultTitleMaxLength    = 60
	DefaultMetaDescMinLength = 70
	DefaultMetaDescMaxLength = 160
	DefaultH1MaxLength       = 70
	DefaultLowWordCount      = 300
	DefaultLargeImageKB      = 100
)

// Thresholds holds the limits used by the content rules.
// Lengths are counted in Unicode code points.
type Thresholds struct {
	TitleMin    int `json:"title_min" yaml:"title_min"`
	TitleMax    int `json:"title_max" yaml:"title_max"`
	MetaDescMin int `json:"meta_desc_min" yaml:"meta_desc_min"`
	MetaDescMax int `json:"meta_desc_max" yaml:"meta_desc_max"`
	H1Max       int `json:"h1_max" yaml:"h1_max"`
	WordCount   int `json:"word_count" yaml:"word_count"`
	ImageKB     int `json:"image_kb" yaml:"image_kb"`
}

// DefaultThresholds returns the standard limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TitleMin:    DefaultTitleMinLength,
		TitleMax:    DefaultTitleMaxLength,
		MetaDescMin: DefaultMetaDescMinLength,
		MetaDescMax: DefaultMetaDescMaxLength,
		H1Max:       DefaultH1MaxLength,
		WordCount:   DefaultLowWordCount,
		ImageKB:     DefaultLargeImageKB,
	}
}

// Merge returns t with every zero field taken from other.
func (t Thresholds) Merge(other Thresholds) Thresholds {
	pick := func(v, fallback int) int {
		if v == 0 {
			return fallback
		}
		return v
	}
	return Thresholds{
		TitleMin:    pick(t.TitleMin, other.TitleMin),
		TitleMax:    pick(t.TitleMax, other.TitleMax),
		MetaDescMin: pick(t.MetaDescMin, other.MetaDescMin),
		MetaDescMax: pick(t.MetaDescMax, other.MetaDescMax),
		H1Max:       pick(t.H1Max, other.H1Max),
		WordCount:   pick(t.WordCount, other.WordCount),
		ImageKB:     pick(t.ImageKB, other.ImageKB),
	}
}

func (t Thresholds) replacer() *strings.Replacer {
	t = t.Merge(DefaultThresholds())
	return strings.NewReplacer(
		"{title_min}", strconv.Itoa(t.TitleMin),
		"{title_max}", strconv.Itoa(t.TitleMax),
		"{meta_min}", strconv.Itoa(t.MetaDescMin),
		"{meta_max}", strconv.Itoa(t.MetaDescMax),
		"{h1_max}", strconv.Itoa(t.H1Max),
		"{word_min}", strconv.Itoa(t.WordCount),
		"{image_kb}", strconv.Itoa(t.ImageKB),
	)
}
