// Package sample provides the audiobook sample descriptor.
package sample

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"
)

// DefaultDuration is used when the page does not pass a duration.
// An explicit empty duration is kept and plays as a zero-length sample.
const DefaultDuration = "4:43"

// maxClockSeconds is the longest clock that fits in a time.Duration.
const maxClockSeconds = math.MaxInt64 / int64(time.Second)

// ErrMalformedDuration is returned when a duration string is not m:ss or h:mm:ss.
var ErrMalformedDuration = errors.New("malformed duration")

// Descriptor describes a sample excerpt.
// It is owned by the caller and never mutated by the player.
type Descriptor struct {
	CoverImage string `mapstructure:"coverImage" yaml:"cover_image" validate:"required"`
	Title      string `mapstructure:"title" yaml:"title" validate:"required"`
	Author     string `mapstructure:"author" yaml:"author"`
	Narrator   string `mapstructure:"narrator" yaml:"narrator"`
	Duration   string `mapstructure:"duration" yaml:"duration" default:"4:43"` // "m:ss" or "h:mm:ss"
	SampleURL  string `mapstructure:"sampleUrl" yaml:"sample_url"`             // Reserved for real audio
}

// TotalDuration returns the parsed sample length in whole seconds.
// A malformed duration resolves to zero so the player stays inert.
func (d Descriptor) TotalDuration() time.Duration {
	total, err := ParseClock(d.Duration)
	if err != nil {
		zlog.Warn().Msgf("sample: treating duration of %q as zero: %v", d.Title, err)
		return 0
	}
	return total
}

// Label returns the accessible title of the sample.
func (d Descriptor) Label() string {
	return fmt.Sprintf("Sample: %s by %s", d.Title, d.Author)
}

// FromProps decodes the props a page passes to the player.
func FromProps(props map[string]any) (Descriptor, error) {
	var d Descriptor

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &d,
		TagName: "mapstructure",
	})
	if err != nil {
		return Descriptor{}, errors.Wrap(err, "failed to create decoder")
	}
	if err := decoder.Decode(props); err != nil {
		return Descriptor{}, errors.Wrap(err, "failed to decode props")
	}

	duration := d.Duration
	if err := defaults.Set(&d); err != nil {
		return Descriptor{}, errors.Wrap(err, "failed to set defaults")
	}
	if props["duration"] != nil {
		d.Duration = duration
	}

	if err := d.Validate(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// Validate checks the required descriptor fields.
// Duration is not checked; a malformed one plays as a zero-length sample.
func (d Descriptor) Validate() error {
	validate := validator.New()
	if err := validate.Struct(d); err != nil {
		return errors.Wrap(err, "descriptor validation failed")
	}
	return nil
}

// ParseClock parses "m:ss" or "h:mm:ss" into a duration of whole seconds.
func ParseClock(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")

	var h, m, sec int64
	var err error
	switch len(parts) {
	case 2:
		if m, err = clockField(parts[0], maxClockSeconds/60); err != nil {
			return 0, errors.Wrapf(err, "minutes of %q", s)
		}
		if sec, err = clockField(parts[1], 59); err != nil {
			return 0, errors.Wrapf(err, "seconds of %q", s)
		}
	case 3:
		if h, err = clockField(parts[0], maxClockSeconds/3600); err != nil {
			return 0, errors.Wrapf(err, "hours of %q", s)
		}
		if m, err = clockField(parts[1], 59); err != nil {
			return 0, errors.Wrapf(err, "minutes of %q", s)
		}
		if sec, err = clockField(parts[2], 59); err != nil {
			return 0, errors.Wrapf(err, "seconds of %q", s)
		}
	default:
		return 0, errors.Wrapf(ErrMalformedDuration, "%q", s)
	}

	total := h*3600 + m*60 + sec
	if total > maxClockSeconds {
		return 0, errors.Wrapf(ErrMalformedDuration, "%q is too long", s)
	}
	return time.Duration(total) * time.Second, nil
}

// clockField parses one unsigned clock field no greater than limit.
func clockField(field string, limit int64) (int64, error) {
	if field == "" {
		return 0, ErrMalformedDuration
	}
	for _, r := range field {
		if r < '0' || r > '9' {
			return 0, ErrMalformedDuration
		}
	}
	n, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, errors.Mark(err, ErrMalformedDuration)
	}
	if n > limit {
		return 0, ErrMalformedDuration
	}
	return n, nil
}

// FormatClock renders a position as m:ss, flooring partial seconds.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
