package catalog

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/samplebox/internal/domain/sample"
)

func descriptor(title string) sample.Descriptor {
	return sample.Descriptor{
		CoverImage: "/covers/" + title + ".jpg",
		Title:      title,
		Author:     "Ines Varga",
		Narrator:   "Tom Hale",
		Duration:   "4:43",
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		wantErr error
		count   int
	}{
		{
			name: "valid entries",
			entries: []Entry{
				{ID: "lanterns", Descriptor: descriptor("Lanterns")},
				{ID: "tide", Descriptor: descriptor("Tide")},
			},
			count: 2,
		},
		{
			name:  "empty catalog",
			count: 0,
		},
		{
			name: "duplicate id differing in case",
			entries: []Entry{
				{ID: "tide", Descriptor: descriptor("Tide")},
				{ID: "TIDE", Descriptor: descriptor("Tide again")},
			},
			wantErr: ErrDuplicateSample,
		},
		{
			name:    "blank id",
			entries: []Entry{{ID: "  ", Descriptor: descriptor("Tide")}},
			wantErr: ErrEmptyID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.entries)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.count, r.Count())
		})
	}
}

func TestNew_InvalidDescriptor(t *testing.T) {
	_, err := New([]Entry{{ID: "untitled", Descriptor: sample.Descriptor{CoverImage: "/c.jpg"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "untitled")
}

func TestRegistry_Get(t *testing.T) {
	r, err := New([]Entry{{ID: "Lanterns", Descriptor: descriptor("Lanterns")}})
	require.NoError(t, err)

	d, err := r.Get(" lanterns ")
	require.NoError(t, err)
	assert.Equal(t, "Lanterns", d.Title)

	_, err = r.Get("missing")
	assert.True(t, errors.Is(err, ErrSampleNotFound))
}

func TestRegistry_ListSorted(t *testing.T) {
	r, err := New([]Entry{
		{ID: "tide", Descriptor: descriptor("Tide")},
		{ID: "anchor", Descriptor: descriptor("Anchor")},
		{ID: "lanterns", Descriptor: descriptor("Lanterns")},
	})
	require.NoError(t, err)

	var ids []string
	for _, e := range r.List() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"anchor", "lanterns", "tide"}, ids)
}
