package sitemap

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name       string
		changefreq string
		wantErr    bool
	}{
		{"Unset", "", false},
		{"Daily", "daily", false},
		{"Invalid", "often", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Config{ChangeFrequency: tt.changefreq}.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Options(t *testing.T) {
	cfg := Config{
		BaseURL:         "https://example.com/",
		LastModified:    Today,
		ChangeFrequency: "monthly",
		Priority:        "0.7",
	}
	fs := afero.NewMemMapFs()
	w := NewWriter(append(cfg.Options(), WithFs(fs), WithClock(frozen(testNow)))...)
	require.NoError(t, w.Add("https://example.com/"))

	u := w.URLs()[0]
	assert.Equal(t, "2015-06-01", u.LastModified())
	assert.Equal(t, Monthly, u.ChangeFrequency())
	assert.Equal(t, "0.7", u.Priority())

	bare := NewWriter(append(Config{BaseURL: "/"}.Options(), WithFs(fs))...)
	require.NoError(t, bare.Add("https://example.com/"))
	assert.Empty(t, bare.URLs()[0].Priority())
}
