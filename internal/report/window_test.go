package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		input   string
		want    Window
		wantErr bool
	}{
		{input: "week", want: WindowWeek},
		{input: "7d", want: WindowWeek},
		{input: "Month", want: WindowMonth},
		{input: "30d", want: WindowMonth},
		{input: "all", want: WindowAllTime},
		{input: "all-time", want: WindowAllTime},
		{input: "", want: WindowAllTime},
		{input: "year", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWindow(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWindow_Contains(t *testing.T) {
	ancient := now.AddDate(-20, 0, 0)
	assert.True(t, WindowAllTime.Contains(ancient, now))
	assert.False(t, WindowMonth.Contains(ancient, now))
	assert.True(t, WindowMonth.Contains(now.Add(-29*24*time.Hour), now))
	assert.Equal(t, "week", WindowWeek.String())
	assert.Equal(t, "all-time", WindowAllTime.String())
}
