package reporter

import (
	"math"
	"testing"
	"time"

	"github.com/nsspam/nsspam/pkg/dnsbench"
	"github.com/stretchr/testify/assert"
)

func Test_roundDuration(t *testing.T) {
	type args struct {
		dur time.Duration
	}
	tests := []struct {
		name string
		args args
		want time.Duration
	}{
		{
			name: "greater than 1 minute",
			args: args{dur: time.Minute + 15*time.Second + 123*time.Millisecond},
			want: 1*time.Minute + 20*time.Second,
		},
		{
			name: "greater than 1 second",
			args: args{dur: 5*time.Second + 123*time.Millisecond},
			want: 5*time.Second + 120*time.Millisecond,
		},
		{
			name: "greater than 1 millisecond",
			args: args{dur: 2*time.Millisecond + 123*time.Microsecond},
			want: 2*time.Millisecond + 120*time.Microsecond,
		},
		{
			name: "greater than 1 microsecond",
			args: args{dur: 2*time.Microsecond + 123*time.Nanosecond},
			want: 2*time.Microsecond + 120*time.Nanosecond,
		},
		{
			name: "less than or equal to 1 microsecond",
			args: args{dur: 500 * time.Nanosecond},
			want: 500 * time.Nanosecond,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equalf(t, tt.want, roundDuration(tt.args.dur), "roundDuration(%v)", tt.args.dur)
		})
	}
}

func Test_queriesPerSecond(t *testing.T) {
	assert.InDelta(t, 50.0, queriesPerSecond(100, 2*time.Second), 1e-9)
	assert.InDelta(t, 400.0, queriesPerSecond(100, 250*time.Millisecond), 1e-9)
	assert.Zero(t, queriesPerSecond(100, 0))
}

func Test_formatAverage(t *testing.T) {
	assert.Equal(t, "0.20s", formatAverage(dnsbench.Summary{AverageLatency: 0.2}))
	assert.Equal(t, "1.05s", formatAverage(dnsbench.Summary{AverageLatency: 1.05}))
	assert.Equal(t, "n/a", formatAverage(dnsbench.Summary{AverageLatency: math.NaN()}))
}
