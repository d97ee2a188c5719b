package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversionRate(t *testing.T) {
	cases := []struct {
		name        string
		conversions int64
		clicks      int64
		want        float64
	}{
		{name: "no clicks", conversions: 0, clicks: 0, want: 0},
		{name: "no conversions", conversions: 0, clicks: 10, want: 0},
		{name: "all converted", conversions: 1, clicks: 1, want: 100},
		{name: "one third", conversions: 1, clicks: 3, want: 33.33},
		{name: "two thirds", conversions: 2, clicks: 3, want: 66.67},
		{name: "more conversions than clicks", conversions: 5, clicks: 2, want: 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ConversionRate(tc.conversions, tc.clicks)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestCampaign_CloneIsIndependent(t *testing.T) {
	source := "vk"
	original := Campaign{Source: &source}

	copied := original.Clone()
	*original.Source = "tg"

	assert.Equal(t, "vk", *copied.Source)
	assert.Nil(t, copied.Medium)
}

func TestCampaign_SourceOrDefault(t *testing.T) {
	empty := ""
	vk := "vk"

	assert.Equal(t, DirectTrafficSource, Campaign{}.SourceOrDefault(DirectTrafficSource))
	assert.Equal(t, DirectTrafficSource, Campaign{Source: &empty}.SourceOrDefault(DirectTrafficSource))
	assert.Equal(t, "vk", Campaign{Source: &vk}.SourceOrDefault(DirectTrafficSource))
}
