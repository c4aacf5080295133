package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStrings(t *testing.T) {
	tests := []struct {
		name  string
		page  string
		limit string
		want  Params
	}{
		{name: "defaults", want: Params{Page: 1, Limit: 20, Offset: 0}},
		{name: "explicit", page: "3", limit: "10", want: Params{Page: 3, Limit: 10, Offset: 20}},
		{name: "garbage", page: "abc", limit: "xyz", want: Params{Page: 1, Limit: 20, Offset: 0}},
		{name: "negative page", page: "-2", limit: "5", want: Params{Page: 1, Limit: 5, Offset: 0}},
		{name: "zero limit", page: "2", limit: "0", want: Params{Page: 2, Limit: 20, Offset: 20}},
		{name: "limit clamped", page: "2", limit: "1000", want: Params{Page: 2, Limit: 100, Offset: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromStrings(tt.page, tt.limit))
		})
	}
}
