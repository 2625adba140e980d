package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"movelink/internal/types"
)

func TestClassify(t *testing.T) {
	desired := day(2025, time.June, 10)

	tests := []struct {
		name     string
		reqDep   types.Address
		reqArr   types.Address
		mvDep    types.Address
		mvArr    types.Address
		distance float64
		dates    DateCheck
		want     Type
	}{
		{
			name:   "same cities, tight fixed dates",
			reqDep: parisDep, reqArr: lyonArr, mvDep: parisDep2, mvArr: lyonArr2,
			distance: 12,
			dates:    DateCheck{Compatible: true, DiffDays: 2},
			want:     TypePerfect,
		},
		{
			name:   "same cities, flexible window hit",
			reqDep: parisDep, reqArr: lyonArr, mvDep: parisDep2, mvArr: lyonArr2,
			distance: 12,
			dates:    DateCheck{Compatible: true, DiffDays: 0, Flexible: true},
			want:     TypePerfect,
		},
		{
			name:   "same cities at the 3 day bound",
			reqDep: parisDep, reqArr: lyonArr, mvDep: parisDep2, mvArr: lyonArr2,
			distance: 12,
			dates:    DateCheck{Compatible: true, DiffDays: 3},
			want:     TypePerfect,
		},
		{
			name:   "same cities, looser dates fall to good",
			reqDep: parisDep, reqArr: lyonArr, mvDep: parisDep2, mvArr: lyonArr2,
			distance: 12,
			dates:    DateCheck{Compatible: true, DiffDays: 5},
			want:     TypeGood,
		},
		{
			name:   "different city, close route and dates",
			reqDep: lilleDep, reqArr: lyonArr, mvDep: parisDep, mvArr: lyonArr2,
			distance: 40,
			dates:    DateCheck{Compatible: true, DiffDays: 6},
			want:     TypeGood,
		},
		{
			name:   "different city, close route, dates too loose",
			reqDep: lilleDep, reqArr: lyonArr, mvDep: parisDep, mvArr: lyonArr2,
			distance: 40,
			dates:    DateCheck{Compatible: true, DiffDays: 10},
			want:     TypePartial,
		},
		{
			name:   "different city, route too far",
			reqDep: lilleDep, reqArr: lyonArr, mvDep: parisDep, mvArr: lyonArr2,
			distance: 90,
			dates:    DateCheck{Compatible: true, DiffDays: 2},
			want:     TypePartial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := fixedRequest(tt.reqDep, tt.reqArr, desired, 10)
			m := testMove(tt.mvDep, tt.mvArr, desired, 40, 0)
			assert.Equal(t, tt.want, Classify(r, m, tt.distance, tt.dates))
		})
	}
}

func TestClassify_CityComparisonIsCaseInsensitive(t *testing.T) {
	r := fixedRequest(
		types.Address{Postal: "75001", City: "PARIS"},
		types.Address{Postal: "69001", City: "lyon "},
		day(2025, time.June, 10), 10,
	)
	m := testMove(
		types.Address{Postal: "75002", City: "paris"},
		types.Address{Postal: "69002", City: " Lyon"},
		day(2025, time.June, 11), 40, 0,
	)
	got := Classify(r, m, 10, DateCheck{Compatible: true, DiffDays: 1})
	assert.Equal(t, TypePerfect, got)
}

func TestClassify_Deterministic(t *testing.T) {
	r := fixedRequest(parisDep, lyonArr, day(2025, time.June, 10), 10)
	m := testMove(parisDep2, lyonArr2, day(2025, time.June, 12), 40, 0)
	dates := DateCheck{Compatible: true, DiffDays: 2}

	first := Classify(r, m, 30, dates)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Classify(r, m, 30, dates))
	}
	assert.Equal(t, TypePerfect, first)
}
