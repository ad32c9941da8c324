package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testTable() []NormalizedEvent {
	return []NormalizedEvent{
		{ID: "A", Title: "Fire A", Category: testWildfires, Date: time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC), Latitude: 20, Longitude: 10, Year: 2020},
		{ID: "F", Title: "Flood F", Category: testFloods, Date: time.Date(2019, 9, 3, 0, 0, 0, 0, time.UTC), Latitude: -5, Longitude: 30, Year: 2019},
		{ID: "V", Title: "Volcano V", Category: "Volcanoes", Date: time.Date(2020, 1, 9, 0, 0, 0, 0, time.UTC), Latitude: 40, Longitude: 50, Year: 2020},
		{ID: "w", Title: "lower", Category: "wildfires", Date: time.Date(2021, 3, 3, 0, 0, 0, 0, time.UTC), Latitude: 1, Longitude: 1, Year: 2021},
	}
}

func TestYears_DistinctDescending(t *testing.T) {
	assert.Equal(t, []int{2021, 2020, 2019}, Years(testTable()))
	assert.Empty(t, Years(nil))
}

func TestCategories_DistinctAscendingCaseSensitive(t *testing.T) {
	assert.Equal(t, []string{testFloods, "Volcanoes", testWildfires, "wildfires"}, Categories(testTable()))
	assert.Empty(t, Categories(nil))
}

func TestFilter_YearAndCategory(t *testing.T) {
	got := Filter(testTable(), 2020, []string{testWildfires})
	if assert.Len(t, got, 1) {
		assert.Equal(t, "A", got[0].ID)
	}
}

func TestFilter_MultipleCategories(t *testing.T) {
	got := Filter(testTable(), 2020, []string{"Volcanoes", testWildfires, testFloods})
	ids := []string{}
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"A", "V"}, ids)
}

func TestFilter_EmptyCategorySetMatchesNothing(t *testing.T) {
	assert.Empty(t, Filter(testTable(), 2020, nil))
	assert.Empty(t, Filter(testTable(), 2020, []string{}))
}

func TestFilter_IsPure(t *testing.T) {
	table := testTable()
	before := append([]NormalizedEvent(nil), table...)

	first := Filter(table, 2020, []string{testWildfires, "Volcanoes"})
	second := Filter(table, 2020, []string{testWildfires, "Volcanoes"})

	assert.Equal(t, first, second)
	assert.Equal(t, before, table, "base table must not change")

	first[0].Title = "mutated"
	assert.Equal(t, "Fire A", table[0].Title, "filtered view is a copy")
}

func TestFilter_CaseSensitiveCategories(t *testing.T) {
	got := Filter(testTable(), 2021, []string{testWildfires})
	assert.Empty(t, got)
}

func TestDefaultSelection(t *testing.T) {
	sel := DefaultSelection(testTable())
	assert.Equal(t, 2021, sel.Year)
	assert.Equal(t, Categories(testTable()), sel.Categories)

	empty := DefaultSelection(nil)
	assert.Zero(t, empty.Year)
	assert.Empty(t, empty.Categories)
}
