package spintax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dealerhub/seo-engine/internal/models"
	"github.com/dealerhub/seo-engine/internal/spintax"
)

func TestProcess(t *testing.T) {
	templates := models.ContentTemplates{
		"adjective": "great|reliable|affordable",
		"noun":      "car|vehicle",
	}

	testCases := []struct {
		name     string
		template string
		data     models.ContentData
		want     string
	}{
		{
			name:     "single index picks one alternative",
			template: "A {adjective} {noun}",
			data:     models.ContentData{"adjective": []int{1}, "noun": []int{0}},
			want:     "A reliable car",
		},
		{
			name:     "multiple indices concatenate in stored order",
			template: "{adjective}",
			data:     models.ContentData{"adjective": []int{2, 0}},
			want:     "affordablegreat",
		},
		{
			name:     "out of range indices are skipped",
			template: "{noun}",
			data:     models.ContentData{"noun": []int{5, 1, -1}},
			want:     "vehicle",
		},
		{
			name:     "key without stored data stays untouched",
			template: "A {adjective} {color} {noun}",
			data:     models.ContentData{"adjective": []int{0}, "noun": []int{1}},
			want:     "A great {color} vehicle",
		},
		{
			name:     "empty data returns template as-is",
			template: "A {adjective} {noun}",
			data:     models.ContentData{},
			want:     "A {adjective} {noun}",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := spintax.Process(tc.template, templates, tc.data)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestProcessIsDeterministic(t *testing.T) {
	templates := models.ContentTemplates{"greeting": "hello|hi|hey"}
	data := models.ContentData{"greeting": []int{2, 0, 1}}

	first := spintax.Process("{greeting} world", templates, data)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, spintax.Process("{greeting} world", templates, data))
	}
}

func TestChooseIndices(t *testing.T) {
	templates := models.ContentTemplates{
		"adjective": "great|reliable|affordable",
		"noun":      "car|vehicle",
	}

	first := spintax.ChooseIndices(templates, 2, 42)
	second := spintax.ChooseIndices(templates, 2, 42)
	assert.Equal(t, first, second, "same seed must pick the same indices")

	for key, indices := range first {
		assert.Len(t, indices, 2)
		for _, idx := range indices {
			assert.GreaterOrEqual(t, idx, 0, "index for %s", key)
		}
	}
	for _, idx := range first["noun"] {
		assert.Less(t, idx, 2)
	}
}
