// Package spintax expands templated text with pipe-delimited alternatives.
//
// Unlike conventional spintax, which picks exactly one alternative per key,
// this expander appends the alternative at every stored index and concatenates
// them. That matches the behavior dealer content was written against, so it is
// kept as-is.
package spintax

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/dealerhub/seo-engine/internal/models"
)

// Process expands every {key} placeholder in template. A key is expanded only
// when it appears in both templates and data: the template's alternatives are
// split on "|" and the alternative at each stored index is appended in order.
// Indices out of range are skipped. Given identical data the output is
// byte-identical on every call; no randomness happens at render time.
func Process(template string, templates models.ContentTemplates, data models.ContentData) string {
	if template == "" || len(templates) == 0 || len(data) == 0 {
		return template
	}

	keys := make([]string, 0, len(templates))
	for key := range templates {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := template
	for _, key := range keys {
		indices, ok := data[key]
		if !ok {
			continue
		}

		alternatives := strings.Split(templates[key], "|")
		var picked strings.Builder
		for _, idx := range indices {
			if idx < 0 || idx >= len(alternatives) {
				continue
			}
			picked.WriteString(alternatives[idx])
		}

		result = strings.ReplaceAll(result, "{"+key+"}", picked.String())
	}

	return result
}

// ChooseIndices picks random alternative indices per template key,
// seeded so content creation is reproducible. The chosen indices are meant to
// be persisted on the entry; rendering then stays deterministic forever.
func ChooseIndices(templates models.ContentTemplates, picks int, seed int64) models.ContentData {
	if picks <= 0 {
		picks = 1
	}

	keys := make([]string, 0, len(templates))
	for key := range templates {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rng := rand.New(rand.NewSource(seed))
	data := make(models.ContentData, len(keys))
	for _, key := range keys {
		count := len(strings.Split(templates[key], "|"))
		indices := make([]int, 0, picks)
		for i := 0; i < picks; i++ {
			indices = append(indices, rng.Intn(count))
		}
		data[key] = indices
	}

	return data
}
