package ai

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

var (
	paramsPattern  = regexp.MustCompile(`(?i)(?:(\d+)x)?(\d+(?:\.\d+)?)b\b`)
	versionPattern = regexp.MustCompile(`\d+(?:\.\d+)*`)
)

// Ids containing these never serve chat completions.
var nonChatMarkers = []string{"whisper", "tts", "embed", "guard", "moderation", "dall-e", "playai"}

// ChatCandidates drops models already tried and models that are not chat models.
func ChatCandidates(models []string, tried map[string]bool) []string {
	return lo.Uniq(lo.Filter(models, func(id string, _ int) bool {
		if strings.TrimSpace(id) == "" || tried[id] {
			return false
		}
		lower := strings.ToLower(id)
		return !lo.SomeBy(nonChatMarkers, func(marker string) bool {
			return strings.Contains(lower, marker)
		})
	}))
}

// RankModels orders candidates best first: ids matching an earlier preference
// pattern win, then larger parameter counts, then newer version numbers.
func RankModels(models []string, preferences []string) []string {
	type scored struct {
		id      string
		pref    int
		params  float64
		version []int
	}
	items := lo.Map(models, func(id string, _ int) scored {
		return scored{
			id:      id,
			pref:    preferenceRank(id, preferences),
			params:  parameterCount(id),
			version: versionOf(id),
		}
	})
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.pref != b.pref {
			return a.pref < b.pref
		}
		if a.params != b.params {
			return a.params > b.params
		}
		if c := compareVersions(a.version, b.version); c != 0 {
			return c > 0
		}
		return a.id < b.id
	})
	return lo.Map(items, func(s scored, _ int) string { return s.id })
}

func preferenceRank(id string, preferences []string) int {
	lower := strings.ToLower(id)
	_, idx, ok := lo.FindIndexOf(preferences, func(p string) bool {
		return p != "" && strings.Contains(lower, strings.ToLower(p))
	})
	if !ok {
		return len(preferences)
	}
	return idx
}

// parameterCount reads sizes such as "70b" or "8x7b" (56) from a model id.
func parameterCount(id string) float64 {
	m := paramsPattern.FindStringSubmatch(id)
	if m == nil {
		return 0
	}
	size, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0
	}
	if m[1] != "" {
		experts, err := strconv.Atoi(m[1])
		if err == nil {
			size *= float64(experts)
		}
	}
	return size
}

func versionOf(id string) []int {
	m := versionPattern.FindString(id)
	if m == "" {
		return nil
	}
	return lo.Map(strings.Split(m, "."), func(part string, _ int) int {
		n, _ := strconv.Atoi(part)
		return n
	})
}

func compareVersions(a, b []int) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if x != y {
			if x > y {
				return 1
			}
			return -1
		}
	}
	return 0
}
