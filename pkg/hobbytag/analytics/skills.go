package analytics

import "math"

// SkillCategory groups rating dimensions into one summary axis
type SkillCategory struct {
	Key        string
	Label      string
	Dimensions []string
}

// SkillCategories are the four summary axes over the IVIS rating keys
var SkillCategories = []SkillCategory{
	{
		Key:   "build",
		Label: "Build",
		Dimensions: []string{
			"programming",
			"code_repository",
			"computer_graphics_programming",
			"human_computer_interaction_programming",
		},
	},
	{
		Key:        "think_vis",
		Label:      "Think + Vis",
		Dimensions: []string{"statistical", "mathematics", "information_visualization"},
	},
	{
		Key:        "design",
		Label:      "Design",
		Dimensions: []string{"user_experience_evaluation", "drawing_and_artistic"},
	},
	{
		Key:        "team_collaboration",
		Label:      "Team Collaboration",
		Dimensions: []string{"communication", "collaboration"},
	},
}

// RatingLookup reads one rating field
type RatingLookup interface {
	Get(key string) (float64, bool)
}

// FieldMean is the mean of one rating field. Mean is nil when no respondent
// had a valid value.
type FieldMean struct {
	Key   string   `json:"key"`
	Mean  *float64 `json:"mean"`
	Count int      `json:"count"`
}

// CategoryMean pools every valid value of a category's fields
type CategoryMean struct {
	Key    string      `json:"key"`
	Label  string      `json:"label"`
	Mean   *float64    `json:"mean"`
	Count  int         `json:"count"`
	Fields []FieldMean `json:"fields"`
}

// SkillSummary is the skill_summary.json document
type SkillSummary struct {
	Respondents int            `json:"respondents"`
	Categories  []CategoryMean `json:"categories"`
}

// SkillAccumulator sums rating fields across respondents
type SkillAccumulator struct {
	categories  []SkillCategory
	sums        map[string]float64
	counts      map[string]int
	respondents int
}

// NewSkillAccumulator tracks the given categories, or SkillCategories when nil
func NewSkillAccumulator(categories []SkillCategory) *SkillAccumulator {
	if categories == nil {
		categories = SkillCategories
	}
	return &SkillAccumulator{
		categories: categories,
		sums:       make(map[string]float64),
		counts:     make(map[string]int),
	}
}

// Process adds one respondent's ratings. Non-finite values are skipped.
func (s *SkillAccumulator) Process(ratings RatingLookup) {
	s.respondents++
	for _, cat := range s.categories {
		for _, key := range cat.Dimensions {
			v, ok := ratings.Get(key)
			if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			s.sums[key] += v
			s.counts[key]++
		}
	}
}

// Summary returns category and field means rounded to two decimals
func (s *SkillAccumulator) Summary() SkillSummary {
	out := SkillSummary{Respondents: s.respondents}
	for _, cat := range s.categories {
		cm := CategoryMean{Key: cat.Key, Label: cat.Label}
		var catSum float64
		for _, key := range cat.Dimensions {
			n := s.counts[key]
			fm := FieldMean{Key: key, Count: n}
			if n > 0 {
				fm.Mean = mean(s.sums[key], n)
			}
			catSum += s.sums[key]
			cm.Count += n
			cm.Fields = append(cm.Fields, fm)
		}
		if cm.Count > 0 {
			cm.Mean = mean(catSum, cm.Count)
		}
		out.Categories = append(out.Categories, cm)
	}
	return out
}

func mean(sum float64, n int) *float64 {
	m := math.Floor(sum/float64(n)*100+0.5) / 100
	return &m
}
