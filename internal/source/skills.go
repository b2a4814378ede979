package source

import (
	"regexp"
	"sort"
	"strings"
)

// Skill extraction patterns shared by all providers so extracted skill lists
// stay comparable across sources.
var skillPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:Python|JavaScript|Java|C\+\+|C#|Go|Rust|TypeScript|React|Angular|Vue|Node\.js|Django|Flask|FastAPI|AWS|Azure|GCP|Docker|Kubernetes|SQL|MongoDB|PostgreSQL|Redis|Git|Linux|Agile|Scrum)\b`),
	regexp.MustCompile(`(?i)\b(?:Frontend|Backend|Full Stack|DevOps|Data Science|Machine Learning|AI|ML|UI/UX|Product Manager|Project Manager|QA|Testing|Analytics|Business Intelligence)\b`),
}

// ExtractSkills pulls known skill tokens out of free text. The result is
// lowercased, deduplicated and sorted so repeated runs produce identical
// lists.
func ExtractSkills(text string) []string {
	if text == "" {
		return nil
	}

	seen := make(map[string]struct{})
	for _, pattern := range skillPatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			seen[strings.ToLower(match)] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil
	}

	skills := make([]string, 0, len(seen))
	for skill := range seen {
		skills = append(skills, skill)
	}
	sort.Strings(skills)
	return skills
}

// AppendUnique appends value to skills unless an equal entry (case
// insensitive) is already present.
func AppendUnique(skills []string, value string) []string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return skills
	}
	for _, skill := range skills {
		if strings.EqualFold(skill, value) {
			return skills
		}
	}
	return append(skills, value)
}
