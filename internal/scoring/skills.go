package scoring

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed skills.yaml
var defaultVocabulary []byte

// SkillNormalizer canonicalizes free-text skill tokens against a fixed
// vocabulary. Matching is case-insensitive and ignores surrounding
// whitespace. The normalizer is pure: the vocabulary is loaded once and never
// mutated afterwards.
type SkillNormalizer struct {
	canonical map[string]string
}

// NewSkillNormalizer builds a normalizer from the embedded default
// vocabulary.
func NewSkillNormalizer() (*SkillNormalizer, error) {
	return newSkillNormalizer(defaultVocabulary)
}

// NewSkillNormalizerFromFile builds a normalizer from a YAML vocabulary file
// of the same shape as the embedded default.
func NewSkillNormalizerFromFile(path string) (*SkillNormalizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading skill vocabulary: %w", err)
	}
	return newSkillNormalizer(data)
}

func newSkillNormalizer(data []byte) (*SkillNormalizer, error) {
	var table map[string][]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing skill vocabulary: %w", err)
	}

	canonical := make(map[string]string, len(table)*4)
	for name, aliases := range table {
		name = foldSkill(name)
		if name == "" {
			continue
		}
		canonical[name] = name
		for _, alias := range aliases {
			if alias = foldSkill(alias); alias != "" {
				canonical[alias] = name
			}
		}
	}

	return &SkillNormalizer{canonical: canonical}, nil
}

func foldSkill(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}

// Normalize maps a free-text token to its canonical vocabulary entry. The
// second return value is false when the token is not in the vocabulary.
func (n *SkillNormalizer) Normalize(token string) (string, bool) {
	name, ok := n.canonical[foldSkill(token)]
	return name, ok
}

// NormalizeSet canonicalizes a skill list into a deduplicated set. Tokens
// outside the vocabulary keep their folded form, so identical unknown skills
// on both sides still compare equal.
func (n *SkillNormalizer) NormalizeSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		folded := foldSkill(token)
		if folded == "" {
			continue
		}
		if name, ok := n.canonical[folded]; ok {
			set[name] = struct{}{}
			continue
		}
		set[folded] = struct{}{}
	}
	return set
}
