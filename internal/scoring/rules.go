package scoring

import (
	"strings"

	"github.com/mkoval/jobscout/internal/jobs"
	"github.com/mkoval/jobscout/internal/resume"
)

// Breakdown carries the per-factor sub-scores of a single job/resume pair.
// Every sub-score is in [0,1]; Final is in [0,100]. Only Final is attached to
// the job, the rest exists for explainability and testing.
type Breakdown struct {
	Skills     float64
	Experience float64
	Education  float64
	Location   float64
	Title      float64
	Salary     float64

	// Rule is the weighted sum of the sub-scores above, in [0,1].
	Rule float64

	// Semantic is nil when no semantic matcher was available for the run.
	Semantic     *float64
	SemanticPath string

	Final int
}

// Buckets holds the seniority bucket boundaries, in years of experience.
// The boundaries are configuration so the scorer stays testable with
// synthetic thresholds.
type Buckets struct {
	EntryMax  int `mapstructure:"entry-max"`
	MidMin    int `mapstructure:"mid-min"`
	MidMax    int `mapstructure:"mid-max"`
	SeniorMin int `mapstructure:"senior-min"`
}

func DefaultBuckets() Buckets {
	return Buckets{EntryMax: 2, MidMin: 2, MidMax: 6, SeniorMin: 5}
}

const (
	bucketEntry = iota
	bucketMid
	bucketSenior
)

var (
	entryKeywords  = []string{"junior", "entry level", "entry-level", "intern", "0-2 years", "1-2 years", "recent graduate", "new grad"}
	seniorKeywords = []string{"senior", "lead", "principal", "staff", "5+ years", "7+ years", "expert", "advanced"}

	degreeKeywordsBachelor = []string{"degree", "bachelor", "bsc", "graduate"}
	degreeKeywordsMaster   = []string{"master", "msc", "graduate degree", "postgraduate"}
	degreeKeywordsPhD      = []string{"phd", "doctorate", "doctoral"}

	remoteKeywords = []string{"remote", "anywhere", "worldwide"}
)

// RuleScorer computes the deterministic, structured-field part of the match
// score.
type RuleScorer struct {
	weights    Weights
	buckets    Buckets
	normalizer *SkillNormalizer

	// salaryTolerance is the fraction of the stated range width over which
	// credit decays linearly to zero outside the range.
	salaryTolerance float64
}

func NewRuleScorer(weights Weights, buckets Buckets, normalizer *SkillNormalizer) *RuleScorer {
	return &RuleScorer{
		weights:         weights,
		buckets:         buckets,
		normalizer:      normalizer,
		salaryTolerance: 0.25,
	}
}

// Score computes the six rule sub-scores and their weighted sum. Missing data
// never fails a pair: an absent constraint scores 1.0 (unconstrained), per
// the recovery rules of the engine.
func (s *RuleScorer) Score(job *jobs.Job, profile *resume.Profile) Breakdown {
	b := Breakdown{
		Skills:     s.skillsScore(job.RequiredSkills, profile.Skills),
		Experience: s.experienceScore(job, profile.YearsOfExperience()),
		Education:  s.educationScore(job.Description, profile.Education),
		Location:   s.locationScore(job.Location, profile.Location),
		Title:      s.titleScore(job.Title, profile.CurrentPosition()),
		Salary:     s.salaryScore(job.SalaryRange, profile.SalaryExpectation),
	}

	b.Rule = clamp01(b.Skills*s.weights.Skills +
		b.Experience*s.weights.Experience +
		b.Education*s.weights.Education +
		b.Location*s.weights.Location +
		b.Title*s.weights.Title +
		b.Salary*s.weights.Salary)

	return b
}

// skillsScore is the fraction of the job's required skills present in the
// resume, after both sides are canonicalized. A job without required skills
// is unconstrained and scores 1.0.
func (s *RuleScorer) skillsScore(jobSkills, resumeSkills []string) float64 {
	required := s.normalizer.NormalizeSet(jobSkills)
	if len(required) == 0 {
		return 1.0
	}

	have := s.normalizer.NormalizeSet(resumeSkills)
	matched := 0
	for skill := range required {
		if _, ok := have[skill]; ok {
			matched++
		}
	}

	return float64(matched) / float64(len(required))
}

// experienceScore compares the candidate's seniority bucket against the
// bucket inferred from the job title and description. Exact bucket match
// scores 1.0, one bucket apart 0.5, two apart 0.0.
func (s *RuleScorer) experienceScore(job *jobs.Job, years int) float64 {
	text := strings.ToLower(job.Title + " " + job.Description)
	if strings.TrimSpace(text) == "" {
		return 1.0
	}

	jobBucket := bucketMid
	switch {
	case containsAny(text, entryKeywords):
		jobBucket = bucketEntry
	case containsAny(text, seniorKeywords):
		jobBucket = bucketSenior
	}

	// The default boundaries overlap (mid 2-6, senior 5+); an explicit mid
	// range wins inside the overlap.
	candidateBucket := bucketMid
	switch {
	case years >= s.buckets.MidMin && years <= s.buckets.MidMax:
		candidateBucket = bucketMid
	case years >= s.buckets.SeniorMin:
		candidateBucket = bucketSenior
	case years <= s.buckets.EntryMax:
		candidateBucket = bucketEntry
	}

	distance := jobBucket - candidateBucket
	if distance < 0 {
		distance = -distance
	}

	switch distance {
	case 0:
		return 1.0
	case 1:
		return 0.5
	default:
		return 0.0
	}
}

// educationScore checks whether the resume holds a degree at or above the
// level the job description implies. One level below earns half credit.
func (s *RuleScorer) educationScore(description string, education []resume.EducationEntry) float64 {
	required := requiredDegreeLevel(description)
	if required == 0 {
		return 1.0
	}

	held := 0
	for _, entry := range education {
		if level := degreeLevel(entry.Degree); level > held {
			held = level
		}
	}

	switch {
	case held >= required:
		return 1.0
	case held == required-1:
		return 0.5
	default:
		return 0.0
	}
}

// Degree levels: 0 none, 1 bachelor, 2 master, 3 phd.
func requiredDegreeLevel(description string) int {
	text := strings.ToLower(description)
	switch {
	case containsAny(text, degreeKeywordsPhD):
		return 3
	case containsAny(text, degreeKeywordsMaster):
		return 2
	case containsAny(text, degreeKeywordsBachelor):
		return 1
	default:
		return 0
	}
}

func degreeLevel(degree string) int {
	text := strings.ToLower(degree)
	switch {
	case containsAny(text, degreeKeywordsPhD):
		return 3
	case containsAny(text, []string{"master", "msc", "postgraduate", "mba"}):
		return 2
	case containsAny(text, []string{"bachelor", "bsc", "beng", "undergraduate"}):
		return 1
	default:
		return 0
	}
}

// locationScore gives full credit for exact or remote matches and half
// credit when the two locations share a region token.
func (s *RuleScorer) locationScore(jobLocation, resumeLocation string) float64 {
	jobLoc := strings.ToLower(strings.TrimSpace(jobLocation))
	resumeLoc := strings.ToLower(strings.TrimSpace(resumeLocation))

	if jobLoc == "" || resumeLoc == "" {
		return 1.0
	}

	if jobLoc == resumeLoc || containsAny(jobLoc, remoteKeywords) || containsAny(resumeLoc, remoteKeywords) {
		return 1.0
	}

	jobTokens := tokenSet(jobLoc)
	for token := range tokenSet(resumeLoc) {
		if _, ok := jobTokens[token]; ok {
			return 0.5
		}
	}

	return 0.0
}

// titleScore is the token-overlap ratio between the resume's current
// position and the job title: shared tokens over total unique tokens, stop
// words removed.
func (s *RuleScorer) titleScore(jobTitle, currentPosition string) float64 {
	jobTokens := tokenSet(jobTitle)
	positionTokens := tokenSet(currentPosition)

	if len(jobTokens) == 0 || len(positionTokens) == 0 {
		return 1.0
	}

	shared := 0
	union := len(jobTokens)
	for token := range positionTokens {
		if _, ok := jobTokens[token]; ok {
			shared++
			continue
		}
		union++
	}

	return float64(shared) / float64(union)
}

// salaryScore is non-constraining (1.0) when either side lacks salary data.
// An expectation inside the stated range scores 1.0; outside, credit decays
// linearly to zero over the tolerance band.
func (s *RuleScorer) salaryScore(salary *jobs.SalaryRange, expectation *float64) float64 {
	if salary == nil || expectation == nil {
		return 1.0
	}

	min, max := salary.Min, salary.Max
	if min <= 0 && max <= 0 {
		return 1.0
	}
	if min <= 0 {
		min = max
	}
	if max <= 0 {
		max = min
	}

	want := *expectation
	if want >= min && want <= max {
		return 1.0
	}

	band := (max - min) * s.salaryTolerance
	if band <= 0 {
		band = max * s.salaryTolerance
	}
	if band <= 0 {
		return 0.0
	}

	var distance float64
	if want < min {
		distance = min - want
	} else {
		distance = want - max
	}

	return clamp01(1.0 - distance/band)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
