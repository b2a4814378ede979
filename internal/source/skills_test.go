package source

import (
	"reflect"
	"testing"
)

func TestExtractSkills(t *testing.T) {
	t.Parallel()

	t.Run("known tokens are found and sorted", func(t *testing.T) {
		text := "We use Python and Docker. python experience required. Backend role."
		got := ExtractSkills(text)
		want := []string{"backend", "docker", "python"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("word boundaries are respected", func(t *testing.T) {
		// "Going" and "Javan" must not match Go or Java.
		got := ExtractSkills("Going to Javan islands")
		if len(got) != 0 {
			t.Fatalf("expected no skills, got %v", got)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		if got := ExtractSkills(""); got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})
}

func TestAppendUnique(t *testing.T) {
	t.Parallel()

	skills := []string{"python", "docker"}

	skills = AppendUnique(skills, "DevOps")
	if !reflect.DeepEqual(skills, []string{"python", "docker", "devops"}) {
		t.Fatalf("unexpected append result: %v", skills)
	}

	skills = AppendUnique(skills, "Python")
	if len(skills) != 3 {
		t.Fatalf("expected duplicate to be skipped, got %v", skills)
	}

	skills = AppendUnique(skills, "   ")
	if len(skills) != 3 {
		t.Fatalf("expected blank to be skipped, got %v", skills)
	}
}
