package ranking

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()

	if w.Job.SkillMatch != 20 || w.Job.LocationAffinity != 30 || w.Job.ExperienceFit != 25 ||
		w.Job.PostedByConnection != 40 || w.Job.Recency != 15 || w.Job.Verified != 10 ||
		w.Job.PopularityPer100 != 5 {
		t.Errorf("unexpected job defaults: %+v", w.Job)
	}
	if w.Person.SkillMatch != 15 || w.Person.SecondDegree != 50 || w.Person.Recency != 5 {
		t.Errorf("unexpected person defaults: %+v", w.Person)
	}
	if w.Feed.Like != 2 || w.Feed.Comment != 3 || w.Feed.ConnectionAuthor != 50 ||
		w.Feed.FollowedAuthor != 30 {
		t.Errorf("unexpected feed defaults: %+v", w.Feed)
	}
}

func TestLoadCalibration_EmptyPathReturnsDefaults(t *testing.T) {
	w, err := LoadCalibration("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *w != *DefaultWeights() {
		t.Errorf("expected defaults, got %+v", w)
	}
}

func TestLoadCalibration_MissingFileReturnsDefaultsWithError(t *testing.T) {
	w, err := LoadCalibration("/nonexistent/ranking.json")
	if err == nil {
		t.Error("expected an error for a missing file")
	}
	if w == nil || *w != *DefaultWeights() {
		t.Errorf("expected defaults on error, got %+v", w)
	}
}

func TestLoadCalibration_PartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calibration.json")
	content := `{
		"version": "1",
		"weights": {
			"job": {"skill_match": 25},
			"feed": {"connection_author": 60}
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write calibration file: %v", err)
	}

	w, err := LoadCalibration(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if w.Job.SkillMatch != 25 {
		t.Errorf("expected overridden job skill match 25, got %v", w.Job.SkillMatch)
	}
	if w.Job.LocationAffinity != 30 {
		t.Errorf("expected unset job field to keep default 30, got %v", w.Job.LocationAffinity)
	}
	if w.Feed.ConnectionAuthor != 60 {
		t.Errorf("expected overridden feed connection author 60, got %v", w.Feed.ConnectionAuthor)
	}
	if w.Person != DefaultWeights().Person {
		t.Errorf("expected person weights untouched, got %+v", w.Person)
	}
}

func TestLoadCalibration_MalformedJSONReturnsDefaultsWithError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calibration.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("failed to write calibration file: %v", err)
	}

	w, err := LoadCalibration(path)
	if err == nil {
		t.Error("expected an error for malformed JSON")
	}
	if w == nil || *w != *DefaultWeights() {
		t.Errorf("expected defaults on parse error, got %+v", w)
	}
}

func TestMergeCalibration_NilHandling(t *testing.T) {
	if w := MergeCalibration(nil, nil); *w != *DefaultWeights() {
		t.Errorf("nil base should produce defaults, got %+v", w)
	}

	base := DefaultWeights()
	if w := MergeCalibration(base, nil); *w != *base {
		t.Errorf("nil override should copy base, got %+v", w)
	}
}
