package ranking

import (
	"testing"
	"time"
)

// testNow is a fixed reference time so signal tests are reproducible.
var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func intPtr(n int) *int { return &n }

func testViewer() *ViewerContext {
	return &ViewerContext{
		ID:                "viewer1",
		Skills:            NewSet("Sales", "Excel"),
		City:              "Lagos",
		State:             "Lagos State",
		ExperienceYears:   2,
		Industry:          "Retail",
		Role:              RoleSeeker,
		DirectConnections: NewSet("conn1", "conn2"),
		Following:         NewSet("followed1"),
	}
}

// TestScoreJob_SkillAndLocation covers the worked example: one skill match
// plus a city match scores 20 + 30 = 50.
func TestScoreJob_SkillAndLocation(t *testing.T) {
	job := &JobCandidate{
		ID:             "job1",
		RequiredSkills: []string{"Sales", "Retail"},
		City:           "Lagos",
		CreatedAt:      testNow.Add(-30 * 24 * time.Hour), // outside recency window
	}

	score, breakdown := ScoreJob(testViewer(), job, DefaultWeights().Job, testNow)

	if score != 50 {
		t.Errorf("expected score 50, got %v (breakdown %v)", score, breakdown)
	}
	if breakdown[SignalSkillOverlap] != 20 {
		t.Errorf("expected skill overlap 20, got %v", breakdown[SignalSkillOverlap])
	}
	if breakdown[SignalLocationAffinity] != 30 {
		t.Errorf("expected location affinity 30, got %v", breakdown[SignalLocationAffinity])
	}
}

// TestScoreJob_ExperienceFit covers the worked example: a range containing the
// viewer's experience contributes 25, a range above it contributes 0.
func TestScoreJob_ExperienceFit(t *testing.T) {
	tests := []struct {
		name string
		min  *int
		max  *int
		want float64
	}{
		{"within range", intPtr(0), intPtr(5), 25},
		{"below range", intPtr(5), intPtr(10), 0},
		{"no range", nil, nil, 0},
		{"half range", intPtr(0), nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := &JobCandidate{
				ID:            "job1",
				ExperienceMin: tt.min,
				ExperienceMax: tt.max,
				CreatedAt:     testNow.Add(-30 * 24 * time.Hour),
			}
			_, breakdown := ScoreJob(testViewer(), job, DefaultWeights().Job, testNow)
			if got := breakdown[SignalExperienceFit]; got != tt.want {
				t.Errorf("expected experience fit %v, got %v", tt.want, got)
			}
		})
	}
}

func TestScoreJob_RemoteCountsAsLocationMatch(t *testing.T) {
	job := &JobCandidate{
		ID:        "job1",
		City:      "Nairobi",
		State:     "Nairobi County",
		IsRemote:  true,
		CreatedAt: testNow.Add(-30 * 24 * time.Hour),
	}

	_, breakdown := ScoreJob(testViewer(), job, DefaultWeights().Job, testNow)
	if breakdown[SignalLocationAffinity] != 30 {
		t.Errorf("expected remote job to earn location affinity, got %v", breakdown[SignalLocationAffinity])
	}
}

func TestScoreJob_LocationBonusDoesNotStack(t *testing.T) {
	// City and state both match; the flat bonus must apply once.
	job := &JobCandidate{
		ID:        "job1",
		City:      "Lagos",
		State:     "Lagos State",
		CreatedAt: testNow.Add(-30 * 24 * time.Hour),
	}

	score, _ := ScoreJob(testViewer(), job, DefaultWeights().Job, testNow)
	if score != 30 {
		t.Errorf("expected non-stacking location bonus of 30, got %v", score)
	}
}

func TestScoreJob_GraphRecencyVerifiedPopularity(t *testing.T) {
	job := &JobCandidate{
		ID:         "job1",
		PostedBy:   "conn1",
		CreatedAt:  testNow.Add(-24 * time.Hour),
		ViewCount:  250,
		IsVerified: true,
	}

	score, breakdown := ScoreJob(testViewer(), job, DefaultWeights().Job, testNow)

	if breakdown[SignalGraphProximity] != 40 {
		t.Errorf("expected connection bonus 40, got %v", breakdown[SignalGraphProximity])
	}
	if breakdown[SignalRecency] != 15 {
		t.Errorf("expected recency bonus 15, got %v", breakdown[SignalRecency])
	}
	if breakdown[SignalVerificationTrust] != 10 {
		t.Errorf("expected verification bonus 10, got %v", breakdown[SignalVerificationTrust])
	}
	if breakdown[SignalPopularity] != 12.5 {
		t.Errorf("expected popularity 12.5 for 250 views, got %v", breakdown[SignalPopularity])
	}
	if want := 40.0 + 15 + 10 + 12.5; score != want {
		t.Errorf("expected score %v, got %v", want, score)
	}
}

// TestScoreJob_EmptyViewerDegrades verifies that a viewer with no skills and
// no location degrades the corresponding signals to 0 rather than erroring.
func TestScoreJob_EmptyViewerDegrades(t *testing.T) {
	viewer := &ViewerContext{ID: "viewer1"}
	job := &JobCandidate{
		ID:             "job1",
		RequiredSkills: []string{"Sales"},
		City:           "Lagos",
		CreatedAt:      testNow.Add(-24 * time.Hour),
	}

	score, breakdown := ScoreJob(viewer, job, DefaultWeights().Job, testNow)

	if _, ok := breakdown[SignalSkillOverlap]; ok {
		t.Error("expected no skill overlap for empty viewer skills")
	}
	if _, ok := breakdown[SignalLocationAffinity]; ok {
		t.Error("expected no location affinity for empty viewer location")
	}
	if score != 15 { // recency only
		t.Errorf("expected score 15, got %v", score)
	}
}

func TestScoreJob_SkillMatchIsCaseInsensitive(t *testing.T) {
	job := &JobCandidate{
		ID:             "job1",
		RequiredSkills: []string{"sales", "EXCEL"},
		CreatedAt:      testNow.Add(-30 * 24 * time.Hour),
	}

	_, breakdown := ScoreJob(testViewer(), job, DefaultWeights().Job, testNow)
	if breakdown[SignalSkillOverlap] != 40 {
		t.Errorf("expected two case-insensitive skill matches (40), got %v", breakdown[SignalSkillOverlap])
	}
}

// TestScoreJob_SkillOverlapMonotonic verifies that adding a matching skill to
// the viewer never decreases the contribution, holding all else constant.
func TestScoreJob_SkillOverlapMonotonic(t *testing.T) {
	job := &JobCandidate{
		ID:             "job1",
		RequiredSkills: []string{"Sales", "Retail", "Excel"},
		CreatedAt:      testNow.Add(-30 * 24 * time.Hour),
	}

	viewer := &ViewerContext{ID: "v", Skills: NewSet("Sales")}
	before, _ := ScoreJob(viewer, job, DefaultWeights().Job, testNow)

	viewer.Skills = NewSet("Sales", "Retail")
	after, _ := ScoreJob(viewer, job, DefaultWeights().Job, testNow)

	if after < before {
		t.Errorf("skill overlap decreased after adding a matching skill: %v -> %v", before, after)
	}
	if after != before+20 {
		t.Errorf("expected contribution to grow by 20, got %v -> %v", before, after)
	}
}

// TestScorePerson_LocationOnly covers the worked example: same city, nothing
// else shared, scores exactly 30.
func TestScorePerson_LocationOnly(t *testing.T) {
	person := &PersonCandidate{
		ID:           "person1",
		Skills:       []string{"Plumbing"},
		City:         "Lagos",
		LastActiveAt: testNow.Add(-60 * 24 * time.Hour), // outside activity window
	}

	score, _ := ScorePerson(testViewer(), person, nil, DefaultWeights().Person, testNow)
	if score != 30 {
		t.Errorf("expected score 30, got %v", score)
	}
}

// TestScorePerson_NothingShared covers the worked example: no shared
// attributes at all scores 0.
func TestScorePerson_NothingShared(t *testing.T) {
	person := &PersonCandidate{
		ID:           "person1",
		Skills:       []string{"Plumbing"},
		City:         "Nairobi",
		LastActiveAt: testNow.Add(-60 * 24 * time.Hour),
	}

	score, breakdown := ScorePerson(testViewer(), person, nil, DefaultWeights().Person, testNow)
	if score != 0 {
		t.Errorf("expected score 0, got %v (breakdown %v)", score, breakdown)
	}
}

func TestScorePerson_AllSignals(t *testing.T) {
	person := &PersonCandidate{
		ID:                 "person1",
		Skills:             []string{"Sales", "Excel"},
		City:               "Lagos",
		Industry:           "Retail",
		Role:               RoleRecruiter,
		IsIdentityVerified: true,
		LastActiveAt:       testNow.Add(-24 * time.Hour),
	}
	secondDegree := NewSet("person1")

	score, breakdown := ScorePerson(testViewer(), person, secondDegree, DefaultWeights().Person, testNow)

	want := map[string]float64{
		SignalSkillOverlap:        30, // two matches x 15
		SignalLocationAffinity:    30,
		SignalGraphProximity:      50,
		SignalIndustryMatch:       25,
		SignalRoleComplementarity: 20,
		SignalRecency:             5,
		SignalVerificationTrust:   10,
	}
	for name, contribution := range want {
		if breakdown[name] != contribution {
			t.Errorf("signal %s: expected %v, got %v", name, contribution, breakdown[name])
		}
	}
	if score != 170 {
		t.Errorf("expected total 170, got %v", score)
	}
}

func TestScorePerson_RoleComplementarityIsSymmetric(t *testing.T) {
	seeker := &PersonCandidate{ID: "p1", Role: RoleSeeker, LastActiveAt: testNow.Add(-60 * 24 * time.Hour)}
	employerViewer := testViewer()
	employerViewer.Role = RoleEmployer
	employerViewer.Skills = nil
	employerViewer.City = ""
	employerViewer.State = ""
	employerViewer.Industry = ""

	score, _ := ScorePerson(employerViewer, seeker, nil, DefaultWeights().Person, testNow)
	if score != 20 {
		t.Errorf("expected hiring viewer x seeker candidate to score 20, got %v", score)
	}

	twoSeekers := &PersonCandidate{ID: "p2", Role: RoleSeeker, LastActiveAt: testNow.Add(-60 * 24 * time.Hour)}
	employerViewer.Role = RoleSeeker
	score, _ = ScorePerson(employerViewer, twoSeekers, nil, DefaultWeights().Person, testNow)
	if score != 0 {
		t.Errorf("expected two seekers not to complement, got %v", score)
	}
}

func TestScorePost_EngagementAndBonuses(t *testing.T) {
	post := &PostCandidate{
		ID:           "post1",
		AuthorID:     "stranger",
		CreatedAt:    testNow.Add(-2 * time.Hour),
		LikeCount:    10,
		CommentCount: 4,
		HasMedia:     true,
	}

	score, breakdown := ScorePost(testViewer(), post, DefaultWeights().Feed, testNow)

	if breakdown[SignalSocialEngagement] != 32 { // 10*2 + 4*3
		t.Errorf("expected engagement 32, got %v", breakdown[SignalSocialEngagement])
	}
	if breakdown[SignalFreshnessBonus] != 20 {
		t.Errorf("expected freshness 20, got %v", breakdown[SignalFreshnessBonus])
	}
	if breakdown[SignalMediaBonus] != 10 {
		t.Errorf("expected media bonus 10, got %v", breakdown[SignalMediaBonus])
	}
	if score != 62 {
		t.Errorf("expected total 62, got %v", score)
	}
}

// TestScorePost_AuthorProximityConnectionWins verifies that the connection
// bonus takes precedence over the following bonus and the two never sum.
func TestScorePost_AuthorProximityConnectionWins(t *testing.T) {
	viewer := testViewer()
	viewer.Following = NewSet("conn1", "followed1") // conn1 is both connected and followed

	connection := &PostCandidate{ID: "p1", AuthorID: "conn1", CreatedAt: testNow.Add(-48 * time.Hour)}
	followed := &PostCandidate{ID: "p2", AuthorID: "followed1", CreatedAt: testNow.Add(-48 * time.Hour)}

	score, _ := ScorePost(viewer, connection, DefaultWeights().Feed, testNow)
	if score != 50 {
		t.Errorf("expected connection author bonus 50 (not summed with following), got %v", score)
	}

	score, _ = ScorePost(viewer, followed, DefaultWeights().Feed, testNow)
	if score != 30 {
		t.Errorf("expected followed author bonus 30, got %v", score)
	}
}

func TestWithinWindow(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"just posted", testNow, true},
		{"inside window", testNow.Add(-6 * 24 * time.Hour), true},
		{"at window edge", testNow.Add(-7 * 24 * time.Hour), false},
		{"future dated", testNow.Add(time.Hour), false},
		{"zero time", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := withinWindow(tt.t, testNow, JobRecencyWindow); got != tt.want {
				t.Errorf("withinWindow(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

// TestSignals_NonNegative sweeps a grid of partially filled candidates and
// asserts every contribution and total stays >= 0.
func TestSignals_NonNegative(t *testing.T) {
	viewers := []*ViewerContext{
		testViewer(),
		{ID: "empty"},
		{ID: "negativeish", ExperienceYears: 0},
	}

	for _, v := range viewers {
		jobs := []*JobCandidate{
			{ID: "j1"},
			{ID: "j2", ViewCount: 0},
			{ID: "j3", RequiredSkills: []string{"Sales"}, City: "Lagos", ViewCount: 9999, CreatedAt: testNow},
		}
		for _, j := range jobs {
			score, breakdown := ScoreJob(v, j, DefaultWeights().Job, testNow)
			if score < 0 {
				t.Errorf("job score negative: %v", score)
			}
			for name, c := range breakdown {
				if c < 0 {
					t.Errorf("job signal %s negative: %v", name, c)
				}
			}
		}

		score, breakdown := ScorePerson(v, &PersonCandidate{ID: "p1"}, nil, DefaultWeights().Person, testNow)
		if score < 0 {
			t.Errorf("person score negative: %v", score)
		}
		for name, c := range breakdown {
			if c < 0 {
				t.Errorf("person signal %s negative: %v", name, c)
			}
		}

		score, breakdown = ScorePost(v, &PostCandidate{ID: "po1"}, DefaultWeights().Feed, testNow)
		if score < 0 {
			t.Errorf("post score negative: %v", score)
		}
		for name, c := range breakdown {
			if c < 0 {
				t.Errorf("post signal %s negative: %v", name, c)
			}
		}
	}
}
