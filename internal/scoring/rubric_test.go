package scoring

import (
	"math"
	"testing"
)

// fullRubric builds a rubric grading every dimension with the given grade.
func fullRubric(grade string) map[string]string {
	rubric := make(map[string]string, len(RubricDimensions))
	for _, dim := range RubricDimensions {
		rubric[dim] = grade
	}
	return rubric
}

func TestScalarScore(t *testing.T) {
	tests := []struct {
		name   string
		rubric map[string]string
		want   float64
	}{
		{
			name:   "all complete",
			rubric: fullRubric(GradeComplete),
			want:   1.0,
		},
		{
			name:   "all not present",
			rubric: fullRubric(GradeNotPresent),
			want:   0.0,
		},
		{
			name:   "all partial",
			rubric: fullRubric(GradePartial),
			want:   0.5,
		},
		{
			name:   "not applicable counts as full credit",
			rubric: fullRubric(GradeNotApplicable),
			want:   1.0,
		},
		{
			name:   "missing dimensions earn zero",
			rubric: map[string]string{DimensionLinkToCode: GradeComplete},
			want:   1.0 / float64(len(RubricDimensions)),
		},
		{
			name:   "invalid grades earn zero",
			rubric: fullRubric("Excellent"),
			want:   0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScalarScore(tt.rubric)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ScalarScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDisplayScore(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{0, 0},
		{1, 100},
		{0.754, 75},
		{0.755, 76},
		{0.5, 50},
	}

	for _, tt := range tests {
		card := Scorecard{Score: tt.score}
		if got := card.DisplayScore(); got != tt.want {
			t.Errorf("DisplayScore(%v) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestAvailabilityFlags(t *testing.T) {
	tests := []struct {
		name     string
		rubric   map[string]string
		wantData bool
		wantCode bool
	}{
		{
			name: "both complete",
			rubric: map[string]string{
				DimensionDataDownload: GradeComplete,
				DimensionLinkToCode:   GradeComplete,
			},
			wantData: true,
			wantCode: true,
		},
		{
			name: "partial counts as available",
			rubric: map[string]string{
				DimensionDataDownload: GradePartial,
				DimensionLinkToCode:   GradeNotPresent,
			},
			wantData: true,
			wantCode: false,
		},
		{
			name: "not applicable counts as available",
			rubric: map[string]string{
				DimensionDataDownload: GradeNotApplicable,
				DimensionLinkToCode:   GradeNotApplicable,
			},
			wantData: true,
			wantCode: true,
		},
		{
			name:     "missing dimensions are unavailable",
			rubric:   map[string]string{},
			wantData: false,
			wantCode: false,
		},
		{
			name: "invalid grade is unavailable",
			rubric: map[string]string{
				DimensionDataDownload: "Yes",
				DimensionLinkToCode:   "Maybe",
			},
			wantData: false,
			wantCode: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := Scorecard{Rubric: tt.rubric}
			if got := card.DataAvailable(); got != tt.wantData {
				t.Errorf("DataAvailable() = %v, want %v", got, tt.wantData)
			}
			if got := card.CodeAvailable(); got != tt.wantCode {
				t.Errorf("CodeAvailable() = %v, want %v", got, tt.wantCode)
			}
		})
	}
}

func TestAssessment(t *testing.T) {
	card := Scorecard{Rubric: map[string]string{"Assessment": "Well documented."}}
	if got := card.Assessment(); got != "Well documented." {
		t.Errorf("Assessment() = %q", got)
	}

	empty := Scorecard{Rubric: map[string]string{}}
	if got := empty.Assessment(); got != "" {
		t.Errorf("Assessment() on empty rubric = %q, want empty", got)
	}
}

func TestValidGrade(t *testing.T) {
	for _, g := range []string{GradeComplete, GradePartial, GradeNotPresent, GradeNotApplicable} {
		if !ValidGrade(g) {
			t.Errorf("ValidGrade(%q) = false, want true", g)
		}
	}
	for _, g := range []string{"", "complete", "Excellent"} {
		if ValidGrade(g) {
			t.Errorf("ValidGrade(%q) = true, want false", g)
		}
	}
}

func TestRubricDimensionCount(t *testing.T) {
	if len(RubricDimensions) != 19 {
		t.Errorf("len(RubricDimensions) = %d, want 19", len(RubricDimensions))
	}
}
