// Package scoring provides the reproducibility rubric model and a
// client for the external grading service.
package scoring

import "math"

// Grade values assigned to each rubric dimension.
const (
	GradeComplete      = "Complete"
	GradePartial       = "Partial"
	GradeNotPresent    = "Not Present"
	GradeNotApplicable = "Not Applicable"
)

// Rubric dimensions checked for data and code availability.
const (
	DimensionDataDownload = "Data Download"
	DimensionLinkToCode   = "Link to Code"
)

// RubricDimensions are the NLP reproducibility rubric fields graded by
// the scoring service.
var RubricDimensions = []string{
	"Model Description",
	"Link to Code",
	"Infrastructure",
	"Runtime",
	"Parameters",
	"Validation Performance",
	"Metrics",
	"Number of Training/Eval Runs",
	"Hyperparameter Bounds",
	"Hyperparameter Best Config",
	"Hyperparameter Search",
	"Hyperparameter Method",
	"Expected Performance",
	"Data Statistics",
	"Data Split",
	"Data Processing",
	"Data Download",
	"New Data Description",
	"Data Languages",
}

// gradePoints maps grades to their score contribution. Not Applicable
// counts as full credit so inapplicable dimensions don't penalize.
var gradePoints = map[string]float64{
	GradeComplete:      1,
	GradePartial:       0.5,
	GradeNotPresent:    0,
	GradeNotApplicable: 1,
}

// ValidGrade reports whether g is one of the defined grade values.
func ValidGrade(g string) bool {
	_, ok := gradePoints[g]
	return ok
}

// Scorecard is a graded reproducibility rubric for one paper.
type Scorecard struct {
	PaperID   string            `json:"paper_id"`
	Rubric    map[string]string `json:"graded_rubric"`
	Score     float64           `json:"graded_rubric_score"`
	Timestamp string            `json:"analysis_timestamp,omitempty"`
}

// ScalarScore computes the [0,1] score for a graded rubric: points
// earned over points possible across all dimensions. Missing or
// invalid grades earn zero points.
func ScalarScore(rubric map[string]string) float64 {
	if len(RubricDimensions) == 0 {
		return 0
	}
	var points float64
	for _, dim := range RubricDimensions {
		points += gradePoints[rubric[dim]]
	}
	return points / float64(len(RubricDimensions))
}

// DisplayScore returns the 0-100 form of the scalar score.
func (s *Scorecard) DisplayScore() int {
	return int(math.Round(s.Score * 100))
}

// Assessment returns the free-text summary the grader attaches to the
// rubric, if any.
func (s *Scorecard) Assessment() string {
	return s.Rubric["Assessment"]
}

// DataAvailable reports whether the paper's data is at least partially
// available, per the Data Download dimension.
func (s *Scorecard) DataAvailable() bool {
	return dimensionSatisfied(s.Rubric, DimensionDataDownload)
}

// CodeAvailable reports whether the paper links to code, per the Link
// to Code dimension.
func (s *Scorecard) CodeAvailable() bool {
	return dimensionSatisfied(s.Rubric, DimensionLinkToCode)
}

// dimensionSatisfied reports whether a dimension was graded with a
// valid grade other than Not Present.
func dimensionSatisfied(rubric map[string]string, dim string) bool {
	grade, ok := rubric[dim]
	return ok && ValidGrade(grade) && grade != GradeNotPresent
}
