// Package review scrapes a submission review page into an editable
// record and replays the edited record as a form submission the portal
// accepts as a legitimate interactive edit.
package review

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/jdupak/FEL-PSBrute/lib/scrapers/brute/core"
)

// wire encoding of the acceptability flag
const (
	StatusAccepted = "0"
	StatusRejected = "1"
)

// TextField is a rich-text form field. Raw means the value is literal
// page content never written by this tool, it must be transmitted
// verbatim instead of re-encoded.
type TextField struct {
	Value string
	Raw   bool
}

// Record is the editable state of one student's submission. It is only
// ever constructed by Scrape and lives for a single submit round-trip.
type Record struct {
	UploadId     string
	SubmissionId string
	AssignmentId string
	CourseId     string
	TeamId       string
	StudentId    string

	// upload page path, also the resubmission endpoint
	PageUrl    string
	ArchiveUrl string
	OutputUrl  string

	// read-only, produced by the automated evaluator
	AEScore float64

	// score fields carry wire values, empty means absent
	ManualScore string
	Penalty     string
	Score       string
	Status      string

	Evaluation TextField
	Note       TextField

	// hidden form state the server requires to treat the POST as the
	// same session/entity, passed through untouched
	hidden url.Values
}

func (r *Record) Accepted() bool {
	return r.Status == StatusAccepted
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseScore(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// rounded to 4 decimal places, half away from zero, to suppress
// floating-point noise in the submitted value
func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}

// SetScore updates the manual score and penalty and recomputes the
// derived total and acceptability. A nil manual score clears the total
// and rejects the submission. The penalty is an additive signed delta,
// a deduction is entered as a negative number. Returns whether the
// submission is accepted afterwards.
func (r *Record) SetScore(manual, penalty *float64) bool {
	if penalty != nil {
		r.Penalty = formatScore(*penalty)
	}

	if manual == nil {
		r.ManualScore = ""
		r.Score = ""
		r.Status = StatusRejected
		return false
	}
	r.ManualScore = formatScore(*manual)

	score := round4(parseScore(r.ManualScore) + parseScore(r.Penalty) + r.AEScore)
	r.Score = formatScore(score)
	if score < 0 {
		r.Status = StatusRejected
	} else {
		r.Status = StatusAccepted
	}
	return r.Status == StatusAccepted
}

// SetPenalty updates the penalty alone, keeping the recorded manual
// score and recomputing the total from it. On a record with no manual
// score it behaves like clearing, the submission stays rejected.
func (r *Record) SetPenalty(penalty float64) bool {
	if r.ManualScore == "" {
		return r.SetScore(nil, &penalty)
	}
	manual := parseScore(r.ManualScore)
	return r.SetScore(&manual, &penalty)
}

// SetEvaluation overwrites the evaluation text. The supplied text
// becomes the source of truth and is re-rendered on submit.
func (r *Record) SetEvaluation(text string) {
	r.Evaluation = TextField{Value: text}
}

// SetNote overwrites the note. A note containing a closing textarea tag
// would corrupt the host page's markup, so it is rejected.
func (r *Record) SetNote(text string) error {
	if strings.Contains(strings.ToLower(text), "</textarea") {
		return core.ValidationError{
			Reason: "note must not contain a closing textarea tag",
		}
	}
	r.Note = TextField{Value: text}
	return nil
}
