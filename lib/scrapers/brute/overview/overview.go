// Package overview scrapes a course overview page into its parallels,
// students and per-assignment submission cells.
//
// The page carries no id-based addressing, the only structural signal is
// the document order of its anchor elements: a contiguous run of tab
// selectors, then per tab pane a quick-evaluation header, a run of
// assignment columns, and for each student the row of submission cells
// immediately followed by the student's profile link. Scraping is a
// two-pass affair: pass one flattens the page into an indexed anchor
// list (htmlutil.GetAnchors), pass two walks the list with the explicit
// phase scans below.
package overview

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/jdupak/FEL-PSBrute/lib/htmlutil"
	"github.com/jdupak/FEL-PSBrute/lib/scrapers/brute/core"
	"github.com/jdupak/FEL-PSBrute/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/brute/overview")

const tabToggle = "tab"

var studentUrlRegex = regexp.MustCompile(`/brute/teacher/student/([^/?#]+)`)

// fixed markup fragments the portal renders into a submission cell
var (
	aeScoreRegex     = regexp.MustCompile(`class="ae-score">(-?[0-9.]+)<`)
	manualScoreRegex = regexp.MustCompile(`class="manual-score">(-?[0-9.]+)<`)
	penaltyRegex     = regexp.MustCompile(`class="penalty">(-?[0-9.]+)<`)
	notSubmittedFrag = `class="not-submitted"`
)

// OptionalScore is a numeric cell fragment that may be absent.
type OptionalScore struct {
	Value   float64
	Present bool
}

// SubmissionInfo is a read-only snapshot of one student x assignment
// cell.
type SubmissionInfo struct {
	Submitted   bool
	AEScore     OptionalScore
	ManualScore OptionalScore
	Penalty     OptionalScore
	// direct url of the submission review page
	Href string
}

// Student is a plain immutable value, lookups that need course context
// take the owning Parallel explicitly.
type Student struct {
	Username string
	Name     string
	Href     string

	// index of the student's first submission-cell anchor
	firstCellIdx int
}

// CourseTable is one fetched course overview page. It is created with
// exactly one GET and never re-fetched, every derived collection is a
// view of that frozen snapshot, computed at most once.
type CourseTable struct {
	CourseId string

	anchors   []htmlutil.Anchor
	parallels []*Parallel
}

// FetchCourse issues the single GET the table is built from.
func FetchCourse(ctx context.Context, client *core.Client, courseId string) (*CourseTable, error) {
	ctx, span := tracer.Start(ctx, "FetchCourse")
	defer span.End()

	res, err := client.Get(ctx, "/brute/teacher/course/"+courseId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch course page")
		return nil, err
	}
	if res.StatusCode() != http.StatusOK {
		err := fmt.Errorf("unexpected status %s fetching course page", res.Status())
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	anchors := htmlutil.GetAnchors(doc.Find("a"))
	slog.DebugContext(ctx, "fetched course page", "course", courseId, "anchors", len(anchors))

	return &CourseTable{
		CourseId: courseId,
		anchors:  anchors,
	}, nil
}

// Parallels returns the course's teaching groups in page order.
func (t *CourseTable) Parallels() []*Parallel {
	if t.parallels != nil {
		return t.parallels
	}

	// the tab selectors are a contiguous run, the first non-matching
	// anchor after a match ends it
	parallels := []*Parallel{}
	for _, a := range t.anchors {
		matches := a.Parallel.Present && a.Toggle.Value == tabToggle
		if !matches {
			if len(parallels) > 0 {
				break
			}
			continue
		}
		parallels = append(parallels, &Parallel{
			TabId:   a.Parallel.Value,
			Label:   a.Name,
			anchors: t.anchors,
		})
	}

	t.parallels = parallels
	return t.parallels
}

// Parallel finds a teaching group by its tab id.
func (t *CourseTable) Parallel(tabId string) (*Parallel, error) {
	for _, p := range t.Parallels() {
		if p.TabId == tabId {
			return p, nil
		}
	}
	return nil, core.NotFoundError{Kind: "parallel", Name: tabId}
}

// Parallel is one teaching group's tab pane, a lazily-populated view of
// the course page snapshot it was discovered on.
type Parallel struct {
	TabId string
	Label string

	// the frozen course-page anchor list the pane is addressed into
	anchors []htmlutil.Anchor

	assignments       []string
	lastAssignmentIdx int
	assignmentsDone   bool

	students     []Student
	studentsDone bool
	studentsErr  error
}

// Assignments returns the pane's assignment column titles in page
// order.
func (p *Parallel) Assignments() []string {
	if p.assignmentsDone {
		return p.assignments
	}

	// assignment anchors carry the owning tab id and a title, again a
	// contiguous run
	p.assignments = []string{}
	for i, a := range p.anchors {
		matches := a.Parallel.Value == p.TabId && a.Title.Present
		if !matches {
			if len(p.assignments) > 0 {
				break
			}
			continue
		}
		p.assignments = append(p.assignments, a.Title.Value)
		p.lastAssignmentIdx = i
	}

	p.assignmentsDone = true
	return p.assignments
}

// Students returns the pane's students in page order. A student's
// submission cells are the assignment-count anchors immediately
// preceding the student's profile link, so the cell row is addressed by
// back-calculating from the link's index.
func (p *Parallel) Students() ([]Student, error) {
	if p.studentsDone {
		return p.students, p.studentsErr
	}
	p.studentsDone = true

	assignmentCount := len(p.Assignments())
	start := p.lastAssignmentIdx + 1
	if assignmentCount == 0 {
		start = 0
	}

	p.students = []Student{}
	for i := start; i < len(p.anchors); i++ {
		a := p.anchors[i]
		// the quick-evaluation modal trigger opens the next tab pane
		if a.Target.Present {
			break
		}
		groups := studentUrlRegex.FindStringSubmatch(a.Href)
		if groups == nil {
			continue
		}
		if i-assignmentCount < start {
			p.studentsErr = core.FormatError{
				Missing: fmt.Sprintf("submission cells before student %q", groups[1]),
			}
			p.students = nil
			return nil, p.studentsErr
		}
		p.students = append(p.students, Student{
			Username:     groups[1],
			Name:         a.Name,
			Href:         a.Href,
			firstCellIdx: i - assignmentCount,
		})
	}
	return p.students, nil
}

// Student finds a student by username.
func (p *Parallel) Student(username string) (Student, error) {
	students, err := p.Students()
	if err != nil {
		return Student{}, err
	}
	for _, s := range students {
		if s.Username == username {
			return s, nil
		}
	}
	return Student{}, core.NotFoundError{Kind: "student", Name: username}
}

func (p *Parallel) assignmentIndex(name string) (int, error) {
	key := textutil.NormalizeName(name)
	for i, a := range p.Assignments() {
		if textutil.NormalizeName(a) == key {
			return i, nil
		}
	}
	return 0, core.NotFoundError{Kind: "assignment", Name: name}
}

// SubmissionInfo decodes the cell of a student x assignment pair.
func (p *Parallel) SubmissionInfo(student Student, assignment string) (SubmissionInfo, error) {
	idx, err := p.assignmentIndex(assignment)
	if err != nil {
		return SubmissionInfo{}, err
	}
	cell := p.anchors[student.firstCellIdx+idx]
	return decodeCell(cell)
}

func matchScore(re *regexp.Regexp, markup string) OptionalScore {
	groups := re.FindStringSubmatch(markup)
	if groups == nil {
		return OptionalScore{}
	}
	value, err := strconv.ParseFloat(groups[1], 64)
	if err != nil {
		return OptionalScore{}
	}
	return OptionalScore{Value: value, Present: true}
}

func decodeCell(cell htmlutil.Anchor) (SubmissionInfo, error) {
	info := SubmissionInfo{
		AEScore:     matchScore(aeScoreRegex, cell.Markup),
		ManualScore: matchScore(manualScoreRegex, cell.Markup),
		Penalty:     matchScore(penaltyRegex, cell.Markup),
		Href:        cell.Href,
	}
	info.Submitted = info.AEScore.Present || info.ManualScore.Present || info.Penalty.Present

	if !info.Submitted && !strings.Contains(cell.Markup, notSubmittedFrag) {
		return SubmissionInfo{}, core.FormatError{
			Missing: "score fragments or not-submitted placeholder in cell",
		}
	}
	return info, nil
}
