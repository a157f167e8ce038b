package overview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jdupak/FEL-PSBrute/lib/scrapers/brute/core"
	"github.com/jdupak/FEL-PSBrute/lib/telemetry"

	"github.com/stretchr/testify/require"
)

// two parallels, two/one assignment columns, students with their cell
// rows interleaved exactly the way the portal lays the page out
const coursePage = `<html><body>
<ul class="nav">
<a data-toggle="tab" data-parallel="p101" href="#p101">Parallel 101</a>
<a data-toggle="tab" data-parallel="p102" href="#p102">Parallel 102</a>
</ul>
<a href="/brute/course-info">Course information</a>
<div class="pane">
<a data-toggle="modal" data-target="#quick-eval" href="#">Quick evaluation</a>
<a data-parallel="p101" data-title="HW 01" data-id="11" href="/brute/teacher/assignment/11">HW 01</a>
<a data-parallel="p101" data-title="HW 02" data-id="12" href="/brute/teacher/assignment/12">HW 02</a>
<a href="/brute/teacher/upload/11/9001"><span class="ae-score">5</span> <span class="manual-score">10</span> <span class="penalty">-2</span></a>
<a href="/brute/teacher/upload/12/9002"><span class="not-submitted">&mdash;</span></a>
<a href="/brute/teacher/student/novakj1">Jan Novak</a>
<a href="/brute/teacher/upload/11/9003"><span class="ae-score">3.5</span></a>
<a href="/brute/teacher/upload/12/9004"><span class="manual-score">7</span> <span class="penalty">-1</span></a>
<a href="/brute/teacher/student/svobom1">Marie Svobodova</a>
</div>
<div class="pane">
<a data-toggle="modal" data-target="#quick-eval" href="#">Quick evaluation</a>
<a data-parallel="p102" data-title="LAB 01" data-id="21" href="/brute/teacher/assignment/21">LAB 01</a>
<a href="/brute/teacher/upload/21/9101"><span class="not-submitted">&mdash;</span></a>
<a href="/brute/teacher/student/duraka1">Adam Durak</a>
</div>
</body></html>`

func fetchTable(t *testing.T, page string) *CourseTable {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/brute/teacher/course/B4B35PSR" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)

	client, err := core.NewClient(core.ClientOptions{
		BaseUrl:    srv.URL,
		Credential: core.Credential{Name: "_shibsession_test", Value: "opaque"},
	})
	require.NoError(t, err)

	table, err := FetchCourse(context.Background(), client, "B4B35PSR")
	require.NoError(t, err)
	return table
}

func TestParallels(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/brute/overview")
	defer cleanup()

	table := fetchTable(t, coursePage)

	parallels := table.Parallels()
	require.Len(t, parallels, 2)
	require.Equal(t, "p101", parallels[0].TabId)
	require.Equal(t, "Parallel 101", parallels[0].Label)
	require.Equal(t, "p102", parallels[1].TabId)

	// the discovered list is computed once and cached
	require.Same(t, parallels[0], table.Parallels()[0])

	_, err := table.Parallel("p999")
	require.ErrorAs(t, err, &core.NotFoundError{})
}

func TestAssignments(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/brute/overview")
	defer cleanup()

	table := fetchTable(t, coursePage)

	p101, err := table.Parallel("p101")
	require.NoError(t, err)
	require.Equal(t, []string{"HW 01", "HW 02"}, p101.Assignments())

	p102, err := table.Parallel("p102")
	require.NoError(t, err)
	require.Equal(t, []string{"LAB 01"}, p102.Assignments())
}

func TestStudents(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/brute/overview")
	defer cleanup()

	table := fetchTable(t, coursePage)

	p101, err := table.Parallel("p101")
	require.NoError(t, err)
	students, err := p101.Students()
	require.NoError(t, err)
	require.Len(t, students, 2)
	require.Equal(t, "novakj1", students[0].Username)
	require.Equal(t, "Jan Novak", students[0].Name)
	require.Equal(t, "svobom1", students[1].Username)

	// the scan must stop at the next pane's quick-evaluation header
	p102, err := table.Parallel("p102")
	require.NoError(t, err)
	students, err = p102.Students()
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, "duraka1", students[0].Username)

	_, err = p101.Student("nobody")
	require.ErrorAs(t, err, &core.NotFoundError{})
}

func TestSubmissionInfoGrid(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/brute/overview")
	defer cleanup()

	table := fetchTable(t, coursePage)
	p101, err := table.Parallel("p101")
	require.NoError(t, err)

	novak, err := p101.Student("novakj1")
	require.NoError(t, err)

	info, err := p101.SubmissionInfo(novak, "HW 01")
	require.NoError(t, err)
	require.True(t, info.Submitted)
	require.Equal(t, OptionalScore{Value: 5, Present: true}, info.AEScore)
	require.Equal(t, OptionalScore{Value: 10, Present: true}, info.ManualScore)
	require.Equal(t, OptionalScore{Value: -2, Present: true}, info.Penalty)
	require.Equal(t, "/brute/teacher/upload/11/9001", info.Href)

	info, err = p101.SubmissionInfo(novak, "HW 02")
	require.NoError(t, err)
	require.False(t, info.Submitted)
	require.False(t, info.AEScore.Present)
	require.Equal(t, "/brute/teacher/upload/12/9002", info.Href)

	svoboda, err := p101.Student("svobom1")
	require.NoError(t, err)

	info, err = p101.SubmissionInfo(svoboda, "HW 01")
	require.NoError(t, err)
	require.True(t, info.Submitted)
	require.Equal(t, OptionalScore{Value: 3.5, Present: true}, info.AEScore)
	require.False(t, info.ManualScore.Present)
	require.False(t, info.Penalty.Present)

	info, err = p101.SubmissionInfo(svoboda, "HW 02")
	require.NoError(t, err)
	require.True(t, info.Submitted)
	require.False(t, info.AEScore.Present)
	require.Equal(t, OptionalScore{Value: 7, Present: true}, info.ManualScore)
	require.Equal(t, OptionalScore{Value: -1, Present: true}, info.Penalty)

	p102, err := table.Parallel("p102")
	require.NoError(t, err)
	durak, err := p102.Student("duraka1")
	require.NoError(t, err)
	info, err = p102.SubmissionInfo(durak, "LAB 01")
	require.NoError(t, err)
	require.False(t, info.Submitted)

	// assignment lookup goes through name normalization
	_, err = p101.SubmissionInfo(novak, "hw01")
	require.NoError(t, err)

	_, err = p101.SubmissionInfo(novak, "HW 99")
	require.ErrorAs(t, err, &core.NotFoundError{})
}

func TestMalformedCell(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/brute/overview")
	defer cleanup()

	page := `<html><body>
<a data-toggle="tab" data-parallel="p1" href="#p1">Parallel 1</a>
<a href="/brute/course-info">Course information</a>
<a data-parallel="p1" data-title="HW 01" href="/brute/teacher/assignment/1">HW 01</a>
<a href="/brute/teacher/upload/1/1">???</a>
<a href="/brute/teacher/student/lost">Lost Soul</a>
</body></html>`

	table := fetchTable(t, page)
	p1, err := table.Parallel("p1")
	require.NoError(t, err)
	student, err := p1.Student("lost")
	require.NoError(t, err)

	_, err = p1.SubmissionInfo(student, "HW 01")
	require.ErrorAs(t, err, &core.FormatError{})
}

func TestFetchCourseUnknown(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/brute/overview")
	defer cleanup()

	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer srv.Close()

	client, err := core.NewClient(core.ClientOptions{
		BaseUrl:    srv.URL,
		Credential: core.Credential{Name: "_shibsession_test", Value: "opaque"},
	})
	require.NoError(t, err)

	_, err = FetchCourse(context.Background(), client, "NOPE")
	require.Error(t, err)
}
