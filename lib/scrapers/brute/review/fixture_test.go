package review

import (
	"fmt"
	"strings"
)

// reviewPageFixture renders a submission review page the way the portal
// does, individual pieces can be knocked out to exercise the failure
// paths.
type reviewPageFixture struct {
	hidden     map[string]string
	evaluation string
	note       string

	omitHidden      []string
	omitStudentLink bool
	omitOutputLink  bool
}

func defaultFixture() reviewPageFixture {
	return reviewPageFixture{
		hidden: map[string]string{
			"id":            "55001",
			"assignment_id": "hw01",
			"course_id":     "B4B35PSR",
			"team_id":       "t-17",
			"ae_score":      "5",
			"token":         "0a1b2c3d",
		},
		evaluation: "<p>ae output looks fine</p>",
		note:       "check the second task by hand",
	}
}

func (f reviewPageFixture) render() string {
	var b strings.Builder
	b.WriteString("<html><body><div class=\"submission\">\n")

	if !f.omitOutputLink {
		b.WriteString(`<a href="/brute/data/upload-55/output.log">AE log</a>` + "\n")
	}
	if !f.omitStudentLink {
		b.WriteString(`<a href="/brute/teacher/student/novakj1">Jan Novak</a>` + "\n")
	}

	b.WriteString("<form method=\"post\">\n")
	for name, value := range f.hidden {
		if contains(f.omitHidden, name) {
			continue
		}
		fmt.Fprintf(&b, "<input type=\"hidden\" name=%q value=%q>\n", name, value)
	}
	b.WriteString(`<input name="manual_score" value="10">` + "\n")
	b.WriteString(`<input name="penalty" value="-2">` + "\n")
	b.WriteString(`<input name="score" value="13">` + "\n")
	b.WriteString(`<input name="status" value="0">` + "\n")
	fmt.Fprintf(&b, "<textarea name=\"evaluation\">%s</textarea>\n", f.evaluation)
	fmt.Fprintf(&b, "<textarea name=\"note\">%s</textarea>\n", f.note)
	b.WriteString("</form></div></body></html>")
	return b.String()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
