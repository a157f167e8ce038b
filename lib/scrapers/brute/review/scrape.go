package review

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/jdupak/FEL-PSBrute/lib/scrapers/brute/core"
	"github.com/jdupak/FEL-PSBrute/lib/scrapers/brute/richtext"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/brute/review")

// the trailing segment of the upload page url is swapped for this to
// get the submission archive
const archiveSuffix = "download"

var (
	uploadUrlRegex  = regexp.MustCompile(`/teacher/upload/([^/?#]+)/([^/?#]+)/?$`)
	studentUrlRegex = regexp.MustCompile(`/brute/teacher/student/([^/?#]+)`)
)

const outputUrlPrefix = "/brute/data/"

// the hidden inputs the server requires to accept the resubmission as
// the same entity, each must be present and carry a value
var requiredHiddenFields = []string{
	"id",
	"assignment_id",
	"course_id",
	"team_id",
	"ae_score",
	"token",
}

// editable inputs whose current values seed the record
var scoreFields = []string{"manual_score", "penalty", "score", "status"}

// ArchiveUrl derives the submission archive location from a review page
// url, the trailing path segment is swapped for the download suffix.
func ArchiveUrl(pageUrl string) (string, error) {
	if uploadUrlRegex.FindStringSubmatch(pageUrl) == nil {
		return "", core.FormatError{
			Missing: fmt.Sprintf("teacher/upload pattern in url %q", pageUrl),
		}
	}
	return pageUrl[:strings.LastIndex(pageUrl, "/")+1] + archiveSuffix, nil
}

// Scrape fetches a submission review page and reconstructs the full
// form state needed to resubmit it, pageUrl must match
// `.../teacher/upload/<uploadId>/<submissionId>`.
func Scrape(ctx context.Context, client *core.Client, pageUrl string) (*Record, error) {
	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()

	groups := uploadUrlRegex.FindStringSubmatch(pageUrl)
	if groups == nil {
		err := core.FormatError{
			Missing: fmt.Sprintf("teacher/upload pattern in url %q", pageUrl),
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	archiveUrl, err := ArchiveUrl(pageUrl)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	record := &Record{
		UploadId:     groups[1],
		SubmissionId: groups[2],
		PageUrl:      pageUrl,
		ArchiveUrl:   archiveUrl,
		hidden:       url.Values{},
	}

	res, err := client.Get(ctx, pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch review page")
		return nil, err
	}
	if res.StatusCode() != http.StatusOK {
		err := fmt.Errorf("unexpected status %s fetching review page", res.Status())
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	page := string(res.Body())

	raw, text, err := richtext.Decode(page, richtext.Evaluation)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode evaluation field")
		return nil, err
	}
	record.Evaluation = TextField{Value: text, Raw: raw}

	// older portal variants never marker-encode the note, Decode's
	// textarea fallback covers them
	raw, text, err = richtext.Decode(page, richtext.Note)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode note field")
		return nil, err
	}
	record.Note = TextField{Value: text, Raw: raw}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBufferString(page))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	err = scrapeLinks(doc, record)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	err = scrapeFormState(doc, record)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	slog.DebugContext(ctx, "scraped review page",
		"upload", record.UploadId,
		"submission", record.SubmissionId,
		"student", record.StudentId,
		"ae_score", record.AEScore,
	)
	return record, nil
}

func scrapeLinks(doc *goquery.Document, record *Record) error {
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		if record.OutputUrl == "" && strings.HasPrefix(href, outputUrlPrefix) {
			record.OutputUrl = href
		}
		if record.StudentId == "" {
			groups := studentUrlRegex.FindStringSubmatch(href)
			if groups != nil {
				record.StudentId = groups[1]
			}
		}
	})

	if record.OutputUrl == "" {
		return core.FormatError{Missing: "grading output link (" + outputUrlPrefix + ")"}
	}
	if record.StudentId == "" {
		return core.FormatError{Missing: "student identity link (/brute/teacher/student/<id>)"}
	}
	return nil
}

func scrapeFormState(doc *goquery.Document, record *Record) error {
	for _, name := range requiredHiddenFields {
		value, ok := doc.Find("input[name=" + name + "]").Attr("value")
		if !ok || value == "" {
			return core.FormatError{Missing: "hidden field " + name}
		}
		record.hidden.Set(name, value)
	}

	record.AssignmentId = record.hidden.Get("assignment_id")
	record.CourseId = record.hidden.Get("course_id")
	record.TeamId = record.hidden.Get("team_id")

	ae, err := strconv.ParseFloat(record.hidden.Get("ae_score"), 64)
	if err != nil {
		return core.FormatError{Missing: "numeric ae_score value"}
	}
	record.AEScore = ae

	for _, name := range scoreFields {
		value := doc.Find("input[name=" + name + "]").AttrOr("value", "")
		switch name {
		case "manual_score":
			record.ManualScore = value
		case "penalty":
			record.Penalty = value
		case "score":
			record.Score = value
		case "status":
			record.Status = value
		}
	}
	return nil
}
