package review

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jdupak/FEL-PSBrute/lib/scrapers/brute/core"
	"github.com/jdupak/FEL-PSBrute/lib/scrapers/brute/richtext"

	"go.opentelemetry.io/otel/codes"
)

// a successful edit redirects back to the course page
const acceptedRedirectPrefix = "/brute/teacher/course/"

func encodeField(field TextField, kind richtext.Field) (string, error) {
	if field.Raw {
		return field.Value, nil
	}
	return richtext.Encode(field.Value, kind)
}

// Submit serializes the record back into the upload form and POSTs it.
// The portal acknowledges the edit with a redirect to the course page,
// anything else is an error.
func Submit(ctx context.Context, client *core.Client, record *Record) error {
	ctx, span := tracer.Start(ctx, "Submit")
	defer span.End()

	evaluation, err := encodeField(record.Evaluation, richtext.Evaluation)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to encode evaluation")
		return err
	}
	note, err := encodeField(record.Note, richtext.Note)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to encode note")
		return err
	}

	form := url.Values{}
	for name, values := range record.hidden {
		for _, v := range values {
			form.Add(name, v)
		}
	}
	form.Set("student_id", record.StudentId)
	form.Set("manual_score", record.ManualScore)
	form.Set("penalty", record.Penalty)
	form.Set("score", record.Score)
	form.Set("status", record.Status)
	form.Set("evaluation", evaluation)
	form.Set("note", note)

	res, err := client.PostForm(ctx, record.PageUrl, form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post form")
		return err
	}

	target := core.RedirectTarget(res)
	if target == nil {
		err := fmt.Errorf(
			"submission not acknowledged, got status %s instead of a redirect",
			res.Status(),
		)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if !strings.HasPrefix(target.Path, acceptedRedirectPrefix) {
		err := fmt.Errorf(
			"submission not acknowledged, redirected to %q instead of a course page",
			target.String(),
		)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
