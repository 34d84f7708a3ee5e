// Package slideua converts PowerPoint presentations into tagged PDF aimed at
// PDF/UA-1 and reports their accessibility against WCAG 2.1 and BITV 2.0.
//
// Basic usage:
//
//	res, err := slideua.Open("deck.pptx").Convert(ctx)
//	if err != nil {
//	    var mp *pptx.MalformedPackageError
//	    if errors.As(err, &mp) {
//	        fmt.Println(mp.Message("de"))
//	    }
//	    return err
//	}
//	os.WriteFile("deck.pdf", res.PDF, 0o644)
//	fmt.Println(res.Report.Text("de"))
//
// With options:
//
//	res, err := slideua.FromBytes(data).
//	    Profile(profile.Strict()).
//	    Enhancer(enhance.New(collab)).
//	    Logger(log).
//	    Convert(ctx)
//
// Validate runs the same pipeline without producing a document. The lower
// level packages pptx, validate and tagged can be used on their own.
package slideua

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/tsawler/slideua/profile"
)

// Open returns a Job reading the named file when it runs.
//
// Example:
//
//	res, err := slideua.Open("deck.pptx").Validate(ctx)
func Open(filename string) *Job {
	return newJob(func(j *Job) { j.filename = filename })
}

// FromBytes returns a Job for an in-memory presentation. The slice is not
// copied and must not be modified while the job runs.
func FromBytes(data []byte) *Job {
	return newJob(func(j *Job) { j.data = data })
}

// FromReader returns a Job that reads the presentation from r when it runs.
func FromReader(r io.Reader) *Job {
	return newJob(func(j *Job) { j.reader = r })
}

func newJob(set func(*Job)) *Job {
	j := &Job{
		profile: profile.Default(),
		log:     zerolog.Nop(),
		now:     time.Now,
		autoFix: true,
	}
	set(j)
	return j
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	res := slideua.Must(slideua.Open("deck.pptx").Validate(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
