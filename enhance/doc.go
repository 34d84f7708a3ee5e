// Package enhance is the boundary to services that draft missing
// alternative text and slide titles.
//
// A [Collaborator] is passed in explicitly; there is no global client. The
// [Enhancer] asks it about every figure without alt text and every slide
// without a title, at most a fixed number of calls per slide, each under
// its own timeout. The answers come back as a [Plan] of patches which
// [Apply] turns into a new presentation, leaving the parsed one untouched:
//
//	plan, err := enhance.New(collab, enhance.WithLogger(log)).Plan(ctx, pres)
//	if err != nil {
//		return err // ctx was cancelled
//	}
//	pres = enhance.Apply(pres, plan.Patches)
//
// An unreachable collaborator or a failing call is logged as a warning and
// produces no patch. Two collaborators are provided: [OpenAICompat] for
// vision chat models behind an OpenAI-compatible API, and [OCR] for text
// found in pictures.
package enhance
