package proposal

import (
	"context"
	"strings"

	"github.com/foliolabs/folioagent/logging"
)

// DefaultMaxRevisions caps the generate/review/revise cycle. The cap is a
// safety ceiling: behavior below it is unchanged, and exhausting it approves
// the latest draft with the outstanding feedback attached as caveats.
const DefaultMaxRevisions = 3

// ReviewFunc examines a draft and returns feedback. Feedback containing
// revision language sends the workflow around the loop again; anything else
// approves the draft.
type ReviewFunc func(ctx context.Context, draft string) (string, error)

// Outcome is the result of a review workflow run.
type Outcome struct {
	Proposal  string // final (approved) draft
	Feedback  string // last reviewer feedback, empty if approved clean
	Revisions int    // revision rounds consumed
	Caveats   bool   // true when the cap was exhausted before approval
}

// ReviewWorkflow runs the secondary proposal-quality cycle:
// generate -> review -> (approve | revise-and-regenerate). It is independent
// of the main orchestration loop.
type ReviewWorkflow struct {
	review       ReviewFunc
	maxRevisions int
	logger       logging.Logger
}

// NewReviewWorkflow builds a workflow with the default revision cap.
func NewReviewWorkflow(review ReviewFunc, logger logging.Logger) *ReviewWorkflow {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &ReviewWorkflow{review: review, maxRevisions: DefaultMaxRevisions, logger: logger}
}

// Run generates a proposal for req and cycles it through review until the
// reviewer stops asking for revisions or the cap is exhausted.
func (w *ReviewWorkflow) Run(ctx context.Context, req Requirements) (Outcome, error) {
	feedback := ""
	draft := Generate(req, "")

	for round := 0; ; round++ {
		verdict, err := w.review(ctx, draft)
		if err != nil {
			return Outcome{}, err
		}

		if !RequestsRevision(verdict) {
			w.logger.Info("proposal.review.approved", "revisions", round)
			return Outcome{Proposal: draft, Revisions: round}, nil
		}

		if round >= w.maxRevisions {
			w.logger.Warn("proposal.review.cap_exhausted", "revisions", round, "feedback", verdict)
			return Outcome{Proposal: draft, Feedback: verdict, Revisions: round, Caveats: true}, nil
		}

		feedback = verdict
		draft = Generate(req, feedback)
		w.logger.Debug("proposal.review.revised", "round", round+1)
	}
}

// RequestsRevision reports whether reviewer feedback asks for another round.
func RequestsRevision(feedback string) bool {
	f := strings.ToLower(feedback)
	for _, marker := range []string{"revise", "revision", "rework", "needs change", "not approved"} {
		if strings.Contains(f, marker) {
			return true
		}
	}
	return false
}
